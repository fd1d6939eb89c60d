package rebalance

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is the persistence collaborator: durable storage of an owner's
// hierarchy and holdings, read and written as whole sets. The engine
// assumes no partial-field patching contract.
type Store interface {
	LoadHierarchy(owner string) (*Hierarchy, error)
	SaveHierarchy(owner string, h *Hierarchy) error
	LoadHoldings(owner string) (*Holdings, error)
	SaveHoldings(owner string, s *Holdings) error
}

const (
	hierarchyFilename = "hierarchy.jsonl"
	holdingsFilename  = "holdings.jsonl"
	quotesFilename    = "quotes.jsonl"
)

// DirStore persists each owner's configuration as JSONL files in a
// profile directory: <root>/<owner>/hierarchy.jsonl and so on. Files are
// replaced whole on save.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at the given directory. The
// directory and profile subdirectories are created on first save.
func NewDirStore(root string) *DirStore { return &DirStore{root: root} }

func (d *DirStore) path(owner, filename string) string {
	return filepath.Join(d.root, owner, filename)
}

// LoadHierarchy returns the owner's stored hierarchy, or the built-in
// default when the owner has not saved one yet.
func (d *DirStore) LoadHierarchy(owner string) (*Hierarchy, error) {
	f, err := os.Open(d.path(owner, hierarchyFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultHierarchy(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open hierarchy for %q: %w", owner, err)
	}
	defer f.Close()
	h, err := DecodeHierarchy(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode hierarchy for %q: %w", owner, err)
	}
	return h, nil
}

func (d *DirStore) SaveHierarchy(owner string, h *Hierarchy) error {
	var buf bytes.Buffer
	if err := EncodeHierarchy(&buf, h); err != nil {
		return fmt.Errorf("could not encode hierarchy for %q: %w", owner, err)
	}
	return d.write(owner, hierarchyFilename, buf.Bytes())
}

// LoadHoldings returns the owner's stored holdings, empty when the owner
// has not saved any yet.
func (d *DirStore) LoadHoldings(owner string) (*Holdings, error) {
	f, err := os.Open(d.path(owner, holdingsFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return NewHoldings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open holdings for %q: %w", owner, err)
	}
	defer f.Close()
	s, err := DecodeHoldings(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode holdings for %q: %w", owner, err)
	}
	return s, nil
}

func (d *DirStore) SaveHoldings(owner string, s *Holdings) error {
	var buf bytes.Buffer
	if err := EncodeHoldings(&buf, s); err != nil {
		return fmt.Errorf("could not encode holdings for %q: %w", owner, err)
	}
	return d.write(owner, holdingsFilename, buf.Bytes())
}

// LoadQuotes returns the owner's cached quotes, empty when none were
// fetched yet.
func (d *DirStore) LoadQuotes(owner string) (Quotes, error) {
	f, err := os.Open(d.path(owner, quotesFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return make(Quotes), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open quotes for %q: %w", owner, err)
	}
	defer f.Close()
	q, err := DecodeQuotes(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode quotes for %q: %w", owner, err)
	}
	return q, nil
}

func (d *DirStore) SaveQuotes(owner string, q Quotes) error {
	var buf bytes.Buffer
	if err := EncodeQuotes(&buf, q); err != nil {
		return fmt.Errorf("could not encode quotes for %q: %w", owner, err)
	}
	return d.write(owner, quotesFilename, buf.Bytes())
}

// write replaces a profile file whole, creating the profile directory on
// first use.
func (d *DirStore) write(owner, filename string, content []byte) error {
	dir := filepath.Join(d.root, owner)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create profile directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	return nil
}

var _ Store = (*DirStore)(nil)
