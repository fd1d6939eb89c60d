package rebalance

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file persists an owner's configuration in JSONL files that are
// still human-readable and git-friendly: one hierarchy record or holding
// per line, stable field order, plain decimal numbers.

// EncodeHierarchy writes the hierarchy as JSONL: one header line for the
// designated liquidity bucket, then one line per major category with its
// subcategories nested.
func EncodeHierarchy(w io.Writer, h *Hierarchy) error {
	if h.Liquidity() != "" {
		var jw jsonObjectWriter
		jw.Append("liquidity", h.Liquidity())
		if err := writeLine(w, &jw); err != nil {
			return err
		}
	}
	for c := range h.Majors() {
		var subs bytes.Buffer
		subs.WriteString("[")
		first := true
		for s := range c.Subcategories() {
			if !first {
				subs.WriteString(",")
			}
			first = false
			var sw jsonObjectWriter
			sw.Append("name", s.Name())
			sw.Append("ratio", s.Ratio())
			b, err := sw.MarshalJSON()
			if err != nil {
				return err
			}
			subs.Write(b)
		}
		subs.WriteString("]")

		var jw jsonObjectWriter
		jw.Append("name", c.Name())
		jw.Append("ratio", c.Ratio())
		jw.Append("subcategories", json.RawMessage(subs.Bytes()))
		if err := writeLine(w, &jw); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, jw *jsonObjectWriter) error {
	b, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// DecodeHierarchy reads a hierarchy back from its JSONL form. The
// decoded hierarchy is returned as stored; callers that care about the
// ratio invariants run Validate and report its status.
func DecodeHierarchy(r io.Reader) (*Hierarchy, error) {
	type jsub struct {
		Name  string          `json:"name"`
		Ratio decimal.Decimal `json:"ratio"`
	}
	type jline struct {
		Liquidity     string          `json:"liquidity"`
		Name          string          `json:"name"`
		Ratio         decimal.Decimal `json:"ratio"`
		Subcategories []jsub          `json:"subcategories"`
	}

	h := &Hierarchy{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var jl jline
		if err := json.Unmarshal(line, &jl); err != nil {
			return nil, fmt.Errorf("format error in hierarchy line %q: %w", string(line), err)
		}
		if jl.Liquidity != "" {
			h.liquidity = jl.Liquidity
			continue
		}
		if jl.Name == "" {
			return nil, fmt.Errorf("hierarchy line %q has no category name", string(line))
		}
		if _, dup := h.Major(jl.Name); dup {
			return nil, fmt.Errorf("major category %q is defined twice", jl.Name)
		}
		c := Category{name: jl.Name, ratio: jl.Ratio}
		for _, s := range jl.Subcategories {
			c.subs = append(c.subs, Subcategory{name: s.Name, ratio: s.Ratio})
		}
		h.majors = append(h.majors, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return h, nil
}

// EncodeHoldings writes the holdings set as JSONL, one holding per line,
// in insertion order.
func EncodeHoldings(w io.Writer, s *Holdings) error {
	for h := range s.All() {
		b, err := json.Marshal(h)
		if err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// DecodeHoldings reads a holdings set back from its JSONL form.
func DecodeHoldings(r io.Reader) (*Holdings, error) {
	type jholding struct {
		Name     string         `json:"name"`
		Code     string         `json:"code"`
		Kind     InstrumentKind `json:"kind"`
		Quantity Quantity       `json:"quantity"`
		Category string         `json:"category"`
		Lot      Quantity       `json:"lot"`
		Note     string         `json:"note"`
	}

	set := NewHoldings()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var jh jholding
		if err := json.Unmarshal(line, &jh); err != nil {
			return nil, fmt.Errorf("format error in holdings line %q: %w", string(line), err)
		}
		h := Holding{
			Name:     jh.Name,
			Code:     jh.Code,
			Kind:     jh.Kind,
			Quantity: jh.Quantity,
			Category: jh.Category,
			LotSize:  jh.Lot,
			Note:     jh.Note,
		}
		if err := set.Add(h); err != nil {
			return nil, fmt.Errorf("invalid holdings line %q: %w", string(line), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Quotes is a local cache of last known unit prices per instrument code,
// used by offline reports.
type Quotes map[string]Money

// Price implements PriceSource over the cached quotes.
func (q Quotes) Price(_ context.Context, code string, _ InstrumentKind) (Money, error) {
	m, ok := q[code]
	if !ok {
		return Money{}, fmt.Errorf("%q not in local quotes: %w", code, ErrPriceUnavailable)
	}
	return m, nil
}

// EncodeQuotes writes the quotes as JSONL, one instrument per line, in
// alphabetical code order so the file diffs cleanly.
func EncodeQuotes(w io.Writer, q Quotes) error {
	codes := make([]string, 0, len(q))
	for code := range q {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		var jw jsonObjectWriter
		jw.Append("code", code)
		jw.EmbedFrom(q[code])
		if err := writeLine(w, &jw); err != nil {
			return err
		}
	}
	return nil
}

// DecodeQuotes reads a quotes cache back from its JSONL form.
func DecodeQuotes(r io.Reader) (Quotes, error) {
	type jquote struct {
		Code     string          `json:"code"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	q := make(Quotes)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var jq jquote
		if err := json.Unmarshal(line, &jq); err != nil {
			return nil, fmt.Errorf("format error in quotes line %q: %w", string(line), err)
		}
		q[jq.Code] = M(jq.Amount, jq.Currency)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return q, nil
}
