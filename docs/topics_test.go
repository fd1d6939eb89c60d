package docs

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestGetTopic(t *testing.T) {
	for _, topic := range []string{"readme", "categories", "rebalancing"} {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("GetTopic(%q) error = %v", topic, err)
		}
	}
	if _, err := GetTopic("nope"); err == nil {
		t.Errorf("GetTopic(nope) = nil, want error")
	}
}

func TestGetTopics_Star(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) error = %v", err)
	}
	for _, topic := range []string{"categories", "rebalancing"} {
		content, _ := GetTopic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("GetTopics(*) does not contain topic %q", topic)
		}
	}
}

func TestReadmeListsEveryTopic(t *testing.T) {
	// the readme is the entry point; a topic it does not mention is
	// effectively undiscoverable
	readme, err := GetTopic("readme")
	if err != nil {
		t.Fatalf("GetTopic(readme) error = %v", err)
	}
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	if len(topics) == 0 {
		t.Fatalf("GetAllTopics() = none")
	}
	for _, topic := range topics {
		if !strings.Contains(readme, "`"+topic+"`") {
			t.Errorf("readme.md does not mention topic %q", topic)
		}
	}
}

// TestTopicsAreWellFormed parses every topic as markdown and checks that
// each one opens with a level-1 heading, so `reb topic` output renders
// with a title.
func TestTopicsAreWellFormed(t *testing.T) {
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range append(topics, "readme") {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			source := []byte(content)
			root := goldmark.DefaultParser().Parse(text.NewReader(source))

			first := root.FirstChild()
			h, ok := first.(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("topic %q does not open with a level-1 heading", topic)
			}
		})
	}
}
