// Package markdown inspects rendered markdown with goldmark.
package markdown

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BrokenLink is an in-document link whose fragment matches no heading
type BrokenLink struct {
	Text     string
	Fragment string
}

func parse(body []byte) gmast.Node {
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	return md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
}

// headingIDs generates GitHub-style heading IDs. Unicode letters, marks and
// digits are kept lower-cased; spaces, '-' and '_' become '-'; anything else
// is dropped. Repeated IDs get "-1", "-2", ... suffixes.
type headingIDs struct {
	values map[string]bool
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{values: make(map[string]bool)}
}

func (s *headingIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	lower := cases.Lower(language.Und).String(strings.TrimSpace(string(value)))

	var b strings.Builder
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}

	id := b.String()
	if id == "" {
		id = "id"
		if kind == gmast.KindHeading {
			id = "heading"
		}
	}
	if !s.values[id] {
		s.values[id] = true
		return []byte(id)
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", id, i)
		if !s.values[candidate] {
			s.values[candidate] = true
			return []byte(candidate)
		}
	}
}

func (s *headingIDs) Put(value []byte) {
	s.values[string(value)] = true
}

// fold compares anchors caselessly, so a lower-cased "straße" matches the
// ID of the upper-cased heading "STRASSE"
func fold(anchor string) string {
	return cases.Fold().String(strings.TrimPrefix(anchor, "#"))
}

// HeadingIDs returns the auto-generated heading IDs in document order.
// Duplicate headings get goldmark's numeric suffixes ("intro", "intro-1").
func HeadingIDs(body []byte) []string {
	root := parse(body)

	var ids []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			if v, ok := h.AttributeString("id"); ok {
				if id, ok := v.([]byte); ok {
					ids = append(ids, string(id))
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return ids
}

// MissingAnchors returns the anchors (with or without leading '#') that no
// heading in body resolves, preserving input order. Matching is caseless.
func MissingAnchors(body []byte, anchors []string) []string {
	known := make(map[string]bool)
	for _, id := range HeadingIDs(body) {
		known[fold(id)] = true
	}

	var missing []string
	for _, a := range anchors {
		if !known[fold(a)] {
			missing = append(missing, a)
		}
	}
	return missing
}

// BrokenFragments finds every "#fragment" link in body that no heading resolves
func BrokenFragments(body []byte) []BrokenLink {
	root := parse(body)

	known := make(map[string]bool)
	var links []BrokenLink
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			if v, ok := node.AttributeString("id"); ok {
				if id, ok := v.([]byte); ok {
					known[fold(string(id))] = true
				}
			}
		case *gmast.Link:
			dest := string(node.Destination)
			if strings.HasPrefix(dest, "#") {
				links = append(links, BrokenLink{
					Text:     string(node.Text(body)),
					Fragment: strings.TrimPrefix(dest, "#"),
				})
			}
		}
		return gmast.WalkContinue, nil
	})

	broken := links[:0]
	for _, l := range links {
		if !known[fold(l.Fragment)] {
			broken = append(broken, l)
		}
	}
	return broken
}
