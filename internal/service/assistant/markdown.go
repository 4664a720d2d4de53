package assistant

import (
	"regexp"
	"strings"
)

// Block types produced by ParseMarkdown.
const (
	BlockParagraph = "paragraph"
	BlockOrdered   = "ordered"
	BlockBullets   = "bullets"
)

// Span is a run of inline text, optionally bold.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// ListItem is one entry of an ordered or bullet list. Ordered items may
// carry sub-bullets.
type ListItem struct {
	Spans []Span   `json:"spans"`
	Sub   [][]Span `json:"sub,omitempty"`
}

// Block is one segment of an assistant reply.
type Block struct {
	Type  string     `json:"type"`
	Spans []Span     `json:"spans,omitempty"`
	Items []ListItem `json:"items,omitempty"`
}

var (
	numberedRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	bulletRe   = regexp.MustCompile(`^-\s+(.+)$`)
	boldRe     = regexp.MustCompile(`\*\*[^*]+\*\*`)
)

// ParseMarkdown segments the responder's markdown-flavored text into
// blocks: paragraphs, numbered lists, and bullet lists. A dash item
// directly following a numbered item attaches to it as a sub-bullet.
func ParseMarkdown(text string) []Block {
	var (
		blocks  []Block
		current *Block
	)
	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if m := numberedRe.FindStringSubmatch(trimmed); m != nil {
			if current == nil || current.Type != BlockOrdered {
				flush()
				current = &Block{Type: BlockOrdered}
			}
			current.Items = append(current.Items, ListItem{Spans: parseInline(m[2])})
			continue
		}
		if m := bulletRe.FindStringSubmatch(trimmed); m != nil {
			if current != nil && current.Type == BlockOrdered && len(current.Items) > 0 {
				last := &current.Items[len(current.Items)-1]
				last.Sub = append(last.Sub, parseInline(m[1]))
				continue
			}
			if current == nil || current.Type != BlockBullets {
				flush()
				current = &Block{Type: BlockBullets}
			}
			current.Items = append(current.Items, ListItem{Spans: parseInline(m[1])})
			continue
		}
		flush()
		blocks = append(blocks, Block{Type: BlockParagraph, Spans: parseInline(trimmed)})
	}
	flush()
	return blocks
}

// parseInline splits text around **bold** markers.
func parseInline(text string) []Span {
	var spans []Span
	rest := text
	for {
		loc := boldRe.FindStringIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			spans = append(spans, Span{Text: rest[:loc[0]]})
		}
		spans = append(spans, Span{Text: rest[loc[0]+2 : loc[1]-2], Bold: true})
		rest = rest[loc[1]:]
	}
	if rest != "" || len(spans) == 0 {
		spans = append(spans, Span{Text: rest})
	}
	return spans
}
