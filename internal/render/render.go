// Package render turns an arbitrary JSON document, typically a stored
// analysis report, into a presentation tree the dashboard can lay out
// without prior schema knowledge.
package render

import (
	"strings"
	"unicode"
)

// NodeKind selects the rendering strategy for one node.
type NodeKind string

const (
	KindDocument NodeKind = "document" // top-level section container
	KindSection  NodeKind = "section"  // titled top-level entry
	KindNull     NodeKind = "null"
	KindBool     NodeKind = "bool"
	KindText     NodeKind = "text"   // plain emphasized string/number
	KindScore    NodeKind = "score"  // proportional bar with band
	KindList     NodeKind = "list"   // array of primitives
	KindBlocks   NodeKind = "blocks" // array holding non-primitives
	KindObject   NodeKind = "object" // label+value pairs
)

// Score color bands.
const (
	BandGood     = "good"
	BandWarning  = "warning"
	BandCaution  = "caution"
	BandCritical = "critical"
)

// Node is one element of the render tree.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Key      string   `json:"key,omitempty"`   // originating field name
	Label    string   `json:"label,omitempty"` // humanized key
	Text     string   `json:"text,omitempty"`  // literal for text/bool nodes
	Flag     bool     `json:"flag,omitempty"`  // boolean value for bool nodes
	Score    float64  `json:"score,omitempty"` // bar width percentage
	Band     string   `json:"band,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// Field names that mark a 0-100 number as a quality metric.
var scoreKeywords = []string{
	"score", "quality", "coverage", "maintainability",
	"security", "performance", "overall", "infrastructure",
}

// Render parses raw JSON and builds the full render tree. The only error
// path is malformed JSON; every valid document renders.
func Render(raw []byte) (Node, error) {
	value, err := Parse(raw)
	if err != nil {
		return Node{}, err
	}
	return RenderValue(value), nil
}

// RenderValue builds the render tree for an already-parsed value. A
// top-level object becomes a document of titled sections, skipping the
// "raw" key and null-valued keys. Anything else renders directly.
func RenderValue(value Value) Node {
	if value.Kind != ValueObject {
		return renderValue(value, "", 0)
	}
	doc := Node{Kind: KindDocument}
	for _, member := range value.Obj {
		if member.Key == "raw" || member.Value.Kind == ValueNull {
			continue
		}
		doc.Children = append(doc.Children, Node{
			Kind:     KindSection,
			Key:      member.Key,
			Label:    HumanizeKey(member.Key),
			Children: []Node{renderValue(member.Value, member.Key, 0)},
		})
	}
	return doc
}

func renderValue(value Value, key string, depth int) Node {
	switch value.Kind {
	case ValueNull:
		return Node{Kind: KindNull}
	case ValueBool:
		text := "false"
		if value.Bool {
			text = "true"
		}
		return Node{Kind: KindBool, Text: text, Flag: value.Bool}
	case ValueNumber:
		if isScore(value.Num, key) {
			return Node{
				Kind:  KindScore,
				Key:   key,
				Text:  value.Literal,
				Score: value.Num,
				Band:  scoreBand(value.Num),
			}
		}
		return Node{Kind: KindText, Text: value.Literal}
	case ValueString:
		return Node{Kind: KindText, Text: value.Str}
	case ValueArray:
		return renderArray(value, depth)
	case ValueObject:
		return renderObject(value, depth)
	}
	return Node{Kind: KindNull}
}

func renderArray(value Value, depth int) Node {
	allPrimitives := true
	for _, element := range value.Arr {
		if !element.isPrimitive() {
			allPrimitives = false
			break
		}
	}
	if allPrimitives {
		node := Node{Kind: KindList}
		for _, element := range value.Arr {
			node.Children = append(node.Children, renderValue(element, "", depth+1))
		}
		return node
	}
	node := Node{Kind: KindBlocks}
	for _, element := range value.Arr {
		if element.Kind == ValueObject {
			node.Children = append(node.Children, renderObject(element, depth+1))
			continue
		}
		node.Children = append(node.Children, renderValue(element, "", depth+1))
	}
	return node
}

func renderObject(value Value, depth int) Node {
	node := Node{Kind: KindObject}
	for _, member := range value.Obj {
		field := renderValue(member.Value, member.Key, depth+1)
		field.Key = member.Key
		field.Label = HumanizeKey(member.Key)
		node.Children = append(node.Children, field)
	}
	return node
}

func isScore(num float64, key string) bool {
	if key == "" || num < 0 || num > 100 {
		return false
	}
	lower := strings.ToLower(key)
	for _, keyword := range scoreKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func scoreBand(num float64) string {
	switch {
	case num >= 80:
		return BandGood
	case num >= 60:
		return BandWarning
	case num >= 40:
		return BandCaution
	default:
		return BandCritical
	}
}

// HumanizeKey converts a camelCase field name to a display label: a space
// before each internal uppercase letter, first character uppercased,
// surrounding whitespace trimmed ("codeQuality" -> "Code Quality").
func HumanizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	spaced := b.String()
	if spaced != "" {
		runes := []rune(spaced)
		runes[0] = unicode.ToUpper(runes[0])
		spaced = string(runes)
	}
	return strings.TrimSpace(spaced)
}
