package render

import (
	"encoding/json"
	"testing"
)

func mustRender(t *testing.T, raw string) Node {
	t.Helper()
	node, err := Render([]byte(raw))
	if err != nil {
		t.Fatalf("render %q: %v", raw, err)
	}
	return node
}

func TestRenderNeverFailsOnValidJSON(t *testing.T) {
	cases := []string{
		`null`,
		`true`,
		`0`,
		`"text"`,
		`[]`,
		`{}`,
		`{"a":{"b":{"c":{"d":[1,2,{"e":null}]}}}}`,
		`[1,"two",true,{"mixed":["deep",{"deeper":false}]}]`,
	}
	for _, raw := range cases {
		mustRender(t, raw)
	}
}

func TestRenderRejectsMalformedJSON(t *testing.T) {
	if _, err := Render([]byte(`{"open":`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if _, err := Render([]byte(`1 2`)); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestTopLevelSectionsSkipRawAndNull(t *testing.T) {
	doc := mustRender(t, `{"first":1,"raw":{"x":1},"gone":null,"second":"two"}`)
	if doc.Kind != KindDocument {
		t.Fatalf("kind = %s, want document", doc.Kind)
	}
	if len(doc.Children) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Children))
	}
	if doc.Children[0].Key != "first" || doc.Children[1].Key != "second" {
		t.Fatalf("section order = %s, %s", doc.Children[0].Key, doc.Children[1].Key)
	}
	if doc.Children[1].Label != "Second" {
		t.Fatalf("label = %q, want Second", doc.Children[1].Label)
	}
}

func TestSectionOrderFollowsDocument(t *testing.T) {
	doc := mustRender(t, `{"zeta":1,"alpha":2,"mid":3}`)
	want := []string{"zeta", "alpha", "mid"}
	for i, key := range want {
		if doc.Children[i].Key != key {
			t.Fatalf("section %d = %s, want %s", i, doc.Children[i].Key, key)
		}
	}
}

func TestScoreDetectionBands(t *testing.T) {
	cases := []struct {
		value float64
		band  string
	}{
		{85, BandGood},
		{65, BandWarning},
		{45, BandCaution},
		{25, BandCritical},
		{80, BandGood},
		{60, BandWarning},
		{40, BandCaution},
		{0, BandCritical},
		{100, BandGood},
	}
	for _, tc := range cases {
		value, _ := json.Marshal(tc.value)
		doc := mustRender(t, `{"scores":{"overall":`+string(value)+`}}`)
		section := doc.Children[0]
		field := section.Children[0].Children[0]
		if field.Kind != KindScore {
			t.Fatalf("value %v: kind = %s, want score", tc.value, field.Kind)
		}
		if field.Score != tc.value {
			t.Fatalf("value %v: score = %v", tc.value, field.Score)
		}
		if field.Band != tc.band {
			t.Fatalf("value %v: band = %s, want %s", tc.value, field.Band, tc.band)
		}
	}
}

func TestScoreKeywordIsCaseInsensitive(t *testing.T) {
	doc := mustRender(t, `{"metrics":{"CodeQuality":90}}`)
	field := doc.Children[0].Children[0].Children[0]
	if field.Kind != KindScore {
		t.Fatalf("kind = %s, want score", field.Kind)
	}
}

func TestNonScoreNumbersStayPlain(t *testing.T) {
	cases := []string{
		`{"port":{"value":80}}`,         // key lacks a score keyword
		`{"scores":{"overall":101}}`,    // out of range
		`{"scores":{"overall":-1}}`,     // out of range
		`{"security":{"note":"HTTPS"}}`, // not a number at all
	}
	for _, raw := range cases {
		doc := mustRender(t, raw)
		var walk func(Node) bool
		walk = func(n Node) bool {
			if n.Kind == KindScore {
				return true
			}
			for _, child := range n.Children {
				if walk(child) {
					return true
				}
			}
			return false
		}
		if walk(doc) {
			t.Fatalf("unexpected score node for %s", raw)
		}
	}
}

func TestPrimitiveArrayBecomesList(t *testing.T) {
	doc := mustRender(t, `{"insights":["one","two",3,true]}`)
	list := doc.Children[0].Children[0]
	if list.Kind != KindList {
		t.Fatalf("kind = %s, want list", list.Kind)
	}
	if len(list.Children) != 4 {
		t.Fatalf("items = %d, want 4", len(list.Children))
	}
	if list.Children[2].Text != "3" {
		t.Fatalf("numeric item text = %q", list.Children[2].Text)
	}
}

func TestMixedArrayBecomesBlocks(t *testing.T) {
	doc := mustRender(t, `{"apps":[{"name":"api","hasTests":true},"stray"]}`)
	blocks := doc.Children[0].Children[0]
	if blocks.Kind != KindBlocks {
		t.Fatalf("kind = %s, want blocks", blocks.Kind)
	}
	obj := blocks.Children[0]
	if obj.Kind != KindObject {
		t.Fatalf("element kind = %s, want object", obj.Kind)
	}
	if obj.Children[0].Label != "Name" {
		t.Fatalf("field label = %q", obj.Children[0].Label)
	}
	if obj.Children[1].Kind != KindBool || !obj.Children[1].Flag {
		t.Fatalf("bool field = %+v", obj.Children[1])
	}
	if blocks.Children[1].Kind != KindText || blocks.Children[1].Text != "stray" {
		t.Fatalf("primitive element = %+v", blocks.Children[1])
	}
}

func TestNullRendersPlaceholder(t *testing.T) {
	node := mustRender(t, `[null]`)
	if node.Children[0].Kind != KindNull {
		t.Fatalf("kind = %s, want null", node.Children[0].Kind)
	}
}

func TestNumberLiteralPreserved(t *testing.T) {
	doc := mustRender(t, `{"build":{"duration":12.5}}`)
	field := doc.Children[0].Children[0].Children[0]
	if field.Text != "12.5" {
		t.Fatalf("literal = %q, want 12.5", field.Text)
	}
}

func TestHumanizeKey(t *testing.T) {
	cases := map[string]string{
		"codeQuality":    "Code Quality",
		"ciCdSetup":      "Ci Cd Setup",
		"apps":           "Apps",
		"isMonorepo":     "Is Monorepo",
		"hasDockerfile":  "Has Dockerfile",
		"CamelAlready":   "Camel Already",
		"":               "",
		"lazy_loading":   "Lazy_loading",
		"bundleAnalysis": "Bundle Analysis",
	}
	for in, want := range cases {
		if got := HumanizeKey(in); got != want {
			t.Fatalf("HumanizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
