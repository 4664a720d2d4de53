package assistant

import (
	"reflect"
	"testing"
)

func TestParseMarkdownParagraphWithBold(t *testing.T) {
	blocks := ParseMarkdown("Check the **Warnings** section for details.")
	if len(blocks) != 1 || blocks[0].Type != BlockParagraph {
		t.Fatalf("blocks = %+v", blocks)
	}
	want := []Span{
		{Text: "Check the "},
		{Text: "Warnings", Bold: true},
		{Text: " section for details."},
	}
	if !reflect.DeepEqual(blocks[0].Spans, want) {
		t.Fatalf("spans = %+v, want %+v", blocks[0].Spans, want)
	}
}

func TestParseMarkdownNumberedListWithSubBullets(t *testing.T) {
	text := "Here is the plan:\n" +
		"1. **Verify CI/CD**\n" +
		"- Check the dashboard\n" +
		"2. Deploy\n" +
		"Done."
	blocks := ParseMarkdown(text)
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	list := blocks[1]
	if list.Type != BlockOrdered || len(list.Items) != 2 {
		t.Fatalf("list = %+v", list)
	}
	if len(list.Items[0].Sub) != 1 {
		t.Fatalf("first item sub-bullets = %d, want 1", len(list.Items[0].Sub))
	}
	if list.Items[0].Sub[0][0].Text != "Check the dashboard" {
		t.Fatalf("sub-bullet = %+v", list.Items[0].Sub[0])
	}
	if len(list.Items[1].Sub) != 0 {
		t.Fatalf("second item should have no sub-bullets: %+v", list.Items[1])
	}
}

func TestParseMarkdownStandaloneBullets(t *testing.T) {
	blocks := ParseMarkdown("- first\n- second")
	if len(blocks) != 1 || blocks[0].Type != BlockBullets {
		t.Fatalf("blocks = %+v", blocks)
	}
	if len(blocks[0].Items) != 2 {
		t.Fatalf("items = %d, want 2", len(blocks[0].Items))
	}
}

func TestParseMarkdownBlankLineSplitsLists(t *testing.T) {
	blocks := ParseMarkdown("1. one\n\n1. two")
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
}

func TestParseMarkdownEmptyInput(t *testing.T) {
	if blocks := ParseMarkdown(""); len(blocks) != 0 {
		t.Fatalf("blocks = %+v, want none", blocks)
	}
}

func TestParseMarkdownCannedRepliesSegment(t *testing.T) {
	for _, message := range []string{"deploy", "security", "performance"} {
		reply := Respond(message)
		blocks := ParseMarkdown(reply.Text)
		if len(blocks) == 0 {
			t.Fatalf("branch %q produced no blocks", message)
		}
	}
}
