package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tsawler/inkpage/model"
)

func htmlDocument(body string) string {
	return "<!doctype html><html><head><title>Document</title></head><body><article>" + body + "</article></body></html>"
}

func TestParseSimple(t *testing.T) {
	doc, err := Parse(htmlDocument("<h1>Title</h1><p>Hello world.</p>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []model.Block{
		&model.Heading{Level: 1, Content: []model.Span{
			&model.Text{Content: "Title", Style: model.StyleNormal},
		}},
		&model.Paragraph{Content: []model.Span{
			&model.Text{Content: "Hello world.", Style: model.StyleNormal},
		}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Errorf("Parse() = %s, want %s", model.Dump(doc), model.Dump(&model.Document{Blocks: want}))
	}
}

func TestParseInlineStyles(t *testing.T) {
	doc, err := Parse(htmlDocument("<p>This has <strong>lots</strong> of <em>styles</em>.</p>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []model.Block{
		&model.Paragraph{Content: []model.Span{
			&model.Text{Content: "This has ", Style: model.StyleNormal},
			&model.Text{Content: "lots", Style: model.StyleBold},
			&model.Text{Content: " of ", Style: model.StyleNormal},
			&model.Text{Content: "styles", Style: model.StyleItalic},
			&model.Text{Content: ".", Style: model.StyleNormal},
		}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Errorf("Parse() = %s", model.Dump(doc))
	}
}

func TestParseStyleMergeBothOrders(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"strong outer", "<p><strong><em>x</em></strong></p>"},
		{"em outer", "<p><em><strong>x</strong></em></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(htmlDocument(tt.body))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(doc.Blocks) != 1 {
				t.Fatalf("Parse() block count = %d, want 1", len(doc.Blocks))
			}
			para, ok := doc.Blocks[0].(*model.Paragraph)
			if !ok {
				t.Fatalf("Parse() block = %T, want Paragraph", doc.Blocks[0])
			}
			if len(para.Content) != 1 {
				t.Fatalf("span count = %d, want 1: %s", len(para.Content), model.Dump(doc))
			}
			text, ok := para.Content[0].(*model.Text)
			if !ok {
				t.Fatalf("span = %T, want Text", para.Content[0])
			}
			if text.Content != "x" || text.Style != model.StyleBoldItalic {
				t.Errorf("span = %q %s, want \"x\" BoldItalic", text.Content, text.Style)
			}
		})
	}
}

func TestParseImagePromotion(t *testing.T) {
	doc, err := Parse(htmlDocument(`<p><img src="a.jpg"></p>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("block count = %d, want 1", len(doc.Blocks))
	}
	img, ok := doc.Blocks[0].(*model.Image)
	if !ok {
		t.Fatalf("block = %T, want Image", doc.Blocks[0])
	}
	if img.URL != "a.jpg" || img.AltText != "" {
		t.Errorf("Image = %+v, want {URL: a.jpg, AltText: \"\"}", img)
	}
}

func TestParseInlineImageBecomesPlaceholder(t *testing.T) {
	doc, err := Parse(htmlDocument(`<p>before <img src="x.png" alt="x"> after</p>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	para, ok := doc.Blocks[0].(*model.Paragraph)
	if !ok {
		t.Fatalf("block = %T, want Paragraph", doc.Blocks[0])
	}

	found := false
	for _, span := range para.Content {
		if text, ok := span.(*model.Text); ok && text.Content == "[TODO: parse node `Image`]" {
			found = true
		}
	}
	if !found {
		t.Errorf("no placeholder span for inline image: %s", model.Dump(doc))
	}
}

func TestParseTableColumnInference(t *testing.T) {
	doc, err := Parse(htmlDocument("<table><tbody><tr><td>a</td><td>b</td></tr></tbody></table>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("block count = %d, want 1: %s", len(doc.Blocks), model.Dump(doc))
	}
	table, ok := doc.Blocks[0].(*model.Table)
	if !ok {
		t.Fatalf("block = %T, want Table", doc.Blocks[0])
	}
	if len(table.Rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(table.Rows))
	}
	if len(table.Rows[0].Cells) != 2 {
		t.Fatalf("cell count = %d, want 2", len(table.Rows[0].Cells))
	}

	cellText := func(i int) string {
		if len(table.Rows[0].Cells[i].Content) != 1 {
			return ""
		}
		text, _ := table.Rows[0].Cells[i].Content[0].(*model.Text)
		if text == nil {
			return ""
		}
		return text.Content
	}
	if cellText(0) != "a" || cellText(1) != "b" {
		t.Errorf("cells = %q, %q, want a, b", cellText(0), cellText(1))
	}
}

func TestParseTableWithHeadKeepsHeaderRow(t *testing.T) {
	body := "<table><thead><tr><th>H1</th><th>H2</th></tr></thead>" +
		"<tbody><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></tbody></table>"
	doc, err := Parse(htmlDocument(body))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("block count = %d, want 1: %s", len(doc.Blocks), model.Dump(doc))
	}
	table, ok := doc.Blocks[0].(*model.Table)
	if !ok {
		t.Fatalf("block = %T, want Table: %s", doc.Blocks[0], model.Dump(doc))
	}
	if len(table.Rows) != 3 {
		t.Fatalf("row count = %d, want 3 (header + 2 data rows)", len(table.Rows))
	}

	cellText := func(row, col int) string {
		if len(table.Rows[row].Cells) <= col {
			return ""
		}
		content := table.Rows[row].Cells[col].Content
		if len(content) != 1 {
			return ""
		}
		text, _ := content[0].(*model.Text)
		if text == nil {
			return ""
		}
		return text.Content
	}
	if cellText(0, 0) != "H1" || cellText(0, 1) != "H2" {
		t.Errorf("header row = %q, %q, want H1, H2", cellText(0, 0), cellText(0, 1))
	}
	if cellText(1, 0) != "a" || cellText(2, 1) != "d" {
		t.Errorf("data rows lost: %s", model.Dump(doc))
	}
}

func TestParseLink(t *testing.T) {
	doc, err := Parse(htmlDocument(`<p><a href="https://example.com/x">click</a></p>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	para := doc.Blocks[0].(*model.Paragraph)
	if len(para.Content) != 1 {
		t.Fatalf("span count = %d, want 1: %s", len(para.Content), model.Dump(doc))
	}
	link, ok := para.Content[0].(*model.Link)
	if !ok {
		t.Fatalf("span = %T, want Link", para.Content[0])
	}
	if link.Destination != "https://example.com/x" || link.Text != "click" {
		t.Errorf("Link = %+v", link)
	}
}

func TestParseCodeBlock(t *testing.T) {
	doc, err := Parse(htmlDocument("<pre><code class=\"language-go\">a := 1\nb := 2</code></pre>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	code, ok := doc.Blocks[0].(*model.CodeBlock)
	if !ok {
		t.Fatalf("block = %T, want CodeBlock", doc.Blocks[0])
	}
	if code.Language != "go" {
		t.Errorf("Language = %q, want go", code.Language)
	}
	if code.Content != "a := 1\nb := 2" {
		t.Errorf("Content = %q", code.Content)
	}
}

func TestParseCodeBlockNoLanguage(t *testing.T) {
	doc, err := Parse(htmlDocument("<pre>plain</pre>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	code := doc.Blocks[0].(*model.CodeBlock)
	if code.Language != "" {
		t.Errorf("Language = %q, want empty", code.Language)
	}
	if code.Content != "plain" {
		t.Errorf("Content = %q, want plain", code.Content)
	}
}

func TestParseNestedStructure(t *testing.T) {
	body := "<blockquote><p>quoted</p><ul><li>one</li><li>two</li></ul></blockquote>"
	doc, err := Parse(htmlDocument(body))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	quote, ok := doc.Blocks[0].(*model.BlockQuote)
	if !ok {
		t.Fatalf("block = %T, want BlockQuote: %s", doc.Blocks[0], model.Dump(doc))
	}
	if len(quote.Content) != 2 {
		t.Fatalf("quote child count = %d, want 2: %s", len(quote.Content), model.Dump(doc))
	}
	list, ok := quote.Content[1].(*model.List)
	if !ok {
		t.Fatalf("quote child = %T, want List", quote.Content[1])
	}
	if len(list.Items) != 2 {
		t.Errorf("list item count = %d, want 2", len(list.Items))
	}
	if list.Items[0].Marker != "•" {
		t.Errorf("marker = %q, want bullet", list.Items[0].Marker)
	}
}

func TestParseOrderedListMarkers(t *testing.T) {
	doc, err := Parse(htmlDocument("<ol><li>a</li><li>b</li><li>c</li></ol>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	list := doc.Blocks[0].(*model.List)
	wants := []string{"1.", "2.", "3."}
	for i, want := range wants {
		if list.Items[i].Marker != want {
			t.Errorf("Items[%d].Marker = %q, want %q", i, list.Items[i].Marker, want)
		}
	}
}

func TestParseThematicBreak(t *testing.T) {
	doc, err := Parse(htmlDocument("<p>a</p><hr><p>b</p>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Blocks) != 3 {
		t.Fatalf("block count = %d, want 3", len(doc.Blocks))
	}
	if _, ok := doc.Blocks[1].(*model.ThematicBreak); !ok {
		t.Errorf("block[1] = %T, want ThematicBreak", doc.Blocks[1])
	}
}

func TestParseBlockOrderPreserved(t *testing.T) {
	body := "<h2>A</h2><p>B</p><ul><li>C</li></ul><blockquote><p>D</p></blockquote><pre>E</pre>"
	doc, err := Parse(htmlDocument(body))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	kinds := make([]model.BlockKind, len(doc.Blocks))
	for i, b := range doc.Blocks {
		kinds[i] = b.Kind()
	}
	want := []model.BlockKind{
		model.BlockKindHeading,
		model.BlockKindParagraph,
		model.BlockKindList,
		model.BlockKindBlockQuote,
		model.BlockKindCodeBlock,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("block kinds = %v, want %v", kinds, want)
	}
}

func TestParseEscapedTextRoundTrips(t *testing.T) {
	doc, err := Parse(htmlDocument("<p>5 * 3 [sic]</p>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	para := doc.Blocks[0].(*model.Paragraph)
	var got string
	for _, span := range para.Content {
		if text, ok := span.(*model.Text); ok {
			got += text.Content
		}
	}
	if got != "5 * 3 [sic]" {
		t.Errorf("text = %q, want %q", got, "5 * 3 [sic]")
	}
}

func TestParseEmptyInput(t *testing.T) {
	doc, err := Parse("")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Blocks) != 0 {
		t.Errorf("block count = %d, want 0", len(doc.Blocks))
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`\*literal\*`, "*literal*"},
		{`\\`, `\`},
		{`no escapes`, "no escapes"},
		{`\q unknown`, `\q unknown`},
		{`trailing\`, `trailing\`},
	}
	for _, tt := range tests {
		if got := unescape(tt.in); got != tt.want {
			t.Errorf("unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseErrorsAreSentinels(t *testing.T) {
	// A link with an empty destination is a structural error.
	_, err := Parse(htmlDocument(`<p><a href="">text</a></p>`))
	if err == nil {
		// The bridge drops hrefless links, so an empty href may never
		// reach the grammar; accept either outcome but require the
		// sentinel when an error does surface.
		return
	}
	if !errors.Is(err, ErrMissingNodeKind) {
		t.Errorf("error = %v, want ErrMissingNodeKind", err)
	}
}
