// Package bridge converts raw HTML into the Markdown-shaped text the
// structural parser understands.
//
// Conversion applies element rewrite rules before generic handling:
// script, style, and title emit nothing; figcaption and definition-list
// terms and definitions become blank-line-separated paragraphs; table
// bodies synthesize the header divider row the downstream table grammar
// requires. Everything else converts by the usual Markdown mapping
// (headings, emphasis, links, images, lists, quotes, code fences).
//
//	md, err := bridge.Convert(html)
package bridge

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Convert turns an HTML document into Markdown text. Tags without a rewrite
// rule fall through to generic conversion; unknown elements contribute only
// their content.
func Convert(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}

	blocks := convertChildren(root)
	out := strings.Join(blocks, "\n\n")
	if out != "" {
		out += "\n"
	}
	return norm.NFC.String(out), nil
}

// convertChildren converts each child of n and collects the resulting
// Markdown blocks in document order.
func convertChildren(n *html.Node) []string {
	var blocks []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		blocks = append(blocks, convertBlock(c)...)
	}
	return blocks
}

// convertBlock converts a single DOM node into zero or more Markdown blocks.
func convertBlock(n *html.Node) []string {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(collapseSpace(n.Data)); text != "" {
			return []string{escapeText(text)}
		}
		return nil
	case html.ElementNode:
		// handled below
	default:
		return nil
	}

	if shouldSkipElement(n.Data) {
		return nil
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		text := strings.TrimSpace(inlineText(n))
		if text == "" {
			return nil
		}
		return []string{strings.Repeat("#", level) + " " + text}

	case "p":
		if text := strings.TrimSpace(inlineText(n)); text != "" {
			return []string{text}
		}
		return nil

	case "figcaption", "dt", "dd":
		// Rewrite rule: flatten to a standalone paragraph.
		if text := strings.TrimSpace(inlineText(n)); text != "" {
			return []string{text}
		}
		return nil

	case "ul", "ol":
		if list := listMarkdown(n, 0); list != "" {
			return []string{list}
		}
		return nil

	case "blockquote":
		inner := strings.Join(convertChildren(n), "\n\n")
		if inner == "" {
			return nil
		}
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight("> "+line, " ")
		}
		return []string{strings.Join(lines, "\n")}

	case "pre":
		return []string{fencedCode(n)}

	case "hr":
		return []string{"---"}

	case "table":
		if rows := tableMarkdown(n); rows != "" {
			return []string{rows}
		}
		return nil

	case "img":
		if md := imageMarkdown(n); md != "" {
			return []string{md}
		}
		return nil

	case "dl", "figure", "div", "section", "article", "main",
		"header", "footer", "nav", "aside", "form", "details":
		return convertChildren(n)

	default:
		// Unhandled element: block-level descendants make it a container,
		// anything else flattens to a paragraph.
		if hasBlockDescendant(n) {
			return convertChildren(n)
		}
		if text := strings.TrimSpace(inlineText(n)); text != "" {
			return []string{text}
		}
		return nil
	}
}

// listMarkdown renders a ul/ol element, indenting nested lists four spaces
// per level so the Markdown grammar keeps them attached to their item.
func listMarkdown(list *html.Node, depth int) string {
	ordered := list.Data == "ol"
	indent := strings.Repeat("    ", depth)

	var lines []string
	index := 1
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}

		marker := "-"
		if ordered {
			marker = fmt.Sprintf("%d.", index)
		}
		index++

		if text := strings.TrimSpace(itemInlineText(c)); text != "" {
			lines = append(lines, indent+marker+" "+text)
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type == html.ElementNode && (gc.Data == "ul" || gc.Data == "ol") {
				if nested := listMarkdown(gc, depth+1); nested != "" {
					lines = append(lines, nested)
				}
			}
		}
	}

	return strings.Join(lines, "\n")
}

// itemInlineText flattens a list item's content, excluding nested lists.
func itemInlineText(li *html.Node) string {
	var b strings.Builder
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
			continue
		}
		b.WriteString(inlineText(c))
	}
	return b.String()
}

// tableMarkdown renders a table, synthesizing the header divider the GFM
// grammar requires after the table's first row. A thead row is the header
// when present and sizes the divider to all of its cells; without a thead,
// the first row sizes it to its td count, so a th-only first row synthesizes
// nothing. Rows keep document order across thead, tbody, tfoot, and bare tr
// children.
func tableMarkdown(table *html.Node) string {
	type rowRef struct {
		tr     *html.Node
		inHead bool
	}

	var refs []rowRef
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for s := c.FirstChild; s != nil; s = s.NextSibling {
				if s.Type == html.ElementNode && s.Data == "tr" {
					refs = append(refs, rowRef{tr: s, inHead: c.Data == "thead"})
				}
			}
		case "tr":
			refs = append(refs, rowRef{tr: c})
		}
	}

	var rows []string
	for _, ref := range refs {
		row := rowMarkdown(ref.tr)
		if row == "" {
			continue
		}
		rows = append(rows, row)
		if len(rows) == 1 {
			cols := countCells(ref.tr, "td")
			if ref.inHead {
				cols += countCells(ref.tr, "th")
			}
			if cols > 0 {
				rows = append(rows, dividerRow(cols))
			}
		}
	}
	return strings.Join(rows, "\n")
}

// rowMarkdown wraps each cell in pipe delimiters and terminates the row.
func rowMarkdown(tr *html.Node) string {
	var b strings.Builder
	cells := 0
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			text := strings.TrimSpace(inlineText(c))
			text = strings.ReplaceAll(text, "\n", " ")
			b.WriteString("| ")
			b.WriteString(text)
			b.WriteString(" ")
			cells++
		}
	}
	if cells == 0 {
		return ""
	}
	b.WriteString("|")
	return b.String()
}

func countCells(tr *html.Node, tag string) int {
	if tr == nil {
		return 0
	}
	count := 0
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			count++
		}
	}
	return count
}

func dividerRow(cols int) string {
	return strings.Repeat("| --- ", cols) + "|"
}

// fencedCode renders a pre element as a fenced code block, picking up the
// language from a nested code element's "language-*" class.
func fencedCode(pre *html.Node) string {
	language := ""
	if code := findElement(pre, "code"); code != nil {
		for _, attr := range code.Attr {
			if attr.Key == "class" {
				for _, class := range strings.Fields(attr.Val) {
					if lang, ok := strings.CutPrefix(class, "language-"); ok {
						language = lang
					}
				}
			}
		}
	}

	content := strings.TrimRight(rawText(pre), "\n")
	return "```" + language + "\n" + content + "\n```"
}

func imageMarkdown(img *html.Node) string {
	src, alt := "", ""
	for _, attr := range img.Attr {
		switch attr.Key {
		case "src":
			src = attr.Val
		case "alt":
			alt = attr.Val
		}
	}
	if src == "" {
		return ""
	}
	return "![" + alt + "](" + src + ")"
}

// inlineText converts a subtree to inline Markdown: emphasis, links,
// images, code spans, and hard line breaks.
func inlineText(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return escapeText(collapseSpace(n.Data))
	case html.ElementNode:
		// handled below
	default:
		return ""
	}

	if shouldSkipElement(n.Data) {
		return ""
	}

	switch n.Data {
	case "strong", "b":
		if inner := strings.TrimSpace(inlineChildren(n)); inner != "" {
			return "**" + inner + "**"
		}
		return ""
	case "em", "i":
		if inner := strings.TrimSpace(inlineChildren(n)); inner != "" {
			return "*" + inner + "*"
		}
		return ""
	case "code":
		if inner := strings.TrimSpace(collapseSpace(rawText(n))); inner != "" {
			return "`" + inner + "`"
		}
		return ""
	case "a":
		inner := strings.TrimSpace(inlineChildren(n))
		href := attrValue(n, "href")
		if href == "" {
			return inner
		}
		if inner == "" {
			inner = href
		}
		return "[" + inner + "](" + href + ")"
	case "img":
		return imageMarkdown(n)
	case "br":
		return "\\\n"
	default:
		return inlineChildren(n)
	}
}

func inlineChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(inlineText(c))
	}
	return b.String()
}

// rawText concatenates text nodes without escaping or collapsing, for code
// content.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// shouldSkipElement reports whether the element is dropped entirely.
func shouldSkipElement(tag string) bool {
	switch tag {
	case "script", "style", "title", "head", "noscript", "template":
		return true
	}
	return false
}

func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "p", "div", "ul", "ol", "table", "blockquote", "pre",
				"h1", "h2", "h3", "h4", "h5", "h6", "article", "section", "figure", "dl":
				return true
			}
			if hasBlockDescendant(c) {
				return true
			}
		}
	}
	return false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// collapseSpace folds HTML whitespace runs into single spaces, keeping at
// most one space at either end so inter-tag word boundaries survive.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
		default:
			if space {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

// escapeText backslash-escapes characters that would otherwise read as
// Markdown syntax. The parser unescapes the same set.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '|', '#':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
