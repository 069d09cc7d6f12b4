package parser

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/tsawler/inkpage/model"
)

// flattenChildSpans walks a node's inline children and flattens nested
// styling into single-level spans, merging styles as it descends.
func flattenChildSpans(parent ast.Node, style model.SpanStyle, source []byte) ([]model.Span, error) {
	var spans []model.Span
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		childSpans, err := parseSpan(child, style, source)
		if err != nil {
			return nil, err
		}
		spans = append(spans, childSpans...)
	}
	return spans, nil
}

// parseSpan converts one inline node. Structural failures (a link without a
// destination, undecodable text) are errors; inline constructs without a
// handler degrade to a visible placeholder span instead of failing the
// document.
func parseSpan(node ast.Node, style model.SpanStyle, source []byte) ([]model.Span, error) {
	switch n := node.(type) {
	case *ast.Text:
		content, err := decodeText(n.Segment.Value(source))
		if err != nil {
			return nil, err
		}
		content = unescape(content)
		if n.SoftLineBreak() {
			content += " "
		}
		spans := []model.Span{&model.Text{Content: content, Style: style}}
		if n.HardLineBreak() {
			spans = append(spans, &model.Text{Content: "\n", Style: style})
		}
		return spans, nil

	case *ast.String:
		content, err := decodeText(n.Value)
		if err != nil {
			return nil, err
		}
		return []model.Span{&model.Text{Content: content, Style: style}}, nil

	case *ast.Emphasis:
		inner := model.StyleItalic
		if n.Level >= 2 {
			inner = model.StyleBold
		}
		return flattenChildSpans(n, style.Merge(inner), source)

	case *ast.CodeSpan:
		content, err := decodeText([]byte(nodeText(n, source)))
		if err != nil {
			return nil, err
		}
		return []model.Span{&model.Text{Content: content, Style: style.Merge(model.StyleCode)}}, nil

	case *ast.Link:
		link, err := parseLink(n, source)
		if err != nil {
			return nil, err
		}
		return []model.Span{link}, nil

	default:
		placeholder := fmt.Sprintf("[TODO: parse node `%s`]", node.Kind())
		return []model.Span{&model.Text{Content: placeholder, Style: style}}, nil
	}
}

// parseLink resolves a link's destination and visible text. A missing
// destination is a structural error; complicated label content falls back
// to a placeholder label rather than failing.
func parseLink(n *ast.Link, source []byte) (*model.Link, error) {
	destination, err := decodeText(n.Destination)
	if err != nil {
		return nil, err
	}
	if destination == "" {
		return nil, fmt.Errorf("%w: link destination", ErrMissingNodeKind)
	}

	text := "(No link text)"
	switch n.ChildCount() {
	case 0:
		// keep placeholder
	case 1:
		if t, ok := n.FirstChild().(*ast.Text); ok {
			text, err = decodeText(t.Segment.Value(source))
			if err != nil {
				return nil, err
			}
			text = unescape(text)
		} else {
			text = "(Complex link text)"
		}
	default:
		text = "(Complex link text)"
	}

	return &model.Link{Destination: destination, Text: text}, nil
}

// unescape removes backslash escapes for the fixed set of characters the
// bridge escapes.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			switch r {
			case '\\', '`', '*', '_', '[', ']', '(', ')', '#', '!', '|', '.', '-', '+', '>', '<':
				b.WriteRune(r)
			default:
				b.WriteByte('\\')
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}
