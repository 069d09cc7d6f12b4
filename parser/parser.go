// Package parser turns raw HTML into the typed document tree.
//
// Parsing runs the markup bridge, parses the bridged text with the Markdown
// grammar, and walks the resulting syntax tree into a [model.Document].
// Structural problems (an unrecognized top-level block, a required child
// missing or of the wrong kind, undecodable text) abort the whole parse:
// no partial document is ever returned. Unsupported inline constructs are
// deliberately not errors — they degrade to a visible placeholder span so
// the rest of the document still renders.
//
//	doc, err := parser.Parse(html)
//	if err != nil {
//	    // page-level error state; nothing was parsed
//	}
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tsawler/inkpage/bridge"
	"github.com/tsawler/inkpage/model"
)

// Parse converts an HTML document into a model.Document. It fails
// atomically: on any error the returned document is nil.
func Parse(html string) (*model.Document, error) {
	markdown, err := bridge.Convert(html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBridge, err)
	}

	source := []byte(markdown)
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(source))
	if root == nil || root.Kind() != ast.KindDocument {
		return nil, ErrGrammar
	}

	doc := model.NewDocument()
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		block, err := parseBlock(node, source)
		if err != nil {
			return nil, err
		}
		doc.AddBlock(block)
	}

	return doc, nil
}

// parseBlock dispatches a top-level syntax node to its block parser.
func parseBlock(node ast.Node, source []byte) (model.Block, error) {
	switch n := node.(type) {
	case *ast.Heading:
		return parseHeading(n, source)
	case *ast.Paragraph:
		return parseParagraph(n, source)
	case *ast.TextBlock:
		// Tight list items wrap their content in a text block; treat it
		// as a paragraph.
		spans, err := flattenChildSpans(n, model.StyleNormal, source)
		if err != nil {
			return nil, err
		}
		return &model.Paragraph{Content: spans}, nil
	case *ast.List:
		return parseList(n, source)
	case *ast.Blockquote:
		content, err := parseChildBlocks(n, source)
		if err != nil {
			return nil, err
		}
		return &model.BlockQuote{Content: content}, nil
	case *ast.ThematicBreak:
		return &model.ThematicBreak{}, nil
	case *ast.FencedCodeBlock:
		return parseCodeBlock(n, source)
	case *east.Table:
		return parseTable(n, source)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedNodeKind, node.Kind())
	}
}

// parseChildBlocks parses each child of a container node, recursing into
// the same dispatch used at top level.
func parseChildBlocks(node ast.Node, source []byte) ([]model.Block, error) {
	blocks := make([]model.Block, 0, node.ChildCount())
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		block, err := parseBlock(child, source)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func parseHeading(n *ast.Heading, source []byte) (model.Block, error) {
	if n.Level < 1 || n.Level > 6 {
		return nil, fmt.Errorf("%w: heading level %d", ErrUnexpectedNodeKind, n.Level)
	}

	spans, err := flattenChildSpans(n, model.StyleNormal, source)
	if err != nil {
		return nil, err
	}

	// The bridge can leave a stray leading space on the first span.
	if len(spans) > 0 {
		if t, ok := spans[0].(*model.Text); ok {
			t.Content = strings.TrimPrefix(t.Content, " ")
		}
	}

	return &model.Heading{Level: n.Level, Content: spans}, nil
}

func parseParagraph(n *ast.Paragraph, source []byte) (model.Block, error) {
	// An image-only paragraph is promoted to an image block.
	if n.ChildCount() == 1 {
		if img, ok := n.FirstChild().(*ast.Image); ok {
			return parseImage(img, source)
		}
	}

	spans, err := flattenChildSpans(n, model.StyleNormal, source)
	if err != nil {
		return nil, err
	}
	return &model.Paragraph{Content: spans}, nil
}

func parseImage(n *ast.Image, source []byte) (model.Block, error) {
	url, err := decodeText(n.Destination)
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, fmt.Errorf("%w: image destination", ErrMissingNodeKind)
	}

	alt := nodeText(n, source)
	return &model.Image{URL: url, AltText: alt}, nil
}

func parseList(n *ast.List, source []byte) (model.Block, error) {
	ordered := n.IsOrdered()
	number := n.Start
	if number == 0 {
		number = 1
	}

	items := make([]model.ListItem, 0, n.ChildCount())
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			return nil, fmt.Errorf("%w: expected ListItem, got %s", ErrWrongNodeKind, child.Kind())
		}

		content, err := parseChildBlocks(item, source)
		if err != nil {
			return nil, err
		}

		marker := "•"
		if ordered {
			marker = fmt.Sprintf("%d.", number)
			number++
		}
		items = append(items, model.ListItem{Marker: marker, Content: content})
	}

	return &model.List{Items: items}, nil
}

func parseCodeBlock(n *ast.FencedCodeBlock, source []byte) (model.Block, error) {
	language, err := decodeText(n.Language(source))
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	content, err := decodeText([]byte(b.String()))
	if err != nil {
		return nil, err
	}

	return &model.CodeBlock{
		Language: language,
		Content:  strings.TrimSuffix(content, "\n"),
	}, nil
}

// parseTable collects header and data rows in source order; any other row
// kind is ignored.
func parseTable(n *east.Table, source []byte) (model.Block, error) {
	var rows []model.TableRow
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *east.TableHeader, *east.TableRow:
			row, err := parseTableRow(child, source)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}
	return &model.Table{Rows: rows}, nil
}

func parseTableRow(row ast.Node, source []byte) (model.TableRow, error) {
	cells := make([]model.TableCell, 0, row.ChildCount())
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*east.TableCell)
		if !ok {
			return model.TableRow{}, fmt.Errorf("%w: expected TableCell, got %s", ErrWrongNodeKind, child.Kind())
		}
		spans, err := flattenChildSpans(cell, model.StyleNormal, source)
		if err != nil {
			return model.TableRow{}, err
		}
		cells = append(cells, model.TableCell{Content: spans})
	}
	return model.TableRow{Cells: cells}, nil
}

// decodeText validates a source slice as UTF-8.
func decodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrTextDecode
	}
	return string(b), nil
}

// nodeText concatenates the text content of a node's descendants without
// styling, for alt text and link labels.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
		case *ast.String:
			b.Write(c.Value)
		default:
			b.WriteString(nodeText(child, source))
		}
	}
	return b.String()
}
