package model

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Dump renders the document tree as indented text for debugging.
func Dump(d *Document) string {
	tree := treeprint.New()
	tree.SetValue("Document")
	for _, b := range d.Blocks {
		dumpBlock(tree, b)
	}
	return tree.String()
}

func dumpBlock(parent treeprint.Tree, b Block) {
	switch v := b.(type) {
	case *Heading:
		branch := parent.AddBranch(fmt.Sprintf("Heading(%d)", v.Level))
		dumpSpans(branch, v.Content)
	case *Paragraph:
		branch := parent.AddBranch("Paragraph")
		dumpSpans(branch, v.Content)
	case *List:
		branch := parent.AddBranch("List")
		for _, item := range v.Items {
			itemBranch := branch.AddBranch(fmt.Sprintf("Item %q", item.Marker))
			for _, child := range item.Content {
				dumpBlock(itemBranch, child)
			}
		}
	case *Image:
		parent.AddNode(fmt.Sprintf("Image %q alt=%q", v.URL, v.AltText))
	case *BlockQuote:
		branch := parent.AddBranch("BlockQuote")
		for _, child := range v.Content {
			dumpBlock(branch, child)
		}
	case *ThematicBreak:
		parent.AddNode("ThematicBreak")
	case *CodeBlock:
		parent.AddNode(fmt.Sprintf("CodeBlock lang=%q (%d bytes)", v.Language, len(v.Content)))
	case *Table:
		branch := parent.AddBranch("Table")
		for i, row := range v.Rows {
			rowBranch := branch.AddBranch(fmt.Sprintf("Row %d", i))
			for _, cell := range row.Cells {
				cellBranch := rowBranch.AddBranch("Cell")
				dumpSpans(cellBranch, cell.Content)
			}
		}
	default:
		parent.AddNode(fmt.Sprintf("%T", b))
	}
}

func dumpSpans(parent treeprint.Tree, spans []Span) {
	for _, s := range spans {
		switch v := s.(type) {
		case *Text:
			parent.AddNode(fmt.Sprintf("Text %q %s", v.Content, v.Style))
		case *Link:
			parent.AddNode(fmt.Sprintf("Link %q -> %q", v.Text, v.Destination))
		}
	}
}
