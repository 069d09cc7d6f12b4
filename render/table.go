package render

import (
	"github.com/tsawler/inkpage/model"
	"github.com/tsawler/inkpage/paginate"
	"github.com/tsawler/inkpage/raster"
	"github.com/tsawler/inkpage/shaper"
)

// renderTable stacks every cell as a full-width bordered panel, row by
// row. A narrow e-ink page has no room for real columns; stacked panels
// keep cells readable and let page cuts fall between them. The first row
// renders bold.
func (r *Renderer) renderTable(t *model.Table, ctx blockContext) (*paginate.RenderedBlock, error) {
	var cells []*paginate.RenderedBlock

	for rowIdx, row := range t.Rows {
		for _, cell := range row.Cells {
			panel, err := r.renderTableCell(cell, rowIdx == 0, ctx)
			if err != nil {
				return nil, err
			}
			cells = append(cells, panel)
		}
	}
	if len(cells) == 0 {
		return r.emptyBlock(), nil
	}

	// Adjacent panels share an edge: each panel draws its top border, the
	// stacked block closes the bottom.
	block := r.stack(cells, 0)
	x1 := r.contentX(ctx)
	x2 := x1 + r.contentWidth(ctx) - 1
	block.Canvas.DrawHLine(x1, x2, block.Height-1, colorTableLine)
	return block, nil
}

// renderTableCell renders one cell's inline content inside a panel with
// top, left, and right borders.
func (r *Renderer) renderTableCell(cell model.TableCell, header bool, ctx blockContext) (*paginate.RenderedBlock, error) {
	pad := int(r.fontSize / 2)

	base := textStyle{size: r.fontSize, bold: header, italic: ctx.italic}
	texts := r.spansToTexts(cell.Content, base, ctx)
	textWidth := r.contentWidth(ctx) - 2*pad
	if min := int(r.fontSize); textWidth < min {
		textWidth = min
	}
	runs, err := r.shaper.Shape(texts, textWidth, r.cfg.LineHeight)
	if err != nil {
		return nil, err
	}

	textHeight := shaper.Height(runs)
	height := textHeight + 2*pad
	canvas := raster.New(r.layout.Width, height, r.background)
	x1 := r.contentX(ctx)
	if err := r.shaper.Draw(canvas, runs, x1+pad, pad); err != nil {
		return nil, err
	}

	x2 := x1 + r.contentWidth(ctx) - 1
	canvas.DrawHLine(x1, x2, 0, colorTableLine)
	canvas.DrawVLine(x1, 0, height-1, colorTableLine)
	canvas.DrawVLine(x2, 0, height-1, colorTableLine)

	// A cell is indivisible: splitting it would strand its borders.
	return &paginate.RenderedBlock{
		Height:      height,
		Canvas:      canvas,
		Breakpoints: []int{0},
	}, nil
}
