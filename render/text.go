package render

import (
	"github.com/tsawler/inkpage/model"
	"github.com/tsawler/inkpage/paginate"
	"github.com/tsawler/inkpage/raster"
	"github.com/tsawler/inkpage/shaper"
)

// textStyle is the resolved base style for one text block.
type textStyle struct {
	size   float64
	bold   bool
	italic bool
}

// headingScale follows the usual typographic ramp: only the first three
// levels grow, every level is bold.
func headingScale(level int) float64 {
	switch level {
	case 1:
		return 2.0
	case 2:
		return 1.5
	case 3:
		return 1.25
	default:
		return 1.0
	}
}

// familyFor picks a typeface for a span style combined with the block's
// base emphasis. Code always wins the family; emphasis only picks the
// mono weight.
func familyFor(style model.SpanStyle, base textStyle) shaper.Family {
	bold := base.bold || style == model.StyleBold || style == model.StyleBoldItalic
	italic := base.italic || style == model.StyleItalic || style == model.StyleBoldItalic

	if style == model.StyleCode {
		if bold {
			return shaper.FamilyMonoBold
		}
		return shaper.FamilyMono
	}
	switch {
	case bold && italic:
		return shaper.FamilyBoldItalic
	case bold:
		return shaper.FamilyBold
	case italic:
		return shaper.FamilyItalic
	default:
		return shaper.FamilyRegular
	}
}

// spansToTexts flattens model spans into shaper input. Links carry their
// own color and underline; everything else inherits the context color.
func (r *Renderer) spansToTexts(spans []model.Span, base textStyle, ctx blockContext) []shaper.Text {
	texts := make([]shaper.Text, 0, len(spans))
	for _, span := range spans {
		switch s := span.(type) {
		case *model.Text:
			texts = append(texts, shaper.Text{
				Content: s.Content,
				Attrs: shaper.Attrs{
					Size:   base.size,
					Family: familyFor(s.Style, base),
					Color:  ctx.color,
				},
			})
		case *model.Link:
			texts = append(texts, shaper.Text{
				Content: s.Text,
				Attrs: shaper.Attrs{
					Size:      base.size,
					Family:    familyFor(model.StyleNormal, base),
					Color:     colorLink,
					Underline: true,
				},
			})
		}
	}
	return texts
}

// renderSpans shapes and draws one run of inline content.
func (r *Renderer) renderSpans(spans []model.Span, base textStyle, ctx blockContext) (*paginate.RenderedBlock, error) {
	texts := r.spansToTexts(spans, base, ctx)
	runs, err := r.shaper.Shape(texts, r.contentWidth(ctx), r.cfg.LineHeight)
	if err != nil {
		return nil, err
	}
	return r.fromRuns(runs, ctx)
}

func (r *Renderer) renderParagraph(p *model.Paragraph, ctx blockContext) (*paginate.RenderedBlock, error) {
	return r.renderSpans(p.Content, textStyle{size: r.fontSize, italic: ctx.italic}, ctx)
}

func (r *Renderer) renderHeading(h *model.Heading, ctx blockContext) (*paginate.RenderedBlock, error) {
	base := textStyle{
		size:   r.fontSize * headingScale(h.Level),
		bold:   true,
		italic: ctx.italic,
	}
	return r.renderSpans(h.Content, base, ctx)
}

// renderQuote renders the quote body indented, in gray italics, with a
// vertical bar along the left edge. The bar spans the whole body, so every
// segment a page cut produces keeps its share of it.
func (r *Renderer) renderQuote(q *model.BlockQuote, ctx blockContext) (*paginate.RenderedBlock, error) {
	inner := ctx
	inner.indent += r.indentStep()
	inner.italic = true
	inner.color = colorQuote

	body, err := r.renderChildren(q.Content, inner)
	if err != nil {
		return nil, err
	}

	barX := r.contentX(ctx)
	for x := barX; x < barX+barThickness; x++ {
		body.Canvas.DrawVLine(x, 0, body.Height-1, colorQuote)
	}
	return body, nil
}

const barThickness = 4

// renderThematicBreak draws a horizontal rule across the content width.
func (r *Renderer) renderThematicBreak(ctx blockContext) *paginate.RenderedBlock {
	height := int(r.fontSize)
	if height < 3 {
		height = 3
	}
	canvas := raster.New(r.layout.Width, height, r.background)
	x1 := r.contentX(ctx)
	x2 := x1 + r.contentWidth(ctx) - 1
	y := height / 2
	canvas.DrawHLine(x1, x2, y, colorRule)
	canvas.DrawHLine(x1, x2, y+1, colorRule)
	return &paginate.RenderedBlock{Height: height, Canvas: canvas, Breakpoints: []int{0}}
}

// renderList renders items indented past a marker gutter. The marker sits
// at the item's first line; nested blocks inside the item stack below.
func (r *Renderer) renderList(l *model.List, ctx blockContext) (*paginate.RenderedBlock, error) {
	items := make([]*paginate.RenderedBlock, 0, len(l.Items))
	for _, item := range l.Items {
		inner := ctx
		inner.indent += r.indentStep()

		body, err := r.renderChildren(item.Content, inner)
		if err != nil {
			return nil, err
		}

		marker := []shaper.Text{{
			Content: item.Marker,
			Attrs: shaper.Attrs{
				Size:   r.fontSize,
				Family: familyFor(model.StyleNormal, textStyle{italic: ctx.italic}),
				Color:  ctx.color,
			},
		}}
		runs, err := r.shaper.Shape(marker, r.indentStep(), r.cfg.LineHeight)
		if err != nil {
			return nil, err
		}
		if err := r.shaper.Draw(body.Canvas, runs, r.contentX(ctx), 0); err != nil {
			return nil, err
		}
		items = append(items, body)
	}
	return r.stack(items, r.spacing/2), nil
}
