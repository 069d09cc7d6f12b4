// Package render turns a parsed document into rendered blocks and packs
// them onto device pages.
//
// Rendering is deliberately infallible at the block level: content that
// cannot be drawn (a missing image, an unknown code language) degrades to a
// visible placeholder instead of failing the document. Only infrastructure
// failures — font setup, page packing — surface as errors.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/tsawler/inkpage/config"
	"github.com/tsawler/inkpage/model"
	"github.com/tsawler/inkpage/paginate"
	"github.com/tsawler/inkpage/raster"
	"github.com/tsawler/inkpage/shaper"
)

// displayScale maps CSS pixel sizes to device pixels.
const displayScale = 2.0

var (
	colorText       = color.RGBA{A: 0xFF}
	colorLink       = color.RGBA{B: 0xFF, A: 0xFF}
	colorQuote      = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	colorRule       = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	colorTableLine  = color.RGBA{A: 0xFF}
	placeholderFill = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	placeholderLine = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
)

// Compositor decorates a finished page. Page numbers are 1-based.
type Compositor interface {
	Compose(page *raster.Canvas, number, total int) error
}

// Renderer rasterizes documents into pages. A Renderer is not safe for
// concurrent use: it owns a mutable font face cache.
type Renderer struct {
	cfg        config.Settings
	layout     paginate.Layout
	background color.RGBA
	baseURL    string
	images     map[string]image.Image
	compositor Compositor
	shaper     *shaper.Shaper

	fontSize float64 // device pixels
	marginX  int     // device pixels
	spacing  int     // vertical gap after a top-level block
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBaseURL sets the document URL that relative image references resolve
// against.
func WithBaseURL(base string) Option {
	return func(r *Renderer) { r.baseURL = base }
}

// WithImages provides prefetched images keyed by absolute URL. A key mapped
// to nil records a failed fetch; the block renders as a placeholder.
func WithImages(images map[string]image.Image) Option {
	return func(r *Renderer) { r.images = images }
}

// WithCompositor installs a page decorator run after pagination.
func WithCompositor(c Compositor) Option {
	return func(r *Renderer) { r.compositor = c }
}

// WithLayout overrides the default page geometry.
func WithLayout(layout paginate.Layout) Option {
	return func(r *Renderer) { r.layout = layout }
}

// New creates a Renderer for the given settings.
func New(cfg config.Settings, opts ...Option) (*Renderer, error) {
	s, err := shaper.New()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:        cfg,
		layout:     paginate.DefaultLayout,
		background: raster.ColorWhite,
		shaper:     s,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.fontSize = cfg.FontSize * displayScale
	r.marginX = int(float64(cfg.ScreenMarginX) * displayScale)
	r.spacing = int(math.Ceil(r.fontSize))
	return r, nil
}

// blockContext carries the inherited drawing state down nested blocks.
type blockContext struct {
	indent int
	italic bool
	color  color.RGBA
}

func (r *Renderer) rootContext() blockContext {
	return blockContext{color: colorText}
}

// contentX returns the left edge of content for a context.
func (r *Renderer) contentX(ctx blockContext) int {
	return r.marginX + ctx.indent
}

// contentWidth returns the horizontal space available to a context. It
// never drops below one glyph worth of room, so pathological nesting still
// renders.
func (r *Renderer) contentWidth(ctx blockContext) int {
	w := r.layout.Width - 2*r.marginX - ctx.indent
	if min := int(r.fontSize); w < min {
		w = min
	}
	return w
}

// indentStep is the horizontal inset applied by quotes and list items.
func (r *Renderer) indentStep() int {
	return int(2 * r.fontSize)
}

// RenderDocument rasterizes the document and returns finished pages. Block
// content never fails the call; errors come only from font machinery or
// the page compositor.
func (r *Renderer) RenderDocument(doc *model.Document) ([]*raster.Canvas, error) {
	engine := paginate.NewEngine(r.layout, r.background)
	ctx := r.rootContext()

	for _, block := range doc.Blocks {
		rendered, err := r.renderBlock(block, ctx)
		if err != nil {
			return nil, err
		}
		if err := engine.Place(r.pad(rendered, r.spacing)); err != nil {
			return nil, err
		}
	}

	pages := engine.Finish()
	if r.compositor != nil {
		for i, page := range pages {
			if err := r.compositor.Compose(page, i+1, len(pages)); err != nil {
				return nil, err
			}
		}
	}
	return pages, nil
}

// renderBlock dispatches on block kind. Every branch returns a valid
// rendered block; unknown kinds render as a visible placeholder paragraph.
func (r *Renderer) renderBlock(block model.Block, ctx blockContext) (*paginate.RenderedBlock, error) {
	switch b := block.(type) {
	case *model.Heading:
		return r.renderHeading(b, ctx)
	case *model.Paragraph:
		return r.renderParagraph(b, ctx)
	case *model.List:
		return r.renderList(b, ctx)
	case *model.Image:
		return r.renderImage(b, ctx), nil
	case *model.BlockQuote:
		return r.renderQuote(b, ctx)
	case *model.ThematicBreak:
		return r.renderThematicBreak(ctx), nil
	case *model.CodeBlock:
		return r.renderCode(b, ctx)
	case *model.Table:
		return r.renderTable(b, ctx)
	default:
		return r.renderParagraph(&model.Paragraph{Content: []model.Span{
			&model.Text{Content: "[TODO: render block `" + block.Kind().String() + "`]"},
		}}, ctx)
	}
}

// renderChildren renders nested blocks and stacks them vertically with the
// block spacing between siblings.
func (r *Renderer) renderChildren(blocks []model.Block, ctx blockContext) (*paginate.RenderedBlock, error) {
	rendered := make([]*paginate.RenderedBlock, 0, len(blocks))
	for _, b := range blocks {
		rb, err := r.renderBlock(b, ctx)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, rb)
	}
	return r.stack(rendered, r.spacing), nil
}

// stack concatenates rendered blocks vertically with gap rows between
// them, merging their breakpoints.
func (r *Renderer) stack(blocks []*paginate.RenderedBlock, gap int) *paginate.RenderedBlock {
	if len(blocks) == 0 {
		return r.emptyBlock()
	}

	height := 0
	for i, b := range blocks {
		if i > 0 {
			height += gap
		}
		height += b.Height
	}

	canvas := raster.New(r.layout.Width, height, r.background)
	var bps []int
	y := 0
	for i, b := range blocks {
		if i > 0 {
			y += gap
		}
		canvas.CopyRows(b.Canvas, 0, b.Height, y)
		for _, bp := range b.Breakpoints {
			bps = append(bps, y+bp)
		}
		y += b.Height
	}

	return &paginate.RenderedBlock{Height: height, Canvas: canvas, Breakpoints: bps}
}

// pad extends a block with blank rows at the bottom, keeping its
// breakpoints.
func (r *Renderer) pad(b *paginate.RenderedBlock, extra int) *paginate.RenderedBlock {
	if extra <= 0 {
		return b
	}
	canvas := raster.New(r.layout.Width, b.Height+extra, r.background)
	canvas.CopyRows(b.Canvas, 0, b.Height, 0)
	return &paginate.RenderedBlock{
		Height:      b.Height + extra,
		Canvas:      canvas,
		Breakpoints: b.Breakpoints,
	}
}

// emptyBlock is a minimal valid rendered block for degenerate content.
func (r *Renderer) emptyBlock() *paginate.RenderedBlock {
	return &paginate.RenderedBlock{
		Height:      1,
		Canvas:      raster.New(r.layout.Width, 1, r.background),
		Breakpoints: []int{0},
	}
}

// fromRuns draws shaped runs onto a fresh block canvas at the context's
// left edge, with run tops as breakpoints.
func (r *Renderer) fromRuns(runs []shaper.Run, ctx blockContext) (*paginate.RenderedBlock, error) {
	height := shaper.Height(runs)
	if height == 0 {
		return r.emptyBlock(), nil
	}
	canvas := raster.New(r.layout.Width, height, r.background)
	if err := r.shaper.Draw(canvas, runs, r.contentX(ctx), 0); err != nil {
		return nil, err
	}
	return &paginate.RenderedBlock{
		Height:      height,
		Canvas:      canvas,
		Breakpoints: shaper.Breakpoints(runs),
	}, nil
}
