// Package paginate splits a stream of rendered blocks into fixed-size
// pages.
//
// Each rendered block arrives as a full-width canvas plus a list of
// breakpoints: the y-offsets at which a page cut may fall. The engine packs
// blocks greedily, top to bottom, copying whole pixel rows between the
// block canvas and the page canvas. A block segment is never split below
// breakpoint granularity, so every pixel row a block renders appears on
// exactly one page.
package paginate

import (
	"fmt"
	"image/color"

	"github.com/tsawler/inkpage/raster"
)

// RenderedBlock is a block after rasterization, ready for page packing.
//
// Breakpoints must be strictly ascending, start at 0, and stay below
// Height. The rows between two adjacent breakpoints (and between the last
// breakpoint and Height) form an indivisible segment.
type RenderedBlock struct {
	Height      int
	Canvas      *raster.Canvas
	Breakpoints []int
}

// Validate reports whether the block's breakpoints satisfy the packing
// contract.
func (b *RenderedBlock) Validate() error {
	if len(b.Breakpoints) == 0 {
		return fmt.Errorf("rendered block: no breakpoints")
	}
	if b.Breakpoints[0] != 0 {
		return fmt.Errorf("rendered block: first breakpoint = %d, want 0", b.Breakpoints[0])
	}
	for i := 1; i < len(b.Breakpoints); i++ {
		if b.Breakpoints[i] <= b.Breakpoints[i-1] {
			return fmt.Errorf("rendered block: breakpoints not ascending at %d", i)
		}
	}
	if last := b.Breakpoints[len(b.Breakpoints)-1]; last >= b.Height {
		return fmt.Errorf("rendered block: breakpoint %d >= height %d", last, b.Height)
	}
	return nil
}

// Layout fixes the page geometry. The content band runs from MarginTop to
// Height-MarginBottom; blocks are placed only inside it.
type Layout struct {
	Width        int
	Height       int
	MarginTop    int
	MarginBottom int
}

// DefaultLayout is the target device geometry.
var DefaultLayout = Layout{
	Width:        1404,
	Height:       1872,
	MarginTop:    200,
	MarginBottom: 100,
}

// ContentHeight returns the number of usable rows per page.
func (l Layout) ContentHeight() int {
	return l.Height - l.MarginTop - l.MarginBottom
}

// Engine packs rendered blocks onto pages. It is single-use: feed blocks
// with Place, then call Finish exactly once.
type Engine struct {
	layout     Layout
	background color.RGBA

	pages    []*raster.Canvas
	current  *raster.Canvas
	cursorY  int // next free row, page-relative
	finished bool
}

// NewEngine creates an engine over the given layout. Pages are filled with
// the background color before any block rows land on them.
func NewEngine(layout Layout, background color.RGBA) *Engine {
	return &Engine{
		layout:     layout,
		background: background,
		cursorY:    layout.MarginTop,
	}
}

// Place adds one rendered block below everything placed so far. Segments
// that do not fit in the remaining space of the current page move to a
// fresh page; a segment taller than a whole page is clipped at the bottom
// margin rather than dropped.
func (e *Engine) Place(block *RenderedBlock) error {
	if e.finished {
		return fmt.Errorf("paginate: Place after Finish")
	}
	if err := block.Validate(); err != nil {
		return err
	}

	for i, top := range block.Breakpoints {
		bottom := block.Height
		if i+1 < len(block.Breakpoints) {
			bottom = block.Breakpoints[i+1]
		}
		e.placeSegment(block.Canvas, top, bottom)
	}
	return nil
}

// placeSegment copies the rows [top, bottom) of src onto the current page,
// opening a new page first when the segment does not fit.
func (e *Engine) placeSegment(src *raster.Canvas, top, bottom int) {
	height := bottom - top
	limit := e.layout.Height - e.layout.MarginBottom

	if e.current == nil || e.cursorY+height > limit {
		if e.current != nil {
			e.pages = append(e.pages, e.current)
		}
		e.current = raster.New(e.layout.Width, e.layout.Height, e.background)
		e.cursorY = e.layout.MarginTop
	}

	// A segment taller than the whole content band still lands on its own
	// page; the overflow is clipped at the bottom margin.
	copyBottom := bottom
	if over := e.cursorY + height - limit; over > 0 {
		copyBottom -= over
	}
	e.current.CopyRows(src, top, copyBottom, e.cursorY)
	e.cursorY += height
	if e.cursorY > limit {
		e.cursorY = limit
	}
}

// Finish flushes the partially filled page and returns all pages in order.
// An engine that never received a block returns a single empty page.
func (e *Engine) Finish() []*raster.Canvas {
	if e.finished {
		return e.pages
	}
	e.finished = true
	if e.current == nil {
		e.current = raster.New(e.layout.Width, e.layout.Height, e.background)
	}
	e.pages = append(e.pages, e.current)
	return e.pages
}

// Pack runs a full pagination pass over blocks in one call.
func Pack(layout Layout, background color.RGBA, blocks []*RenderedBlock) ([]*raster.Canvas, error) {
	engine := NewEngine(layout, background)
	for _, block := range blocks {
		if err := engine.Place(block); err != nil {
			return nil, err
		}
	}
	return engine.Finish(), nil
}
