// Package raster provides the pixel surface the renderer and paginator
// draw into.
//
// A Canvas wraps an RGBA image with bounds-checked pixel access and the
// small set of drawing primitives the engine needs: per-pixel alpha
// blending, borders, filled rectangles, axis-aligned lines, and full-width
// row copies between canvases. BlendPixel is the capability contract glyph
// rasterizers draw through.
package raster

import (
	"image"
	"image/color"
)

// Common engine colors.
var (
	ColorWhite = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	ColorBlack = color.RGBA{A: 0xFF}
)

// Canvas is a fixed-size RGBA pixel surface.
type Canvas struct {
	img *image.RGBA
}

// New creates a canvas of the given size with every pixel set to bg.
func New(width, height int, bg color.RGBA) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			row[x*4+0] = bg.R
			row[x*4+1] = bg.G
			row[x*4+2] = bg.B
			row[x*4+3] = bg.A
		}
	}
	return &Canvas{img: img}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Image exposes the underlying RGBA image for encoding and scaling.
func (c *Canvas) Image() *image.RGBA { return c.img }

// At returns the pixel at (x, y), or transparent black out of bounds.
func (c *Canvas) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return color.RGBA{}
	}
	return c.img.RGBAAt(x, y)
}

// Set writes the pixel at (x, y). Out-of-bounds writes are dropped.
func (c *Canvas) Set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return
	}
	c.img.SetRGBA(x, y, col)
}

// BlendPixel source-over blends col onto the pixel at (x, y), honoring the
// source alpha. Out-of-bounds writes are dropped.
func (c *Canvas) BlendPixel(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return
	}
	if col.A == 0xFF {
		c.img.SetRGBA(x, y, col)
		return
	}
	if col.A == 0 {
		return
	}
	bg := c.img.RGBAAt(x, y)
	a := uint32(col.A)
	inv := 255 - a
	blend := func(fg, bg uint8) uint8 {
		return uint8((uint32(fg)*a + uint32(bg)*inv + 127) / 255)
	}
	c.img.SetRGBA(x, y, color.RGBA{
		R: blend(col.R, bg.R),
		G: blend(col.G, bg.G),
		B: blend(col.B, bg.B),
		A: 0xFF,
	})
}

// DrawHLine draws a horizontal line from (x1, y) to (x2, y) inclusive.
func (c *Canvas) DrawHLine(x1, x2, y int, col color.RGBA) {
	for x := x1; x <= x2; x++ {
		c.Set(x, y, col)
	}
}

// DrawVLine draws a vertical line from (x, y1) to (x, y2) inclusive.
func (c *Canvas) DrawVLine(x, y1, y2 int, col color.RGBA) {
	for y := y1; y <= y2; y++ {
		c.Set(x, y, col)
	}
}

// DrawBoxBorder draws a one-pixel rectangle border with inclusive corners
// (x1, y1) and (x2, y2).
func (c *Canvas) DrawBoxBorder(x1, y1, x2, y2 int, col color.RGBA) {
	c.DrawHLine(x1, x2, y1, col)
	c.DrawHLine(x1, x2, y2, col)
	c.DrawVLine(x1, y1, y2, col)
	c.DrawVLine(x2, y1, y2, col)
}

// FillRect fills the rectangle with inclusive corners (x1, y1) and (x2, y2).
func (c *Canvas) FillRect(x1, y1, x2, y2 int, col color.RGBA) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			c.Set(x, y, col)
		}
	}
}

// CopyRows copies full-width pixel rows [srcY1, srcY2) from src into the
// canvas starting at row dstY. Rows falling outside either canvas are
// clipped. Both canvases must share the same width for the copy to be
// meaningful; narrower sources are copied at their own width.
func (c *Canvas) CopyRows(src *Canvas, srcY1, srcY2, dstY int) {
	width := src.Width()
	if c.Width() < width {
		width = c.Width()
	}
	for sy := srcY1; sy < srcY2; sy++ {
		dy := dstY + (sy - srcY1)
		if sy < 0 || sy >= src.Height() || dy < 0 || dy >= c.Height() {
			continue
		}
		srcRow := src.img.Pix[sy*src.img.Stride : sy*src.img.Stride+width*4]
		dstRow := c.img.Pix[dy*c.img.Stride : dy*c.img.Stride+width*4]
		copy(dstRow, srcRow)
	}
}
