package shaper

import (
	"image"
	"image/color"

	"golang.org/x/image/math/fixed"

	"github.com/tsawler/inkpage/raster"
)

const (
	underlineOffsetY   = 2
	underlineThickness = 2
)

// Draw rasterizes runs onto the canvas with the block's top-left content
// corner at (originX, originY). Every covered pixel goes through the
// canvas BlendPixel contract with the glyph's coverage as alpha.
func (s *Shaper) Draw(c *raster.Canvas, runs []Run, originX, originY int) error {
	for _, run := range runs {
		baselineY := originY + run.Top + run.Baseline
		for _, seg := range run.Segments {
			if seg.Content == "" {
				continue
			}
			x := originX + seg.X
			if err := s.drawString(c, seg.Content, seg.Attrs, x, baselineY); err != nil {
				return err
			}
			if seg.Attrs.Underline {
				for dy := 0; dy < underlineThickness; dy++ {
					y := baselineY + underlineOffsetY + dy
					for dx := 0; dx < seg.Width; dx++ {
						c.BlendPixel(x+dx, y, seg.Attrs.Color)
					}
				}
			}
		}
	}
	return nil
}

// drawString rasterizes one string at a baseline position.
func (s *Shaper) drawString(c *raster.Canvas, content string, attrs Attrs, x, baselineY int) error {
	face, err := s.Face(attrs.Family, attrs.Size)
	if err != nil {
		return err
	}

	dot := fixed.P(x, baselineY)
	prev := rune(-1)
	for _, r := range content {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			// Unknown rune: fall back to the replacement character.
			dr, mask, maskp, advance, ok = face.Glyph(dot, '�')
			if !ok {
				prev = r
				continue
			}
		}

		for gy := dr.Min.Y; gy < dr.Max.Y; gy++ {
			for gx := dr.Min.X; gx < dr.Max.X; gx++ {
				ma := maskAlpha(mask, maskp.X+(gx-dr.Min.X), maskp.Y+(gy-dr.Min.Y))
				if ma == 0 {
					continue
				}
				c.BlendPixel(gx, gy, color.RGBA{
					R: attrs.Color.R,
					G: attrs.Color.G,
					B: attrs.Color.B,
					A: scaleAlpha(attrs.Color.A, ma),
				})
			}
		}

		dot.X += advance
		prev = r
	}
	return nil
}

func maskAlpha(mask image.Image, x, y int) uint8 {
	return color.AlphaModel.Convert(mask.At(x, y)).(color.Alpha).A
}

func scaleAlpha(a, coverage uint8) uint8 {
	return uint8((uint32(a)*uint32(coverage) + 127) / 255)
}
