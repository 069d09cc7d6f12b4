// Package overlay stamps reading-progress chrome onto finished pages: a
// progress bar near the bottom edge and a "Page N / M" caption beneath it.
package overlay

import (
	"fmt"
	"image/color"

	"github.com/tsawler/inkpage/raster"
	"github.com/tsawler/inkpage/shaper"
)

const (
	barWidth    = 320
	barHeight   = 16
	innerOffset = 3
	marginY     = 80
	captionSize = 20
	captionGap  = 8
)

var (
	colorBorder  = color.RGBA{R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF}
	colorFill    = color.RGBA{R: 0xDD, G: 0xDD, B: 0xDD, A: 0xFF}
	colorCaption = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
)

// Overlay draws the page-progress decoration. It satisfies the renderer's
// Compositor interface.
type Overlay struct {
	shaper *shaper.Shaper
}

// New creates an Overlay with its own font machinery.
func New() (*Overlay, error) {
	s, err := shaper.New()
	if err != nil {
		return nil, err
	}
	return &Overlay{shaper: s}, nil
}

// Compose draws the progress bar and caption onto one page. number is
// 1-based; total is the page count of the document.
func (o *Overlay) Compose(page *raster.Canvas, number, total int) error {
	if total < 1 {
		total = 1
	}
	if number < 1 {
		number = 1
	}
	if number > total {
		number = total
	}

	barX := (page.Width() - barWidth) / 2
	barY := page.Height() - marginY

	page.DrawBoxBorder(barX, barY, barX+barWidth-1, barY+barHeight-1, colorBorder)

	// Inner fill grows with reading progress.
	innerWidth := (barWidth - 2*innerOffset) * number / total
	if innerWidth > 0 {
		page.FillRect(
			barX+innerOffset,
			barY+innerOffset,
			barX+innerOffset+innerWidth-1,
			barY+barHeight-innerOffset-1,
			colorFill,
		)
	}

	caption := fmt.Sprintf("Page %d / %d", number, total)
	attrs := shaper.Attrs{Size: captionSize, Family: shaper.FamilyRegular, Color: colorCaption}
	width, err := o.shaper.MeasureString(caption, attrs)
	if err != nil {
		return err
	}
	runs, err := o.shaper.Shape([]shaper.Text{{Content: caption, Attrs: attrs}}, page.Width(), 1.0)
	if err != nil {
		return err
	}
	return o.shaper.Draw(page, runs, (page.Width()-width)/2, barY+barHeight+captionGap)
}
