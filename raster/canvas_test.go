package raster

import (
	"image/color"
	"testing"
)

func TestNewFillsBackground(t *testing.T) {
	c := New(4, 3, ColorWhite)
	if c.Width() != 4 || c.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", c.Width(), c.Height())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if c.At(x, y) != ColorWhite {
				t.Fatalf("At(%d,%d) = %v, want white", x, y, c.At(x, y))
			}
		}
	}
}

func TestBlendPixel(t *testing.T) {
	tests := []struct {
		name string
		src  color.RGBA
		want color.RGBA
	}{
		{"opaque replaces", color.RGBA{A: 0xFF}, color.RGBA{A: 0xFF}},
		{"transparent keeps", color.RGBA{R: 0x10, A: 0}, ColorWhite},
		{"half blends", color.RGBA{A: 0x80}, color.RGBA{R: 0x7F, G: 0x7F, B: 0x7F, A: 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(1, 1, ColorWhite)
			c.BlendPixel(0, 0, tt.src)
			if got := c.At(0, 0); got != tt.want {
				t.Errorf("BlendPixel() -> %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutOfBoundsWritesDropped(t *testing.T) {
	c := New(2, 2, ColorWhite)
	c.Set(-1, 0, ColorBlack)
	c.Set(0, 5, ColorBlack)
	c.BlendPixel(9, 9, ColorBlack)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if c.At(x, y) != ColorWhite {
				t.Errorf("At(%d,%d) = %v, want white", x, y, c.At(x, y))
			}
		}
	}
}

func TestDrawBoxBorder(t *testing.T) {
	c := New(5, 5, ColorWhite)
	c.DrawBoxBorder(1, 1, 3, 3, ColorBlack)

	if c.At(1, 1) != ColorBlack || c.At(3, 3) != ColorBlack || c.At(3, 1) != ColorBlack {
		t.Error("border corners not drawn")
	}
	if c.At(2, 2) != ColorWhite {
		t.Error("interior should stay white")
	}
	if c.At(0, 0) != ColorWhite || c.At(4, 4) != ColorWhite {
		t.Error("exterior should stay white")
	}
}

func TestFillRect(t *testing.T) {
	c := New(4, 4, ColorWhite)
	c.FillRect(1, 1, 2, 2, ColorBlack)
	if c.At(1, 1) != ColorBlack || c.At(2, 2) != ColorBlack {
		t.Error("fill interior not set")
	}
	if c.At(0, 1) != ColorWhite || c.At(3, 3) != ColorWhite {
		t.Error("fill leaked outside rect")
	}
}

func TestCopyRows(t *testing.T) {
	src := New(3, 4, ColorWhite)
	src.DrawHLine(0, 2, 1, ColorBlack)
	src.DrawHLine(0, 2, 2, color.RGBA{R: 0xFF, A: 0xFF})

	dst := New(3, 4, ColorWhite)
	dst.CopyRows(src, 1, 3, 0)

	if dst.At(0, 0) != ColorBlack {
		t.Errorf("row 1 not copied to row 0: %v", dst.At(0, 0))
	}
	if dst.At(0, 1) != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Errorf("row 2 not copied to row 1: %v", dst.At(0, 1))
	}
	if dst.At(0, 2) != ColorWhite {
		t.Error("rows beyond range should stay white")
	}
}

func TestCopyRowsClipped(t *testing.T) {
	src := New(2, 2, ColorBlack)
	dst := New(2, 2, ColorWhite)

	// Destination rows outside the canvas are dropped, in-range rows land.
	dst.CopyRows(src, 0, 2, 1)
	if dst.At(0, 0) != ColorWhite {
		t.Error("row 0 should be untouched")
	}
	if dst.At(0, 1) != ColorBlack {
		t.Error("row 1 should be copied")
	}

	// Source rows outside the canvas are dropped.
	dst2 := New(2, 2, ColorWhite)
	dst2.CopyRows(src, -2, 0, 0)
	if dst2.At(0, 0) != ColorWhite || dst2.At(0, 1) != ColorWhite {
		t.Error("negative source rows should be clipped")
	}
}
