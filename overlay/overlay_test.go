package overlay

import (
	"testing"

	"github.com/tsawler/inkpage/raster"
)

func newTestOverlay(t *testing.T) *Overlay {
	t.Helper()
	o, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestComposeDrawsBar(t *testing.T) {
	o := newTestOverlay(t)
	page := raster.New(1404, 1872, raster.ColorWhite)

	if err := o.Compose(page, 2, 5); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	barX := (page.Width() - barWidth) / 2
	barY := page.Height() - marginY

	if got := page.At(barX, barY); got != colorBorder {
		t.Errorf("border pixel = %v, want %v", got, colorBorder)
	}
	if got := page.At(barX+innerOffset, barY+innerOffset); got != colorFill {
		t.Errorf("fill pixel = %v, want %v", got, colorFill)
	}
}

func TestComposeFillTracksProgress(t *testing.T) {
	o := newTestOverlay(t)

	fillWidth := func(number, total int) int {
		page := raster.New(1404, 1872, raster.ColorWhite)
		if err := o.Compose(page, number, total); err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
		barX := (page.Width() - barWidth) / 2
		y := page.Height() - marginY + innerOffset
		w := 0
		for x := barX + innerOffset; x < barX+barWidth-innerOffset; x++ {
			if page.At(x, y) == colorFill {
				w++
			}
		}
		return w
	}

	first := fillWidth(1, 10)
	last := fillWidth(10, 10)
	if first >= last {
		t.Errorf("fill width page 1 = %d, page 10 = %d, want growth", first, last)
	}
	if last != barWidth-2*innerOffset {
		t.Errorf("final fill width = %d, want %d", last, barWidth-2*innerOffset)
	}
}

func TestComposeDrawsCaption(t *testing.T) {
	o := newTestOverlay(t)
	page := raster.New(1404, 1872, raster.ColorWhite)

	if err := o.Compose(page, 1, 3); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	top := page.Height() - marginY + barHeight + captionGap
	found := false
	for y := top; y < top+2*captionSize && !found; y++ {
		for x := 0; x < page.Width(); x++ {
			if page.At(x, y) == colorCaption {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no caption pixels below the progress bar")
	}
}

func TestComposeClampsOutOfRange(t *testing.T) {
	o := newTestOverlay(t)
	page := raster.New(1404, 1872, raster.ColorWhite)

	if err := o.Compose(page, 7, 5); err != nil {
		t.Errorf("Compose() with number > total error = %v", err)
	}
	if err := o.Compose(page, 0, 0); err != nil {
		t.Errorf("Compose() with zero pages error = %v", err)
	}
}
