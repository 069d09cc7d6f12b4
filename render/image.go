package render

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/tsawler/inkpage/model"
	"github.com/tsawler/inkpage/paginate"
	"github.com/tsawler/inkpage/raster"
	"github.com/tsawler/inkpage/resolver"
	"github.com/tsawler/inkpage/shaper"
)

const (
	placeholderWidth  = 300
	placeholderHeight = 300
)

// renderImage draws a prefetched image at the content left edge, downscaled
// to fit the content width and the page content band. Anything that cannot
// be drawn — an unresolvable reference, a fetch miss — renders as a
// placeholder box instead.
func (r *Renderer) renderImage(img *model.Image, ctx blockContext) *paginate.RenderedBlock {
	src := r.lookupImage(img.URL)
	if src == nil {
		return r.renderImagePlaceholder(img, ctx)
	}

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return r.renderImagePlaceholder(img, ctx)
	}

	// Downscale only: fit within content width and one page of content
	// height, keeping aspect.
	dstW, dstH := srcW, srcH
	if maxW := r.contentWidth(ctx); dstW > maxW {
		dstH = dstH * maxW / dstW
		dstW = maxW
	}
	if maxH := r.layout.ContentHeight(); dstH > maxH {
		dstW = dstW * maxH / dstH
		dstH = maxH
	}
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	canvas := raster.New(r.layout.Width, dstH, r.background)
	x := r.contentX(ctx)
	dstRect := image.Rect(x, 0, x+dstW, dstH)
	xdraw.BiLinear.Scale(canvas.Image(), dstRect, src, bounds, xdraw.Src, nil)

	return &paginate.RenderedBlock{
		Height:      dstH,
		Canvas:      canvas,
		Breakpoints: []int{0},
	}
}

// lookupImage resolves the reference against the document URL and returns
// the prefetched pixels, or nil when unavailable.
func (r *Renderer) lookupImage(url string) image.Image {
	key := url
	if r.baseURL != "" {
		resolved, err := resolver.Resolve(r.baseURL, url)
		if err != nil {
			return nil
		}
		key = resolved
	}
	return r.images[key]
}

// renderImagePlaceholder draws a fixed-size bordered box, with the alt text
// inside when there is one.
func (r *Renderer) renderImagePlaceholder(img *model.Image, ctx blockContext) *paginate.RenderedBlock {
	w := placeholderWidth
	if maxW := r.contentWidth(ctx); w > maxW {
		w = maxW
	}
	h := placeholderHeight

	canvas := raster.New(r.layout.Width, h, r.background)
	x := r.contentX(ctx)
	canvas.FillRect(x, 0, x+w-1, h-1, placeholderFill)
	canvas.DrawBoxBorder(x, 0, x+w-1, h-1, placeholderLine)

	if img.AltText != "" {
		texts := []shaper.Text{{
			Content: img.AltText,
			Attrs:   shaper.Attrs{Size: r.fontSize, Family: shaper.FamilyItalic, Color: placeholderLine},
		}}
		pad := int(r.fontSize / 2)
		if runs, err := r.shaper.Shape(texts, w-2*pad, r.cfg.LineHeight); err == nil {
			_ = r.shaper.Draw(canvas, runs, x+pad, pad)
		}
	}

	return &paginate.RenderedBlock{
		Height:      h,
		Canvas:      canvas,
		Breakpoints: []int{0},
	}
}
