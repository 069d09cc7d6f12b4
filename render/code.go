package render

import (
	"image/color"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/tsawler/inkpage/model"
	"github.com/tsawler/inkpage/paginate"
	"github.com/tsawler/inkpage/shaper"
)

// codeStyleName selects the chroma style. The grayscale style suits an
// e-ink target: emphasis comes from weight, not hue.
const codeStyleName = "bw"

// renderCode renders a code block in monospace with syntax coloring.
// Highlighting failures degrade to plain monospace; the block itself never
// fails.
func (r *Renderer) renderCode(cb *model.CodeBlock, ctx blockContext) (*paginate.RenderedBlock, error) {
	texts := r.highlight(cb)
	runs, err := r.shaper.ShapeVerbatim(texts, r.contentWidth(ctx), r.cfg.LineHeight)
	if err != nil {
		return nil, err
	}
	return r.fromRuns(runs, ctx)
}

// highlight tokenizes code into styled shaper input. Tabs expand to four
// spaces: the Go faces have no tab glyph.
func (r *Renderer) highlight(cb *model.CodeBlock) []shaper.Text {
	source := strings.ReplaceAll(cb.Content, "\t", "    ")
	plain := []shaper.Text{{
		Content: source,
		Attrs:   shaper.Attrs{Size: r.fontSize, Family: shaper.FamilyMono, Color: colorText},
	}}

	lexer := lexers.Get(cb.Language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(codeStyleName)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plain
	}

	var texts []shaper.Text
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)

		family := shaper.FamilyMono
		if entry.Bold == chroma.Yes {
			family = shaper.FamilyMonoBold
		}

		col := colorText
		if entry.Colour.IsSet() {
			col = color.RGBA{
				R: entry.Colour.Red(),
				G: entry.Colour.Green(),
				B: entry.Colour.Blue(),
				A: 0xFF,
			}
		}

		texts = append(texts, shaper.Text{
			Content: token.Value,
			Attrs:   shaper.Attrs{Size: r.fontSize, Family: family, Color: col},
		})
	}
	if len(texts) == 0 {
		return plain
	}
	return texts
}
