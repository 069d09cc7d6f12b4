// Package shaper lays styled text out into visual lines and rasterizes
// glyphs onto a canvas.
//
// A Shaper owns a cache of font faces keyed by family and pixel size. It is
// scoped to one renderer: the cache is mutable and not safe for concurrent
// use, so each concurrent render call needs its own Shaper.
//
// Shape wraps a sequence of styled texts into runs — one run per visual
// line — and Draw rasterizes runs through the canvas BlendPixel contract,
// one covered pixel at a time.
package shaper

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Family selects a typeface.
type Family int

const (
	FamilyRegular Family = iota
	FamilyBold
	FamilyItalic
	FamilyBoldItalic
	FamilyMono
	FamilyMonoBold
)

// Attrs carries the visual attributes of a styled text.
type Attrs struct {
	Size      float64 // pixel size
	Family    Family
	Color     color.RGBA
	Underline bool
}

// Text is a styled input span for shaping.
type Text struct {
	Content string
	Attrs   Attrs
}

// Segment is a horizontally positioned piece of one run.
type Segment struct {
	Content string
	Attrs   Attrs
	X       int // left edge, run-local
	Width   int
}

// Run is a single visual line. Top is the line's y-offset from the top of
// the shaped block; Baseline is relative to Top.
type Run struct {
	Top      int
	Height   int
	Baseline int
	Segments []Segment
}

// Shaper shapes and rasterizes text over a private face cache.
type Shaper struct {
	fonts map[Family]*sfnt.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	family Family
	size   fixed.Int26_6
}

// New creates a Shaper with all engine typefaces parsed.
func New() (*Shaper, error) {
	sources := map[Family][]byte{
		FamilyRegular:    goregular.TTF,
		FamilyBold:       gobold.TTF,
		FamilyItalic:     goitalic.TTF,
		FamilyBoldItalic: gobolditalic.TTF,
		FamilyMono:       gomono.TTF,
		FamilyMonoBold:   gomonobold.TTF,
	}

	fonts := make(map[Family]*sfnt.Font, len(sources))
	for family, ttf := range sources {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parsing font %d: %w", family, err)
		}
		fonts[family] = f
	}

	return &Shaper{
		fonts: fonts,
		faces: make(map[faceKey]font.Face),
	}, nil
}

// Face returns a cached face for the family at the given pixel size.
func (s *Shaper) Face(family Family, size float64) (font.Face, error) {
	key := faceKey{family: family, size: fixed.Int26_6(size * 64)}
	if face, ok := s.faces[key]; ok {
		return face, nil
	}

	f, ok := s.fonts[family]
	if !ok {
		f = s.fonts[FamilyRegular]
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face: %w", err)
	}
	s.faces[key] = face
	return face, nil
}

// MeasureString returns the advance width of content in pixels.
func (s *Shaper) MeasureString(content string, attrs Attrs) (int, error) {
	face, err := s.Face(attrs.Family, attrs.Size)
	if err != nil {
		return 0, err
	}
	return font.MeasureString(face, content).Ceil(), nil
}

// token is a wrap-unit: a word, a space, or a forced line break.
type token struct {
	content string
	attrs   Attrs
	isSpace bool
	isBreak bool
}

// Shape wraps texts into runs no wider than maxWidth. Lines break at
// spaces; a single word wider than the line is split at rune boundaries.
// Literal newlines force a break. lineHeight scales each run's height
// relative to its largest text size.
func (s *Shaper) Shape(texts []Text, maxWidth int, lineHeight float64) ([]Run, error) {
	tokens := tokenize(texts)

	var runs []Run
	var line []Segment
	lineWidth := 0
	var pendingSpace *token

	flush := func() {
		if len(line) == 0 {
			return
		}
		runs = append(runs, s.buildRun(line, lineHeight))
		line = nil
		lineWidth = 0
	}

	for i := range tokens {
		tok := tokens[i]
		if tok.isBreak {
			pendingSpace = nil
			if len(line) == 0 {
				// Preserve blank lines as an empty run.
				runs = append(runs, s.buildRun([]Segment{{Attrs: tok.attrs}}, lineHeight))
				continue
			}
			flush()
			continue
		}

		if tok.isSpace {
			// Spaces are held back until the next word fits, so a wrap
			// never leaves one dangling at a line end.
			if len(line) > 0 {
				pendingSpace = &tokens[i]
			}
			continue
		}

		width, err := s.MeasureString(tok.content, tok.attrs)
		if err != nil {
			return nil, err
		}

		spaceWidth := 0
		if pendingSpace != nil {
			spaceWidth, err = s.MeasureString(pendingSpace.content, pendingSpace.attrs)
			if err != nil {
				return nil, err
			}
		}

		if lineWidth+spaceWidth+width > maxWidth && len(line) > 0 {
			pendingSpace = nil
			spaceWidth = 0
			flush()
		}

		if width > maxWidth {
			line, lineWidth, runs, err = s.splitLongWord(tok, maxWidth, lineHeight, runs)
			if err != nil {
				return nil, err
			}
			continue
		}

		if pendingSpace != nil {
			line = appendSegment(line, pendingSpace.content, pendingSpace.attrs, lineWidth, spaceWidth)
			lineWidth += spaceWidth
			pendingSpace = nil
		}
		line = appendSegment(line, tok.content, tok.attrs, lineWidth, width)
		lineWidth += width
	}
	flush()

	// Assign vertical offsets.
	top := 0
	for i := range runs {
		runs[i].Top = top
		top += runs[i].Height
	}
	return runs, nil
}

// splitLongWord places an over-wide word across as many lines as needed.
func (s *Shaper) splitLongWord(tok token, maxWidth int, lineHeight float64, runs []Run) ([]Segment, int, []Run, error) {
	var line []Segment
	lineWidth := 0
	part := ""
	partWidth := 0

	for _, r := range tok.content {
		w, err := s.MeasureString(string(r), tok.attrs)
		if err != nil {
			return nil, 0, nil, err
		}
		if partWidth+w > maxWidth && part != "" {
			seg := []Segment{{Content: part, Attrs: tok.attrs, X: 0, Width: partWidth}}
			runs = append(runs, s.buildRun(seg, lineHeight))
			part, partWidth = "", 0
		}
		part += string(r)
		partWidth += w
	}
	if part != "" {
		line = appendSegment(line, part, tok.attrs, 0, partWidth)
		lineWidth = partWidth
	}
	return line, lineWidth, runs, nil
}

// ShapeVerbatim wraps texts into runs without collapsing whitespace: lines
// break only at literal newlines or when a line exceeds maxWidth, in which
// case it is split at a rune boundary. Leading spaces survive, which Shape
// does not guarantee. Intended for preformatted content.
func (s *Shaper) ShapeVerbatim(texts []Text, maxWidth int, lineHeight float64) ([]Run, error) {
	var runs []Run
	var line []Segment
	lineWidth := 0
	lastAttrs := Attrs{}

	flush := func(allowEmpty bool) {
		if len(line) == 0 {
			if allowEmpty {
				runs = append(runs, s.buildRun([]Segment{{Attrs: lastAttrs}}, lineHeight))
			}
			return
		}
		runs = append(runs, s.buildRun(line, lineHeight))
		line = nil
		lineWidth = 0
	}

	for _, t := range texts {
		lastAttrs = t.Attrs
		parts := strings.Split(t.Content, "\n")
		for i, part := range parts {
			if i > 0 {
				flush(true)
			}
			for _, r := range part {
				w, err := s.MeasureString(string(r), t.Attrs)
				if err != nil {
					return nil, err
				}
				if lineWidth+w > maxWidth && lineWidth > 0 {
					flush(false)
				}
				line = appendSegment(line, string(r), t.Attrs, lineWidth, w)
				lineWidth += w
			}
		}
	}
	flush(false)

	top := 0
	for i := range runs {
		runs[i].Top = top
		top += runs[i].Height
	}
	return runs, nil
}

// buildRun computes a run's vertical metrics from its segments.
func (s *Shaper) buildRun(segments []Segment, lineHeight float64) Run {
	height := 0
	baseline := 0
	for _, seg := range segments {
		h := int(math.Ceil(seg.Attrs.Size * lineHeight))
		if h > height {
			height = h
		}
		if face, err := s.Face(seg.Attrs.Family, seg.Attrs.Size); err == nil {
			if a := face.Metrics().Ascent.Ceil(); a > baseline {
				baseline = a
			}
		}
	}
	if height == 0 {
		height = 1
	}
	return Run{Height: height, Baseline: baseline, Segments: segments}
}

// appendSegment extends the last segment when attributes match, otherwise
// starts a new one.
func appendSegment(line []Segment, content string, attrs Attrs, x, width int) []Segment {
	if n := len(line); n > 0 && line[n-1].Attrs == attrs && line[n-1].X+line[n-1].Width == x {
		line[n-1].Content += content
		line[n-1].Width += width
		return line
	}
	return append(line, Segment{Content: content, Attrs: attrs, X: x, Width: width})
}

// tokenize splits texts into words, spaces, and forced breaks.
func tokenize(texts []Text) []token {
	var tokens []token
	for _, t := range texts {
		rest := t.Content
		for rest != "" {
			switch {
			case rest[0] == '\n':
				tokens = append(tokens, token{attrs: t.Attrs, isBreak: true})
				rest = rest[1:]
			case rest[0] == ' ':
				i := 1
				for i < len(rest) && rest[i] == ' ' {
					i++
				}
				tokens = append(tokens, token{content: rest[:i], attrs: t.Attrs, isSpace: true})
				rest = rest[i:]
			default:
				i := strings.IndexAny(rest, " \n")
				if i < 0 {
					i = len(rest)
				}
				tokens = append(tokens, token{content: rest[:i], attrs: t.Attrs})
				rest = rest[i:]
			}
		}
	}
	return tokens
}

// Height returns the total height of a shaped block: the bottom edge of
// the last run.
func Height(runs []Run) int {
	if len(runs) == 0 {
		return 0
	}
	last := runs[len(runs)-1]
	return last.Top + last.Height
}

// Breakpoints returns the top offset of every run, the positions at which
// a page cut may fall without splitting a glyph.
func Breakpoints(runs []Run) []int {
	bps := make([]int, len(runs))
	for i, run := range runs {
		bps[i] = run.Top
	}
	return bps
}
