package model

// SpanStyle is the flattened inline style of a text span.
type SpanStyle int

const (
	StyleNormal SpanStyle = iota
	StyleBold
	StyleItalic
	StyleBoldItalic
	StyleCode
)

func (s SpanStyle) String() string {
	switch s {
	case StyleBold:
		return "Bold"
	case StyleItalic:
		return "Italic"
	case StyleBoldItalic:
		return "BoldItalic"
	case StyleCode:
		return "Code"
	default:
		return "Normal"
	}
}

// Merge combines an enclosing style with a nested one and returns the style
// of the flattened span. Bold and Italic combine commutatively to
// BoldItalic and absorb further Bold/Italic nesting. Code absorbs every
// other style in either nesting order. Any other combination takes the
// innermost style.
func (s SpanStyle) Merge(inner SpanStyle) SpanStyle {
	if s == StyleCode || inner == StyleCode {
		return StyleCode
	}
	switch {
	case s == StyleBold && inner == StyleItalic,
		s == StyleItalic && inner == StyleBold:
		return StyleBoldItalic
	case s == StyleBoldItalic && (inner == StyleBold || inner == StyleItalic):
		return StyleBoldItalic
	case s == inner:
		return s
	default:
		return inner
	}
}

// SpanKind identifies a span variant.
type SpanKind int

const (
	SpanKindText SpanKind = iota
	SpanKindLink
)

// Span is a single inline run: styled text or a link. Spans never nest.
type Span interface {
	SpanKind() SpanKind
}

// Text is a styled run of characters.
type Text struct {
	Content string
	Style   SpanStyle
}

func (t *Text) SpanKind() SpanKind { return SpanKindText }

// Link is an inline hyperlink with its visible text.
type Link struct {
	Destination string
	Text        string
}

func (l *Link) SpanKind() SpanKind { return SpanKindLink }
