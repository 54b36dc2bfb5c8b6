package piste

import "strings"

// TextAlign controls horizontal alignment of each text line relative to the
// sprite origin.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // line starts at the origin
	TextAlignCenter                  // line is centered on the origin
	TextAlignRight                   // line ends at the origin
)

// String returns the alignment name.
func (a TextAlign) String() string {
	switch a {
	case TextAlignCenter:
		return "center"
	case TextAlignRight:
		return "right"
	default:
		return "left"
	}
}

// lineSpacing is the distance between baselines as a multiple of font size.
const lineSpacing = 1.1

// TextStyle holds the formatting of a TextSprite.
type TextStyle struct {
	Align    TextAlign
	Color    Color
	FontSize float64
}

// DefaultTextStyle is left-aligned black 12px text.
var DefaultTextStyle = TextStyle{
	Align:    TextAlignLeft,
	Color:    ColorBlack,
	FontSize: 12,
}

// TextSprite draws one or more lines of text. The first baseline sits on
// the sprite origin and each following line is FontSize*1.1 lower.
// Text sprites never collide.
type TextSprite struct {
	Entity
	TextStyle
	lines []string
}

// NewTextSprite creates a text sprite with the given style. A zero FontSize
// takes the default.
func NewTextSprite(text string, style TextStyle) *TextSprite {
	if style.FontSize <= 0 {
		style.FontSize = DefaultTextStyle.FontSize
	}
	t := &TextSprite{Entity: MakeEntity(), TextStyle: style}
	t.NoClip = true
	t.SetText(text)
	return t
}

// TextFactory returns a constructor that applies defaults to every text
// sprite it creates. Options run after the defaults are copied.
func TextFactory(defaults TextStyle) func(text string, opts ...func(*TextStyle)) *TextSprite {
	return func(text string, opts ...func(*TextStyle)) *TextSprite {
		style := defaults
		for _, o := range opts {
			o(&style)
		}
		return NewTextSprite(text, style)
	}
}

// SetText replaces the text. Newlines start new lines.
func (t *TextSprite) SetText(text string) {
	t.lines = strings.Split(text, "\n")
}

// Text returns the text with lines joined by newlines.
func (t *TextSprite) Text() string {
	return strings.Join(t.lines, "\n")
}

// Lines returns the text split into lines.
func (t *TextSprite) Lines() []string {
	return t.lines
}

func (t *TextSprite) DrawInner(s Surface) {
	for i, line := range t.lines {
		if line == "" {
			continue
		}
		var xOffset float64
		switch t.Align {
		case TextAlignCenter:
			xOffset = -s.MeasureText(line, t.FontSize) / 2
		case TextAlignRight:
			xOffset = -s.MeasureText(line, t.FontSize)
		}
		s.FillText(line, xOffset, float64(i)*t.FontSize*lineSpacing, t.FontSize, t.Color)
	}
}
