package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of the terminal sheet.
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the terminal color scheme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Accent:  lipgloss.Color("#ff5fd7"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Header     lipgloss.Style
	Bar        lipgloss.Style
	Note       lipgloss.Style
	Accidental lipgloss.Style
	Rest       lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Bar:        lipgloss.NewStyle().Foreground(t.Dim),
		Note:       lipgloss.NewStyle(),
		Accidental: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Rest:       lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// PlainStyles renders without colors or attributes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Header: plain, Bar: plain, Note: plain, Accidental: plain, Rest: plain}
}

var durationSymbols = map[string]string{
	"8": "♪",
	"q": "♩",
	"h": "𝅗𝅥",
}

// Text renders sheet for a terminal using the default styles.
func Text(sheet Sheet) string {
	return TextWith(sheet, NewStyles(DefaultTheme))
}

// TextWith renders sheet with the given styles. Each staff line becomes one
// row of text; bar lines separate measures.
func TextWith(sheet Sheet, s Styles) string {
	var rows []string
	for _, line := range sheet.Lines {
		var b strings.Builder
		for _, stave := range line.Staves {
			if stave.Clef != "" {
				b.WriteString(s.Header.Render(header(stave)))
				b.WriteString(" ")
			}
			b.WriteString(s.Bar.Render("|"))
			for _, g := range stave.Glyphs {
				b.WriteString(" ")
				b.WriteString(glyphText(g, s))
			}
			b.WriteString(" ")
		}
		b.WriteString(s.Bar.Render("|"))
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func header(st Stave) string {
	h := fmt.Sprintf("𝄞 %s %s", st.Key, st.TimeSig)
	if st.Tempo > 0 {
		h += fmt.Sprintf(" ♩=%d", st.Tempo)
	}
	return h
}

func glyphText(g Glyph, s Styles) string {
	symbol := durationSymbols[g.Duration]
	if symbol == "" {
		symbol = g.Duration
	}
	if g.Rest {
		return s.Rest.Render("rest" + symbol)
	}

	name := strings.Join(g.Keys, ",")
	if g.Accidental == "" {
		return s.Note.Render(name + symbol)
	}
	return s.Accidental.Render("["+g.Accidental+"]") + s.Note.Render(name+symbol)
}
