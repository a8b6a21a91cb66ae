package theme

import (
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Icons.
const (
	Ellipsis = "…"
)

var Default = New("auto")

type Theme struct {
	GenericTextStyle    lipgloss.Style
	TitleStyle          lipgloss.Style
	LogoStyle           lipgloss.Style
	SelectedStyle       lipgloss.Style
	SelectedSubtleStyle lipgloss.Style
	SubtleStyle         lipgloss.Style
	SuccessStyle        lipgloss.Style
	WarningStyle        lipgloss.Style
	ErrorTextStyle      lipgloss.Style
	ErrorTitleStyle     lipgloss.Style
	NoticeStyle         lipgloss.Style
	InsertedStyle       lipgloss.Style
	DeletedStyle        lipgloss.Style

	ChromaStyle *chroma.Style
	Ellipsis    string
}

func New(theme string) *Theme {
	style := newChromaStyle(theme)

	var (
		genericStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.Background))

		logoStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromTokenBg(chroma.Background)).
				Background(style.lipglossFromToken(chroma.NameTag)).
				Bold(true)

		titleStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.NameTag)).
				Bold(true)

		selectedStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.NameTag))

		selectedSubtleStyle = lipgloss.NewStyle().
					Foreground(style.lipglossFromTokenWithFactor(chroma.NameTag, 0.3))

		subtleStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.Comment))

		successStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.GenericInserted))

		// Chroma styles carry no warning token.
		warningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "3", Dark: "11"})

		errorTextStyle = lipgloss.NewStyle().
				Foreground(style.lipglossFromToken(chroma.GenericDeleted))

		errorTitleStyle = genericStyle.
				Background(style.lipglossFromToken(chroma.GenericDeleted))

		noticeStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(style.lipglossFromToken(chroma.NameTag)).
				Padding(0, 1)

		insertedStyle = successStyle

		deletedStyle = errorTextStyle
	)

	return &Theme{
		GenericTextStyle:    genericStyle,
		TitleStyle:          titleStyle,
		LogoStyle:           logoStyle,
		SelectedStyle:       selectedStyle,
		SelectedSubtleStyle: selectedSubtleStyle,
		SubtleStyle:         subtleStyle,
		SuccessStyle:        successStyle,
		WarningStyle:        warningStyle,
		ErrorTextStyle:      errorTextStyle,
		ErrorTitleStyle:     errorTitleStyle,
		NoticeStyle:         noticeStyle,
		InsertedStyle:       insertedStyle,
		DeletedStyle:        deletedStyle,

		ChromaStyle: style.style,
		Ellipsis:    Ellipsis,
	}
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(theme string) chromaStyle {
	s := styles.Get(getStyle(theme))
	if s == nil {
		// If the style is not found, fallback to the default style.
		s = styles.Fallback
	}

	return chromaStyle{
		style: s,
	}
}

func (cs chromaStyle) lipglossFromToken(c chroma.TokenType) lipgloss.Color {
	s := cs.style.Get(c)

	return lipgloss.Color(s.Colour.String()) // nolint:misspell // Chroma naming.
}

func (cs chromaStyle) lipglossFromTokenBg(c chroma.TokenType) lipgloss.Color {
	s := cs.style.Get(c)

	return lipgloss.Color(s.Background.String())
}

func (cs chromaStyle) lipglossFromTokenWithFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	s := cs.style.Get(c)

	sc := s.Colour.BrightenOrDarken(factor) // nolint:misspell // Chroma naming.

	return lipgloss.Color(sc.String())
}

func getStyle(style string) string {
	switch style {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return getDefaultStyle()
	default:
		return style
	}
}

func getDefaultStyle() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "" // Fallback.
	}
	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
