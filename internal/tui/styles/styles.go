package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Accent     = lipgloss.Color("#2563EB")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Yellow     = lipgloss.Color("#F59E0B")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Tile box
var (
	TileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	TileErrorStyle = TileStyle.
			BorderForeground(Red)

	TileTitleStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// Header and footer
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Accent).
			Bold(true).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Error screen
var (
	ErrorPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(1, 2)

	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true).
			MarginBottom(1)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Accent).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Accent)
)

// Progress bar styles
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(Green)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// gradeThemes maps a colour theme to the colour of each grade value.
// Index 0 is the worst grade, 5 the best.
var gradeThemes = map[string][6]lipgloss.Color{
	"vulcan":  {"#DC2626", "#EA580C", "#CA8A04", "#65A30D", "#16A34A", "#0D9488"},
	"classic": {"#EF4444", "#F97316", "#EAB308", "#3B82F6", "#22C55E", "#A855F7"},
	"mono":    {"#6B7280", "#6B7280", "#9CA3AF", "#9CA3AF", "#F9FAFB", "#F9FAFB"},
}

// GradeStyle returns the style of a grade worth value (1 to 6) under theme.
// Unknown themes fall back to vulcan.
func GradeStyle(theme string, value float64) lipgloss.Style {
	colors, ok := gradeThemes[theme]
	if !ok {
		colors = gradeThemes["vulcan"]
	}
	idx := int(value+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > 5 {
		idx = 5
	}
	return lipgloss.NewStyle().Foreground(colors[idx]).Bold(true)
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width > len(runes) {
		width = len(runes)
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// RenderProgressBar renders a progress bar
func RenderProgressBar(percent float64, width int) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}
