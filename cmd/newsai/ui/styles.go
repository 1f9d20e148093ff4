// Package ui provides the visual styling for the NewsAI terminal dashboard.
// One palette with light/dark mode support, shared by the dashboard and the
// plain CLI output.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, identical in both modes.
var (
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#66bb6a")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Category colors match the web dashboard's section badges.
var (
	SportsColor    = lipgloss.Color("#43a047")
	FinanceColor   = lipgloss.Color("#1e88e5")
	LifestyleColor = lipgloss.Color("#ab47bc")
	MusicColor     = lipgloss.Color("#ef5350")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme is the default newspaper look: ink on paper with a masthead blue.
func LightTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#f8f9fa"),
		Foreground: lipgloss.Color("#1a2332"),
		Primary:    lipgloss.Color("#0d47a1"),
		Accent:     lipgloss.Color("#e65100"),
		Secondary:  lipgloss.Color("#e3e7eb"),
		Muted:      lipgloss.Color("#8a94a3"),
		Border:     lipgloss.Color("#d7dce2"),
		Card:       lipgloss.Color("#ffffff"),
	}
}

// DarkTheme lifts the masthead blue and breaking orange for dark terminals.
func DarkTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#10161f"),
		Foreground: lipgloss.Color("#e8ebef"),
		Primary:    lipgloss.Color("#64b5f6"),
		Accent:     lipgloss.Color("#ffb74d"),
		Secondary:  lipgloss.Color("#1b2534"),
		Muted:      lipgloss.Color("#5c6b80"),
		Border:     lipgloss.Color("#2a3850"),
		Card:       lipgloss.Color("#18222f"),
		IsDark:     true,
	}
}

// DetectTheme guesses the terminal background. NEWSAI_DARK_MODE=1 forces dark;
// otherwise COLORFGBG's background index decides (0-6 and 8 are dark).
// TODO: Use muesli/termenv's OSC background query instead of COLORFGBG parsing.
func DetectTheme() Theme {
	if os.Getenv("NEWSAI_DARK_MODE") == "1" {
		return DarkTheme()
	}
	if _, bg, ok := strings.Cut(os.Getenv("COLORFGBG"), ";"); ok {
		if n, err := strconv.Atoi(bg); err == nil && ((n >= 0 && n <= 6) || n == 8) {
			return DarkTheme()
		}
	}
	return LightTheme()
}

// ThemeFor resolves a configured theme name ("dark", "light", or "auto")
// to a concrete Theme. Anything unrecognized falls back to auto-detection.
func ThemeFor(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds every styled component the dashboard renders with.
type Styles struct {
	Theme Theme

	App, Header, Footer, Content lipgloss.Style

	Tab, TabActive lipgloss.Style

	Title, Subtitle, Body, Muted, Bold lipgloss.Style

	Prompt, UserInput, AssistantResponse lipgloss.Style

	Success, Error, Warning, Info lipgloss.Style

	Spinner, Divider, Badge, Breaking, Card lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	white := lipgloss.Color("#ffffff")
	s := Styles{Theme: t}

	// Layout
	s.App = lipgloss.NewStyle().Background(t.Background).Foreground(t.Foreground)
	s.Header = lipgloss.NewStyle().Background(t.Primary).Foreground(white).Padding(0, 2).Bold(true)
	s.Footer = lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 2)
	s.Content = lipgloss.NewStyle().Padding(1, 2)

	// Tabs
	s.Tab = lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 2)
	s.TabActive = lipgloss.NewStyle().Foreground(t.Primary).Padding(0, 2).Bold(true).Underline(true)

	// Text
	s.Title = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1)
	s.Subtitle = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	s.Body = lipgloss.NewStyle().Foreground(t.Foreground)
	s.Muted = lipgloss.NewStyle().Foreground(t.Muted)
	s.Bold = lipgloss.NewStyle().Foreground(t.Foreground).Bold(true)

	// Chat
	s.Prompt = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	s.UserInput = lipgloss.NewStyle().Foreground(t.Foreground)
	s.AssistantResponse = lipgloss.NewStyle().Foreground(t.Foreground).PaddingLeft(2).
		BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(t.Accent)

	// Status
	s.Success = lipgloss.NewStyle().Foreground(Success).Bold(true)
	s.Error = lipgloss.NewStyle().Foreground(Destructive).Bold(true)
	s.Warning = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	s.Info = lipgloss.NewStyle().Foreground(Info)

	// Components
	s.Spinner = lipgloss.NewStyle().Foreground(t.Accent)
	s.Divider = lipgloss.NewStyle().Foreground(t.Border)
	s.Badge = lipgloss.NewStyle().Background(t.Accent).Foreground(white).Padding(0, 1).Bold(true)
	s.Breaking = lipgloss.NewStyle().Background(Destructive).Foreground(white).Padding(0, 1).Bold(true)
	s.Card = lipgloss.NewStyle().Background(t.Card).Foreground(t.Foreground).Padding(0, 1).
		Border(lipgloss.RoundedBorder()).BorderForeground(t.Border)

	return s
}

// CategoryColor maps a news category to its badge color.
// Unknown categories use the muted color so they still render.
func (s Styles) CategoryColor(category string) lipgloss.Color {
	switch strings.ToLower(category) {
	case "sports":
		return SportsColor
	case "finance":
		return FinanceColor
	case "lifestyle":
		return LifestyleColor
	case "music":
		return MusicColor
	default:
		return s.Theme.Muted
	}
}

// CategoryBadge renders a category name in its section color.
func (s Styles) CategoryBadge(category string) string {
	return lipgloss.NewStyle().
		Foreground(s.CategoryColor(category)).
		Bold(true).
		Render(strings.ToUpper(category))
}

// PriorityStyle maps a story priority level to a status style.
func (s Styles) PriorityStyle(level string) lipgloss.Style {
	switch strings.ToLower(level) {
	case "critical":
		return s.Error
	case "high":
		return s.Warning
	case "medium":
		return s.Info
	default:
		return s.Muted
	}
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
