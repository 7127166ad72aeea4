package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	AccentColor  = lipgloss.Color("#F59E0B") // Amber

	BuyColor     = lipgloss.Color("#10B981") // Green
	SellColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray

	BackgroundColor  = lipgloss.Color("#1F2937")
	BorderColor      = lipgloss.Color("#374151")
	FocusBorderColor = lipgloss.Color("#7C3AED")

	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondaryColor)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(lipgloss.Color("#374151"))
)

// Text styles
var (
	BuyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BuyColor)

	SellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SellColor)

	PriceUpStyle = lipgloss.NewStyle().
			Foreground(BuyColor)

	PriceDownStyle = lipgloss.NewStyle().
			Foreground(SellColor)

	TimeStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	PumpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BuyColor)

	DumpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SellColor)
)

// Chart styles
var (
	ChartLineStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	ChartAxisStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	ChartLabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)
)

// Modal and input styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(AccentColor).
			Padding(1, 3)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	ScoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(BackgroundColor).
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
				Foreground(TextSecondaryColor)
)

// RenderTitle renders a panel title bar.
func RenderTitle(title string, focused bool) string {
	style := TitleStyle
	if focused {
		style = style.Foreground(FocusBorderColor)
	}
	return style.Render(title)
}

// FormatUSD formats a dollar amount with two decimals.
func FormatUSD(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
