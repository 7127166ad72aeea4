package panels

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crypto-rush/internal/session/service"
	"crypto-rush/internal/tui/styles"
)

// PortfolioPanel shows balance, holdings, total value, and the countdown.
type PortfolioPanel struct {
	snap service.Snapshot

	focused bool
	width   int
	height  int
}

// NewPortfolioPanel creates a new portfolio panel.
func NewPortfolioPanel() *PortfolioPanel {
	return &PortfolioPanel{}
}

// Init initializes the panel.
func (p *PortfolioPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PortfolioPanel) Update(msg tea.Msg) (*PortfolioPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *PortfolioPanel) View() string {
	var content strings.Builder

	timeLeft := fmt.Sprintf("%d:%02d", p.snap.TimeLeft/60, p.snap.TimeLeft%60)
	content.WriteString(styles.LabelStyle.Render("Time left  "))
	content.WriteString(styles.TimeStyle.Render(timeLeft))
	content.WriteString("   ")
	content.WriteString(styles.LabelStyle.Render("Phase "))
	content.WriteString(styles.RowStyle.Render(p.snap.Phase.String()))
	content.WriteString("\n")

	content.WriteString(styles.LabelStyle.Render("Cash       "))
	content.WriteString(styles.RowStyle.Render(styles.FormatUSD(p.snap.Balance)))
	content.WriteString("\n")

	content.WriteString(styles.LabelStyle.Render("Total      "))
	content.WriteString(styles.ScoreStyle.Render(styles.FormatUSD(p.snap.TotalValue)))
	content.WriteString("   ")
	content.WriteString(styles.LabelStyle.Render("Trades "))
	content.WriteString(styles.RowStyle.Render(fmt.Sprintf("%d", p.snap.Trades)))
	content.WriteString("\n\n")

	symbols := make([]string, 0, len(p.snap.Portfolio))
	for sym, qty := range p.snap.Portfolio {
		if qty > 0 {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)

	if len(symbols) == 0 {
		content.WriteString(styles.MutedStyle.Render("No holdings"))
	} else {
		content.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("%-6s %6s %12s", "Sym", "Qty", "Value")))
		for _, sym := range symbols {
			qty := p.snap.Portfolio[sym]
			value := float64(qty) * p.snap.Prices[sym]
			content.WriteString("\n")
			content.WriteString(styles.RowStyle.Render(
				fmt.Sprintf("%-6s %6d %12s", sym, qty, styles.FormatUSD(value))))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💰 Portfolio", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *PortfolioPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PortfolioPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot replaces the displayed session state.
func (p *PortfolioPanel) SetSnapshot(snap service.Snapshot) {
	p.snap = snap
}
