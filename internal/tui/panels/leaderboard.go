package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crypto-rush/internal/game"
	"crypto-rush/internal/tui/styles"
)

// LeaderboardPanel shows the best submitted scores.
type LeaderboardPanel struct {
	entries []game.LeaderboardEntry
	err     string

	focused bool
	width   int
	height  int
}

// NewLeaderboardPanel creates a new leaderboard panel.
func NewLeaderboardPanel() *LeaderboardPanel {
	return &LeaderboardPanel{}
}

// Init initializes the panel.
func (p *LeaderboardPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *LeaderboardPanel) Update(msg tea.Msg) (*LeaderboardPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *LeaderboardPanel) View() string {
	var content strings.Builder

	switch {
	case p.err != "":
		content.WriteString(styles.MutedStyle.Render("Leaderboard unavailable"))
	case len(p.entries) == 0:
		content.WriteString(styles.MutedStyle.Render("No scores yet"))
	default:
		content.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("%3s %-12s %8s %6s", "#", "Player", "Score", "Trades")))
		visible := p.height - 5
		if visible < 1 {
			visible = 1
		}
		entries := p.entries
		if len(entries) > visible {
			entries = entries[:visible]
		}
		for i, entry := range entries {
			content.WriteString("\n")
			row := fmt.Sprintf("%3d %-12s %8.1f %6d", i+1, entry.Username, entry.Score, entry.Trades)
			style := styles.RowStyle
			if i == 0 {
				style = styles.ScoreStyle
			}
			content.WriteString(style.Render(row))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🏆 Leaderboard", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *LeaderboardPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *LeaderboardPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetEntries replaces the displayed entries, best first.
func (p *LeaderboardPanel) SetEntries(entries []game.LeaderboardEntry) {
	p.entries = entries
	p.err = ""
}

// SetError marks the leaderboard as unavailable.
func (p *LeaderboardPanel) SetError(msg string) {
	p.err = msg
}
