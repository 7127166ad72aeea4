package panels

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crypto-rush/internal/news"
	"crypto-rush/internal/tui/styles"
)

// FeedPanel shows the most recent session events, newest at the bottom.
type FeedPanel struct {
	items []news.Item

	focused bool
	width   int
	height  int
}

// NewFeedPanel creates a new feed panel.
func NewFeedPanel() *FeedPanel {
	return &FeedPanel{}
}

// Init initializes the panel.
func (p *FeedPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *FeedPanel) Update(msg tea.Msg) (*FeedPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *FeedPanel) View() string {
	var content strings.Builder

	visible := p.height - 4
	if visible < 1 {
		visible = 1
	}
	items := p.items
	if len(items) > visible {
		items = items[len(items)-visible:]
	}

	if len(items) == 0 {
		content.WriteString(styles.MutedStyle.Render("No events yet"))
	}
	for i, item := range items {
		var style lipgloss.Style
		switch item.Sentiment {
		case news.SentimentPump:
			style = styles.PumpStyle
		case news.SentimentDump:
			style = styles.DumpStyle
		default:
			style = styles.RowStyle
		}
		content.WriteString(styles.TimeStyle.Render(item.Time.Format("15:04:05") + " "))
		content.WriteString(style.Render(item.Text))
		if i < len(items)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📰 Events", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *FeedPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *FeedPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetItems replaces the displayed items, oldest first.
func (p *FeedPanel) SetItems(items []news.Item) {
	p.items = items
}
