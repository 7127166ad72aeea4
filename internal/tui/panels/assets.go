package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crypto-rush/internal/game"
	"crypto-rush/internal/tui/styles"
)

// AssetsPanel lists the tradable assets with their current prices.
type AssetsPanel struct {
	assets        []game.Asset
	prices        map[string]float64
	prevPrices    map[string]float64
	selectedIndex int

	focused bool
	width   int
	height  int
}

// NewAssetsPanel creates a new assets panel.
func NewAssetsPanel() *AssetsPanel {
	return &AssetsPanel{
		prices:     make(map[string]float64),
		prevPrices: make(map[string]float64),
	}
}

// Init initializes the panel.
func (p *AssetsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *AssetsPanel) Update(msg tea.Msg) (*AssetsPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.assets)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *AssetsPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-6s %-12s %12s", "Sym", "Name", "Price")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, asset := range p.assets {
		price := p.prices[asset.Symbol]
		priceStr := styles.FormatUSD(price)

		row := fmt.Sprintf("%-6s %-12s %12s", asset.Symbol, asset.Name, priceStr)

		style := styles.RowStyle
		if prev, ok := p.prevPrices[asset.Symbol]; ok {
			if price > prev {
				style = styles.PriceUpStyle
			} else if price < prev {
				style = styles.PriceDownStyle
			}
		}
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		if i < len(p.assets)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Assets", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *AssetsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *AssetsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetAssets replaces the asset list and resets the selection.
func (p *AssetsPanel) SetAssets(assets []game.Asset) {
	p.assets = assets
	p.selectedIndex = 0
	p.prices = make(map[string]float64)
	p.prevPrices = make(map[string]float64)
}

// SetPrices updates current prices, remembering the previous ones for
// up/down coloring.
func (p *AssetsPanel) SetPrices(prices map[string]float64) {
	for sym, price := range p.prices {
		p.prevPrices[sym] = price
	}
	for sym, price := range prices {
		p.prices[sym] = price
	}
}

// SelectedSymbol returns the symbol of the highlighted asset, or "" when
// the list is empty.
func (p *AssetsPanel) SelectedSymbol() string {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.assets) {
		return p.assets[p.selectedIndex].Symbol
	}
	return ""
}
