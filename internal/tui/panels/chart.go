package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crypto-rush/internal/chart"
	"crypto-rush/internal/tui/styles"
)

// ChartPanel renders the bounded price series for one asset as an ASCII
// line with buy/sell markers overlaid at their trade ticks.
type ChartPanel struct {
	symbol string
	snap   chart.Snapshot

	focused bool
	width   int
	height  int
}

// NewChartPanel creates a new chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *ChartPanel) View() string {
	title := "📉 Chart"
	if p.symbol != "" {
		title = fmt.Sprintf("📉 Chart - %s", p.symbol)
	}

	var content string
	if len(p.snap.Series) == 0 {
		content = styles.MutedStyle.Render("Waiting for price data...")
	} else {
		chartWidth := p.width - 4
		chartHeight := p.height - 5
		if chartHeight < 5 {
			chartHeight = 5
		}
		content = p.renderChart(chartWidth, chartHeight)
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	panel := lipgloss.JoinVertical(lipgloss.Left, styles.RenderTitle(title, p.focused), content)
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) renderChart(width, height int) string {
	series := p.snap.Series

	// Reserve 10 columns for the price axis.
	cols := width - 10
	if cols < 10 {
		cols = 10
	}
	if cols > len(series) {
		cols = len(series)
	}
	visible := series[len(series)-cols:]

	minPrice := visible[0].Price
	maxPrice := visible[0].Price
	for _, pt := range visible {
		if pt.Price < minPrice {
			minPrice = pt.Price
		}
		if pt.Price > maxPrice {
			maxPrice = pt.Price
		}
	}
	if maxPrice == minPrice {
		maxPrice = minPrice + 1
	}
	pad := (maxPrice - minPrice) * 0.1
	minPrice -= pad
	maxPrice += pad

	// Column index by tick, for marker overlay.
	colByTick := make(map[int]int, len(visible))
	for i, pt := range visible {
		colByTick[pt.Tick] = i
	}

	type markerCell struct {
		row  int
		char string
	}
	markers := make(map[int]markerCell)
	for _, b := range p.snap.Buys {
		if col, ok := colByTick[b.Tick]; ok {
			markers[col] = markerCell{
				row:  priceToRow(b.Price, minPrice, maxPrice, height),
				char: styles.BuyStyle.Render("B"),
			}
		}
	}
	for _, s := range p.snap.Sells {
		if col, ok := colByTick[s.Tick]; ok {
			markers[col] = markerCell{
				row:  priceToRow(s.Price, minPrice, maxPrice, height),
				char: styles.SellStyle.Render("S"),
			}
		}
	}

	rows := make([]int, len(visible))
	for i, pt := range visible {
		rows[i] = priceToRow(pt.Price, minPrice, maxPrice, height)
	}

	var result strings.Builder
	for row := 0; row < height; row++ {
		price := rowToPrice(row, minPrice, maxPrice, height)
		result.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%8.2f │", price)))

		for col := range visible {
			if m, ok := markers[col]; ok && m.row == row {
				result.WriteString(m.char)
				continue
			}
			switch {
			case rows[col] == row:
				result.WriteString(styles.ChartLineStyle.Render("●"))
			case col > 0 && between(row, rows[col-1], rows[col]):
				result.WriteString(styles.ChartLineStyle.Render("│"))
			default:
				result.WriteString(" ")
			}
		}
		result.WriteString("\n")
	}

	result.WriteString(styles.ChartAxisStyle.Render("─────────┴" + strings.Repeat("─", len(visible))))
	result.WriteString("\n")
	result.WriteString(styles.ChartLabelStyle.Render(fmt.Sprintf("          tick %d .. %d", visible[0].Tick, visible[len(visible)-1].Tick)))

	return result.String()
}

// between reports whether row lies strictly between the previous and
// current plotted rows, used to draw connecting segments on steep moves.
func between(row, prev, cur int) bool {
	if prev < cur {
		return row > prev && row < cur
	}
	return row > cur && row < prev
}

func priceToRow(price, minPrice, maxPrice float64, height int) int {
	ratio := (maxPrice - price) / (maxPrice - minPrice)
	row := int(ratio * float64(height-1))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func rowToPrice(row int, minPrice, maxPrice float64, height int) float64 {
	if height <= 1 {
		return minPrice
	}
	ratio := float64(row) / float64(height-1)
	return maxPrice - ratio*(maxPrice-minPrice)
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot replaces the plotted series and markers.
func (p *ChartPanel) SetSnapshot(symbol string, snap chart.Snapshot) {
	p.symbol = symbol
	p.snap = snap
}
