// Package tui is the terminal front end: a bubbletea model wiring the
// session service and the backend client into panels.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"crypto-rush/internal/api"
	"crypto-rush/internal/chart"
	"crypto-rush/internal/game"
	"crypto-rush/internal/news"
	"crypto-rush/internal/session"
	"crypto-rush/internal/session/service"
	"crypto-rush/internal/tui/panels"
	"crypto-rush/internal/tui/styles"
)

const refreshInterval = 100 * time.Millisecond

// Model is the main TUI application model.
type Model struct {
	svc    *service.Service
	client *api.Client

	assets     []game.Asset
	generation uuid.UUID
	phase      service.Phase
	loadErr    string

	// Panels
	assetsPanel      *panels.AssetsPanel
	chartPanel       *panels.ChartPanel
	portfolioPanel   *panels.PortfolioPanel
	feedPanel        *panels.FeedPanel
	leaderboardPanel *panels.LeaderboardPanel
	resultPanel      *panels.ResultPanel

	// Live leaderboard subscription
	updates <-chan []game.LeaderboardEntry

	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model around a session service and backend
// client.
func NewModel(svc *service.Service, client *api.Client) *Model {
	return &Model{
		svc:              svc,
		client:           client,
		phase:            service.PhaseLoading,
		assetsPanel:      panels.NewAssetsPanel(),
		chartPanel:       panels.NewChartPanel(),
		portfolioPanel:   panels.NewPortfolioPanel(),
		feedPanel:        panels.NewFeedPanel(),
		leaderboardPanel: panels.NewLeaderboardPanel(),
		resultPanel:      panels.NewResultPanel(),
	}
}

// Messages

type gameDataMsg struct {
	data *game.Data
}

type loadErrMsg struct {
	err error
}

type sessionStartedMsg struct{}

type serviceEventMsg struct {
	event service.Event
}

type refreshDataMsg struct {
	snap  service.Snapshot
	chart chart.Snapshot
	items []news.Item
}

type leaderboardMsg struct {
	entries []game.LeaderboardEntry
	err     error
}

type leaderboardStreamMsg struct {
	updates <-chan []game.LeaderboardEntry
}

type liveLeaderboardMsg struct {
	entries []game.LeaderboardEntry
	ok      bool
}

type submitResultMsg struct {
	generation uuid.UUID
	score      float64
	err        error
}

type refreshTickMsg struct{}

// Init kicks off data loading and event subscriptions.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.resultPanel.Init(),
		m.fetchGameData(),
		m.fetchLeaderboard(),
		m.watchLeaderboard(),
		m.listenEvents(),
		m.scheduleRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case gameDataMsg:
		m.loadErr = ""
		m.assets = msg.data.Assets
		m.assetsPanel.SetAssets(msg.data.Assets)
		cmds = append(cmds, m.startSession(msg.data))

	case loadErrMsg:
		m.loadErr = msg.err.Error()

	case sessionStartedMsg:
		m.statusMsg = ""

	case serviceEventMsg:
		m.handleServiceEvent(msg.event)
		cmds = append(cmds, m.listenEvents())

	case refreshTickMsg:
		cmds = append(cmds, m.refreshData(), m.scheduleRefresh())

	case refreshDataMsg:
		m.phase = msg.snap.Phase
		m.generation = msg.snap.Generation
		m.portfolioPanel.SetSnapshot(msg.snap)
		m.assetsPanel.SetPrices(msg.snap.Prices)
		m.chartPanel.SetSnapshot(m.assetsPanel.SelectedSymbol(), msg.chart)
		m.feedPanel.SetItems(msg.items)

	case leaderboardMsg:
		if msg.err != nil {
			m.leaderboardPanel.SetError(msg.err.Error())
		} else {
			m.leaderboardPanel.SetEntries(msg.entries)
		}

	case leaderboardStreamMsg:
		m.updates = msg.updates
		cmds = append(cmds, m.nextLiveUpdate())

	case liveLeaderboardMsg:
		if msg.ok {
			m.leaderboardPanel.SetEntries(msg.entries)
			cmds = append(cmds, m.nextLiveUpdate())
		}

	case panels.SubmitScoreMsg:
		cmds = append(cmds, m.submitScore(msg.Username))

	case submitResultMsg:
		// A response that raced a restart belongs to a dead session.
		if msg.generation == m.generation {
			if msg.err != nil {
				m.resultPanel.SubmitFailedWith(msg.err)
			} else {
				m.resultPanel.SubmitSucceeded(msg.score)
				cmds = append(cmds, m.fetchLeaderboard())
			}
		}
	}

	if m.phase == service.PhaseEnded {
		var cmd tea.Cmd
		m.resultPanel, cmd = m.resultPanel.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	} else {
		var cmd tea.Cmd
		m.assetsPanel, cmd = m.assetsPanel.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.phase == service.PhaseEnded && msg.String() == "q" {
			switch m.resultPanel.State() {
			case panels.SubmitIdle, panels.SubmitFailed:
				// The name field owns plain keys while the modal is up.
				return nil, false
			case panels.SubmitSending:
				// Don't discard an in-flight submission; the modal shows
				// the pending state. ctrl+c still force-quits.
				return nil, true
			}
		}
		return tea.Quit, true

	case "b":
		if m.phase == service.PhaseRunning {
			return m.trade(true), true
		}

	case "s":
		if m.phase == service.PhaseRunning {
			return m.trade(false), true
		}

	case "r":
		if m.phase == service.PhaseEnded && m.resultPanel.State() == panels.SubmitDone {
			return m.restart(), true
		}

	case "esc":
		if m.phase == service.PhaseEnded {
			return m.restart(), true
		}
	}
	return nil, false
}

func (m *Model) handleServiceEvent(ev service.Event) {
	switch ev.Type {
	case service.EventPhase:
		m.phase = ev.Phase
	case service.EventEnded:
		m.phase = service.PhaseEnded
		m.resultPanel.Show(ev.Result)
	case service.EventTrade:
		verb := "Bought"
		if ev.Trade.Side == session.SideSell {
			verb = "Sold"
		}
		m.statusMsg = verb + " 1 " + ev.Trade.Symbol
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.loadErr != "" {
		msg := styles.SellStyle.Render("Failed to reach server: "+m.loadErr) + "\n" +
			styles.MutedStyle.Render("Press q to quit")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	if m.phase == service.PhaseEnded {
		m.resultPanel.SetSize(m.width, m.height)
		return m.resultPanel.View()
	}

	m.assetsPanel.SetFocus(true)

	// Layout:
	// ┌──────────────────────────────┬──────────────┐
	// │            Chart             │    Assets    │
	// │                              ├──────────────┤
	// │                              │  Portfolio   │
	// ├──────────────────────────────┼──────────────┤
	// │            Events            │ Leaderboard  │
	// └──────────────────────────────┴──────────────┘

	rightWidth := m.width / 3
	leftWidth := m.width - rightWidth

	topHeight := (m.height - 3) * 2 / 3
	bottomHeight := m.height - topHeight - 3

	m.chartPanel.SetSize(leftWidth, topHeight)
	m.assetsPanel.SetSize(rightWidth, topHeight/2)
	m.portfolioPanel.SetSize(rightWidth, topHeight-topHeight/2)

	rightColumn := lipgloss.JoinVertical(lipgloss.Left,
		m.assetsPanel.View(),
		m.portfolioPanel.View(),
	)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.chartPanel.View(),
		rightColumn,
	)

	m.feedPanel.SetSize(leftWidth, bottomHeight)
	m.leaderboardPanel.SetSize(rightWidth, bottomHeight)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.feedPanel.View(),
		m.leaderboardPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("↑↓") + styles.StatusBarDescStyle.Render(" asset"),
		styles.StatusBarKeyStyle.Render("b") + styles.StatusBarDescStyle.Render(" buy"),
		styles.StatusBarKeyStyle.Render("s") + styles.StatusBarDescStyle.Render(" sell"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := lipgloss.JoinHorizontal(lipgloss.Center, help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3])

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

// Commands

func (m *Model) fetchGameData() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		data, err := m.client.Start(ctx)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return gameDataMsg{data: data}
	}
}

func (m *Model) startSession(data *game.Data) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Start(context.Background(), data); err != nil {
			return loadErrMsg{err: err}
		}
		return sessionStartedMsg{}
	}
}

func (m *Model) trade(buy bool) tea.Cmd {
	symbol := m.assetsPanel.SelectedSymbol()
	if symbol == "" {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		if buy {
			m.svc.Buy(ctx, symbol)
		} else {
			m.svc.Sell(ctx, symbol)
		}
		return nil
	}
}

func (m *Model) restart() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Restart(context.Background()); err != nil {
			return loadErrMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		data, err := m.client.Start(ctx)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return gameDataMsg{data: data}
	}
}

func (m *Model) submitScore(username string) tea.Cmd {
	generation := m.generation
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := m.svc.Result(ctx)
		if err != nil {
			return submitResultMsg{generation: generation, err: err}
		}
		score, err := m.client.Submit(ctx, game.Result{
			Username:     username,
			FinalBalance: result.FinalBalance,
			TradesCount:  result.Trades,
		})
		return submitResultMsg{generation: generation, score: score, err: err}
	}
}

func (m *Model) fetchLeaderboard() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		entries, err := m.client.Leaderboard(ctx, 10)
		return leaderboardMsg{entries: entries, err: err}
	}
}

func (m *Model) watchLeaderboard() tea.Cmd {
	return func() tea.Msg {
		updates, err := m.client.WatchLeaderboard(context.Background())
		if err != nil {
			// Live updates are best effort; polling still works.
			return nil
		}
		return leaderboardStreamMsg{updates: updates}
	}
}

func (m *Model) nextLiveUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		entries, ok := <-updates
		return liveLeaderboardMsg{entries: entries, ok: ok}
	}
}

func (m *Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.svc.Events()
		if !ok {
			return nil
		}
		return serviceEventMsg{event: ev}
	}
}

func (m *Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m *Model) refreshData() tea.Cmd {
	symbol := m.assetsPanel.SelectedSymbol()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		snap, err := m.svc.Snapshot(ctx)
		if err != nil {
			return nil
		}
		var chartSnap chart.Snapshot
		if symbol != "" {
			chartSnap, _, _ = m.svc.Chart(ctx, symbol)
		}
		return refreshDataMsg{
			snap:  snap,
			chart: chartSnap,
			items: m.svc.Feed().Latest(50),
		}
	}
}
