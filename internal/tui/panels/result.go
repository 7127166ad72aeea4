package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crypto-rush/internal/session/service"
	"crypto-rush/internal/tui/styles"
)

// SubmitState tracks the score submission lifecycle.
type SubmitState int

const (
	SubmitIdle SubmitState = iota
	SubmitSending
	SubmitDone
	SubmitFailed
)

// SubmitScoreMsg is sent when the player confirms their username.
type SubmitScoreMsg struct {
	Username string
}

// maxUsernameLen mirrors the server-side limit.
const maxUsernameLen = 20

// ResultPanel is the end-of-round modal: settlement summary plus a
// username prompt for submitting the score.
type ResultPanel struct {
	result service.Result
	input  textinput.Model

	state    SubmitState
	score    float64
	errMsg   string
	validErr string

	width  int
	height int
}

// NewResultPanel creates the result modal.
func NewResultPanel() *ResultPanel {
	input := textinput.New()
	input.Placeholder = "Your name"
	input.Width = 20
	input.CharLimit = maxUsernameLen
	return &ResultPanel{input: input}
}

// Init initializes the panel.
func (p *ResultPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *ResultPanel) Update(msg tea.Msg) (*ResultPanel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if p.state == SubmitIdle || p.state == SubmitFailed {
			username := strings.TrimSpace(p.input.Value())
			if username == "" {
				p.validErr = "Enter a name first"
				return p, nil
			}
			p.validErr = ""
			p.state = SubmitSending
			return p, func() tea.Msg {
				return SubmitScoreMsg{Username: username}
			}
		}
		return p, nil
	}

	var cmd tea.Cmd
	if p.state == SubmitIdle || p.state == SubmitFailed {
		p.input, cmd = p.input.Update(msg)
	}
	return p, cmd
}

// View renders the modal.
func (p *ResultPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.TitleStyle.Render("⏱ Time's up!"))
	content.WriteString("\n\n")

	profitStyle := styles.PriceUpStyle
	if p.result.Profit < 0 {
		profitStyle = styles.PriceDownStyle
	}
	content.WriteString(styles.LabelStyle.Render("Final balance  "))
	content.WriteString(styles.RowStyle.Render(styles.FormatUSD(p.result.FinalBalance)))
	content.WriteString("\n")
	content.WriteString(styles.LabelStyle.Render("Profit         "))
	content.WriteString(profitStyle.Render(styles.FormatUSD(p.result.Profit)))
	content.WriteString("\n")
	content.WriteString(styles.LabelStyle.Render("Trades         "))
	content.WriteString(styles.RowStyle.Render(fmt.Sprintf("%d", p.result.Trades)))
	content.WriteString("\n\n")

	switch p.state {
	case SubmitSending:
		content.WriteString(styles.MutedStyle.Render("Submitting..."))
	case SubmitDone:
		content.WriteString(styles.ScoreStyle.Render(fmt.Sprintf("Score: %.1f", p.score)))
		content.WriteString("\n\n")
		content.WriteString(styles.MutedStyle.Render("Press r to play again"))
	default:
		content.WriteString(styles.LabelStyle.Render("Name: "))
		content.WriteString(p.input.View())
		content.WriteString("\n")
		if p.validErr != "" {
			content.WriteString(styles.SellStyle.Render(p.validErr))
			content.WriteString("\n")
		}
		if p.state == SubmitFailed {
			content.WriteString(styles.SellStyle.Render("Submit failed: " + p.errMsg))
			content.WriteString("\n")
		}
		content.WriteString(styles.MutedStyle.Render("Enter to submit, Esc to skip and restart"))
	}

	modal := styles.ModalStyle.Render(content.String())
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, modal)
}

// SetSize sets the overlay dimensions.
func (p *ResultPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Show resets the modal for a freshly ended session.
func (p *ResultPanel) Show(result service.Result) {
	p.result = result
	p.state = SubmitIdle
	p.score = 0
	p.errMsg = ""
	p.validErr = ""
	p.input.SetValue("")
	p.input.Focus()
}

// SubmitSucceeded records the server-computed score.
func (p *ResultPanel) SubmitSucceeded(score float64) {
	p.state = SubmitDone
	p.score = score
}

// SubmitFailedWith re-enables the form after a failed submission.
func (p *ResultPanel) SubmitFailedWith(err error) {
	p.state = SubmitFailed
	p.errMsg = err.Error()
	p.input.Focus()
}

// State returns the submission state.
func (p *ResultPanel) State() SubmitState {
	return p.state
}
