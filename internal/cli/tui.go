package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	promptDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ConfirmModel - [y/N] prompt
// =============================================================================

// ConfirmModel asks a yes/no question. Enter accepts the default, which is
// no.
type ConfirmModel struct {
	Question  string
	Confirmed bool
	Answered  bool
}

// NewConfirmModel creates a prompt for question.
func NewConfirmModel(question string) ConfirmModel {
	return ConfirmModel{Question: question}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.Confirmed, m.Answered = true, true
		return m, tea.Quit
	case "n", "enter", "q", "esc", "ctrl+c":
		m.Confirmed, m.Answered = false, true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.Answered {
		answer := "no"
		if m.Confirmed {
			answer = "yes"
		}
		return promptStyle.Render(m.Question) + " " + promptDimStyle.Render(answer) + "\n"
	}
	return promptStyle.Render(m.Question) + " " + promptDimStyle.Render("[y/N]") + " "
}

// confirm asks question on the CLI's terminal. skip answers yes without
// prompting.
func (c *CLI) confirm(question string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	p := tea.NewProgram(NewConfirmModel(question), tea.WithInput(c.in), tea.WithOutput(c.out))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m := final.(ConfirmModel)
	return m.Answered && m.Confirmed, nil
}
