package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-contract-sdk/hostsim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	cfg      *hostsim.Config
	session  *session
	result   *hostsim.Result
	filename string
	methods  []string
	input    textinput.Model
	selected int
	state    modelState
}

type modelState int

const (
	stateSelectMethod modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(filename string, cfg *hostsim.Config) *interactiveModel {
	return &interactiveModel{
		cfg:      cfg,
		filename: filename,
		state:    stateSelectMethod,
	}
}

type loadedMsg struct {
	err     error
	session *session
}

type invokeResultMsg struct {
	err    error
	result *hostsim.Result
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadContract
}

func (m *interactiveModel) loadContract() tea.Msg {
	// Host logs would draw over the TUI; contract logs are shown with results.
	s, err := openSession(context.Background(), m.filename, m.cfg, zap.NewNop())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{session: s}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()

		case "q":
			if m.state != stateInputArgs {
				return m, m.quit()
			}

		case "up", "k":
			if m.state == stateSelectMethod && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectMethod && m.selected < len(m.methods)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectMethod:
				if len(m.methods) == 0 {
					return m, nil
				}
				m.prepareInput()
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.invoke

			case stateShowResult:
				m.reset()
			}

		case "esc":
			if m.state != stateSelectMethod {
				m.reset()
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.methods = msg.session.methods()

	case invokeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) quit() tea.Cmd {
	if m.session != nil {
		m.session.close(context.Background())
	}
	return tea.Quit
}

func (m *interactiveModel) reset() {
	m.state = stateSelectMethod
	m.result = nil
	m.err = nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "key=value key2=value2"
	ti.Prompt = "args: "
	ti.Width = 60
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) invoke() tea.Msg {
	if m.session == nil {
		return invokeResultMsg{err: fmt.Errorf("contract not loaded")}
	}

	args, err := parseArgs(strings.Fields(m.input.Value()))
	if err != nil {
		return invokeResultMsg{err: err}
	}

	res, err := m.session.module.Invoke(context.Background(), m.methods[m.selected], args)
	return invokeResultMsg{result: res, err: err}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.session == nil {
		return "Loading contract..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Contract Runner"))
	b.WriteString(" ")
	b.WriteString(m.cfg.Contract)
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectMethod:
		if len(m.methods) == 0 {
			b.WriteString("The contract exports no methods.\n")
			break
		}
		b.WriteString("Select a method to invoke:\n\n")
		for i, name := range m.methods {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + name))
			} else {
				b.WriteString("  " + funcStyle.Render(name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputArgs:
		fmt.Fprintf(&b, "Invoking %s\n\n", funcStyle.Render(m.methods[m.selected]))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter invoke • esc back"))

	case stateShowResult:
		fmt.Fprintf(&b, "Result of %s:\n\n", funcStyle.Render(m.methods[m.selected]))
		m.writeResult(&b)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) writeResult(b *strings.Builder) {
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		return
	case m.result.Failed:
		b.WriteString(errorStyle.Render("Failed: " + m.result.Failure))
	default:
		b.WriteString(resultStyle.Render(string(m.result.Success)))
	}

	for _, ev := range m.result.Events {
		b.WriteString("\n")
		b.WriteString(eventStyle.Render("event " + ev.Topic + " " + strings.Join(ev.Data, " ")))
	}
	for _, l := range m.result.Logs {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("log " + l))
	}
}

func runInteractive(filename string, cfg *hostsim.Config) error {
	p := tea.NewProgram(newInteractiveModel(filename, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
