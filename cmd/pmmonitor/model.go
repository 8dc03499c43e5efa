// model.go - the bubbletea dashboard
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	modeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footStyle = lipgloss.NewStyle().Faint(true)
)

type pollMsg struct {
	snap snapshot
	err  error
}

type model struct {
	src          source
	pollInterval time.Duration
	tbl          table.Model
	mode         string
	lightSleep   string
	lastErr      error
}

func newModel(src source, pollInterval time.Duration) model {
	cols := []table.Column{
		{Title: "Mode", Width: 14},
		{Title: "Dwell (us)", Width: 14},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(false), table.WithHeight(4))
	return model{src: src, pollInterval: pollInterval, tbl: t}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(), tea.EnterAltScreen)
}

func (m model) pollCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.src.poll()
		return pollMsg{snap: snap, err: err}
	}
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg { return m.pollCmd()() })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case pollMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, m.tickCmd()
		}
		m.lastErr = nil
		m.mode = msg.snap.Mode
		if msg.snap.LightSleepReported {
			m.lightSleep = fmt.Sprintf("accepted=%d rejected=%d", msg.snap.LightSleepCounts, msg.snap.LightSleepRejects)
		}

		rows := make([]table.Row, 0, len(msg.snap.DwellUS))
		for _, modeName := range []string{"LIGHT_SLEEP", "APB_MIN", "APB_MAX", "CPU_MAX"} {
			if dwell, ok := msg.snap.DwellUS[modeName]; ok {
				rows = append(rows, table.Row{modeName, fmt.Sprintf("%d", dwell)})
			}
		}
		m.tbl.SetRows(rows)
		return m, m.tickCmd()
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.lastErr != nil {
		return errStyle.Render(fmt.Sprintf("pmmonitor: %v\n", m.lastErr)) + footStyle.Render("\nq to quit")
	}

	header := fmt.Sprintf("mode: %s", modeStyle.Render(m.mode))
	body := m.tbl.View()
	footer := footStyle.Render("\nlight sleep: " + m.lightSleep + "\nq to quit")
	return fmt.Sprintf("%s\n\n%s\n%s", header, body, footer)
}
