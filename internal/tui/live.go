package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/cprakashj01/hoomd-blue/internal/thermo"
)

const (
	historyCapacity = 400
	graphWidth      = 70
	graphHeight     = 8
	stepsPerTick    = 5
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives the live NPT view: it ticks the integrator a few steps per
// frame and plots the temperature and pressure histories.
type Model struct {
	it      *thermo.Integrator
	running bool
	last    thermo.StepResult
	err     error

	tempHistory  []float64
	pressHistory []float64
}

func NewModel(it *thermo.Integrator) Model {
	return Model{
		it:           it,
		running:      true,
		tempHistory:  make([]float64, 0, historyCapacity),
		pressHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < stepsPerTick; i++ {
				res, err := m.it.Step(context.Background())
				if err != nil {
					m.err = err
					break
				}
				m.last = res
				m.tempHistory = push(m.tempHistory, res.Temperature)
				m.pressHistory = push(m.pressHistory, res.Pressure)
			}
		}
		return m, tick()
	}
	return m, nil
}

func push(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("npt live"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("step", fmt.Sprintf("%d", m.last.Step))
	row("time", fmt.Sprintf("%.3f", m.last.Time))
	row("temperature", fmt.Sprintf("%.4f", m.last.Temperature))
	row("pressure", fmt.Sprintf("%.4f", m.last.Pressure))
	row("box edge", fmt.Sprintf("%.4f", m.last.Box.L[0]))
	row("xi / eta", fmt.Sprintf("%.4f / %.4f", m.last.Coupling.Xi, m.last.Coupling.Eta))

	if len(m.tempHistory) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.tempHistory,
			asciigraph.Height(graphHeight), asciigraph.Width(graphWidth),
			asciigraph.Caption("temperature"))))
		b.WriteString("\n")
	}
	if len(m.pressHistory) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.pressHistory,
			asciigraph.Height(graphHeight), asciigraph.Width(graphWidth),
			asciigraph.Caption("pressure"))))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause  q quit"))
	return b.String()
}

// Run starts the live view and blocks until the user quits.
func Run(it *thermo.Integrator) error {
	p := tea.NewProgram(NewModel(it))
	_, err := p.Run()
	return err
}
