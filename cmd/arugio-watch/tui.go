package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arugio/arugio/client"
	"github.com/arugio/arugio/game"
)

const (
	refreshInterval = 100 * time.Millisecond

	mapCols  = 61
	mapRows  = 21
	mapHalfX = 15.0
	mapHalfY = 10.0
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	localStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	ballStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type watchModel struct {
	cl       *client.Client
	spin     spinner.Model
	balls    []game.Ball
	localID  game.BallID
	welcomed bool
}

type refreshMsg struct{}

func newWatchModel(cl *client.Client) *watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &watchModel{cl: cl, spin: sp}
}

func refreshAfter() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, refreshAfter())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case refreshMsg:
		m.balls = m.cl.Snapshot()
		m.localID, m.welcomed = m.cl.LocalID()
		return m, refreshAfter()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "w":
		m.cl.SetTarget(game.Vec2{Y: 1})
	case "down", "s":
		m.cl.SetTarget(game.Vec2{Y: -1})
	case "left", "a":
		m.cl.SetTarget(game.Vec2{X: -1})
	case "right", "d":
		m.cl.SetTarget(game.Vec2{X: 1})
	case " ":
		m.cl.SetTarget(game.Vec2{})
	}
	return m, nil
}

func (m *watchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("arugio"))
	b.WriteByte('\n')

	if !m.welcomed {
		fmt.Fprintf(&b, "\n %s connecting...\n", m.spin.View())
		b.WriteString(helpStyle.Render("\n q quit"))
		return b.String()
	}

	b.WriteString(m.renderMap())
	b.WriteByte('\n')
	b.WriteString(m.renderBalls())
	b.WriteString(helpStyle.Render("\n arrows/wasd steer · space stop · q quit"))
	return b.String()
}

// renderMap draws the world as an ASCII grid centered on the local ball.
func (m *watchModel) renderMap() string {
	center := game.Vec2{}
	for _, ball := range m.balls {
		if ball.ID == m.localID {
			center = ball.Pos
			break
		}
	}

	grid := make([][]rune, mapRows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", mapCols))
	}

	plot := func(pos game.Vec2, r rune) {
		dx := float64(pos.X - center.X)
		dy := float64(pos.Y - center.Y)
		col := int((dx/mapHalfX + 1) / 2 * (mapCols - 1))
		row := int((1 - (dy/mapHalfY+1)/2) * (mapRows - 1))
		if col < 0 || col >= mapCols || row < 0 || row >= mapRows {
			return
		}
		grid[row][col] = r
	}

	for _, ball := range m.balls {
		if ball.ID != m.localID {
			plot(ball.Pos, 'o')
		}
	}
	plot(center, '@')

	var b strings.Builder
	b.WriteString(frameStyle.Render("+" + strings.Repeat("-", mapCols) + "+"))
	b.WriteByte('\n')
	for _, row := range grid {
		line := string(row)
		line = strings.ReplaceAll(line, "o", ballStyle.Render("o"))
		line = strings.ReplaceAll(line, "@", localStyle.Render("@"))
		b.WriteString(frameStyle.Render("|") + line + frameStyle.Render("|"))
		b.WriteByte('\n')
	}
	b.WriteString(frameStyle.Render("+" + strings.Repeat("-", mapCols) + "+"))
	return b.String()
}

func (m *watchModel) renderBalls() string {
	var b strings.Builder
	fmt.Fprintf(&b, " %-6s %-18s %-18s\n", "ball", "position", "velocity")
	for _, ball := range m.balls {
		line := fmt.Sprintf(" %-6d %-18s %-18s",
			ball.ID,
			fmt.Sprintf("%.2f, %.2f", ball.Pos.X, ball.Pos.Y),
			fmt.Sprintf("%.2f, %.2f", ball.Vel.X, ball.Vel.Y))
		if ball.ID == m.localID {
			line = localStyle.Render(line + "  (you)")
		} else {
			line = ballStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
