package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/papertrade/internal/session"
	"github.com/zappabad/papertrade/tui/panels"
	"github.com/zappabad/papertrade/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusChart   PanelFocus = 0
	FocusStats   PanelFocus = 1
	FocusTrading PanelFocus = 2
	FocusMetrics PanelFocus = 3
)

// Model is the main TUI application model. It owns a session and renders
// read-only snapshots of it; every mutation goes through explicit session
// calls triggered by key presses.
type Model struct {
	session *session.Session
	runner  *session.Runner

	chartPanel   *panels.ChartPanel
	statsPanel   *panels.StatsPanel
	tradingPanel *panels.TradingPanel
	metricsPanel *panels.MetricsPanel
	dayProgress  progress.Model

	selectedPlayer session.PlayerID
	focusedPanel   PanelFocus

	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model over the given session.
func NewModel(s *session.Session) *Model {
	return &Model{
		session:        s,
		chartPanel:     panels.NewChartPanel(),
		statsPanel:     panels.NewStatsPanel(),
		tradingPanel:   panels.NewTradingPanel(),
		metricsPanel:   panels.NewMetricsPanel(),
		dayProgress:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		selectedPlayer: 1,
		focusedPanel:   FocusTrading,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.chartPanel.Init(),
		m.statsPanel.Init(),
		m.tradingPanel.Init(),
		m.metricsPanel.Init(),
	)
}

// runnerEventMsg wraps one auto-progress runner event.
type runnerEventMsg struct {
	event session.Event
	ok    bool
}

// tradeResultMsg reports the outcome of a submitted trade.
type tradeResultMsg struct {
	message string
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
		if w := msg.Width - 30; w > 10 {
			m.dayProgress.Width = w
		} else {
			m.dayProgress.Width = 10
		}
		m.ready = true

	case panels.TradeSubmitMsg:
		cmds = append(cmds, m.submitTrade(msg))

	case tradeResultMsg:
		m.statusMsg = msg.message

	case runnerEventMsg:
		cmds = append(cmds, m.handleRunnerEvent(msg)...)
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

// handleKey processes global key bindings. Returns handled=false for keys the
// focused panel should consume instead.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.stopRunner()
		return tea.Quit, true

	case "ctrl+n":
		m.stepOnce()
		return nil, true

	case " ":
		// Space steps manually unless the trading form owns the input.
		if m.focusedPanel != FocusTrading || !m.snapshot().PausedForTrade() {
			m.stepOnce()
			return nil, true
		}

	case "ctrl+a":
		return m.toggleAutoProgress(), true

	case "ctrl+s":
		m.stopRunner()
		if err := m.session.SkipToNextBreakpoint(); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.statusMsg = "Skipped to next decision point"
		}
		return nil, true

	case "ctrl+r":
		m.stopRunner()
		m.session.Reset()
		m.statusMsg = "Simulation reset"
		return nil, true

	case "1", "2", "3", "4":
		// Digits select a player unless the quantity input is active.
		if m.focusedPanel != FocusTrading || !m.snapshot().PausedForTrade() {
			m.selectPlayer(session.PlayerID(msg.String()[0] - '0'))
			return nil, true
		}

	case "+":
		m.session.SetPlayerCount(len(m.snapshot().Players) + 1)
		return nil, true

	case "-":
		m.session.SetPlayerCount(len(m.snapshot().Players) - 1)
		m.selectPlayer(m.selectedPlayer)
		return nil, true

	case "f1":
		m.focusedPanel = FocusChart
		return nil, true
	case "f2":
		m.focusedPanel = FocusStats
		return nil, true
	case "f3":
		m.focusedPanel = FocusTrading
		return nil, true
	case "f4":
		m.focusedPanel = FocusMetrics
		return nil, true
	}
	return nil, false
}

func (m *Model) stepOnce() {
	m.stopRunner()
	if err := m.session.Step(); err != nil {
		m.statusMsg = err.Error()
		return
	}
	snap := m.snapshot()
	switch {
	case snap.Finished():
		m.statusMsg = "End of the simulation!"
	case snap.PausedForTrade():
		m.statusMsg = "Decision point: every player must trade or hold"
		m.focusedPanel = FocusTrading
	default:
		m.statusMsg = ""
	}
}

func (m *Model) selectPlayer(id session.PlayerID) {
	players := m.snapshot().Players
	if len(players) == 0 {
		return
	}
	if int(id) < 1 {
		id = 1
	}
	if int(id) > len(players) {
		id = players[len(players)-1].ID
	}
	m.selectedPlayer = id
}

func (m *Model) toggleAutoProgress() tea.Cmd {
	if m.runner != nil {
		m.stopRunner()
		m.statusMsg = "Auto-play stopped"
		return nil
	}
	snap := m.snapshot()
	if snap.PausedForTrade() || snap.Finished() {
		m.statusMsg = "Cannot auto-play while " + snap.Mode.String()
		return nil
	}
	m.runner = session.NewRunner(m.session, session.DefaultRunnerConfig())
	m.statusMsg = "Auto-play running"
	return m.listenRunner()
}

func (m *Model) stopRunner() {
	if m.runner != nil {
		m.runner.Close()
		m.runner = nil
	}
}

func (m *Model) listenRunner() tea.Cmd {
	r := m.runner
	return func() tea.Msg {
		ev, ok := <-r.Events()
		return runnerEventMsg{event: ev, ok: ok}
	}
}

func (m *Model) handleRunnerEvent(msg runnerEventMsg) []tea.Cmd {
	if !msg.ok {
		// Channel closed: the runner loop is done.
		m.runner = nil
		return nil
	}

	switch msg.event.Type {
	case session.EventPaused:
		m.statusMsg = "Decision point: every player must trade or hold"
		m.focusedPanel = FocusTrading
	case session.EventFinished:
		m.statusMsg = "End of the simulation!"
	}

	if m.runner != nil {
		return []tea.Cmd{m.listenRunner()}
	}
	return nil
}

func (m *Model) submitTrade(msg panels.TradeSubmitMsg) tea.Cmd {
	err := m.session.Trade(msg.Player, msg.Action, msg.Quantity)
	return func() tea.Msg {
		if err != nil {
			return tradeResultMsg{message: "❌ " + err.Error()}
		}
		return tradeResultMsg{message: fmt.Sprintf("✓ %s %d executed", msg.Action, msg.Quantity)}
	}
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusStats:
		m.statsPanel, cmd = m.statsPanel.Update(msg)
	case FocusTrading:
		m.tradingPanel, cmd = m.tradingPanel.Update(msg)
	case FocusMetrics:
		m.metricsPanel, cmd = m.metricsPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) snapshot() session.Snapshot {
	return m.session.Snapshot()
}

func (m *Model) selectedView(snap session.Snapshot) session.PlayerView {
	for _, p := range snap.Players {
		if p.ID == m.selectedPlayer {
			return p
		}
	}
	if len(snap.Players) > 0 {
		return snap.Players[0]
	}
	return session.PlayerView{}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	snap := m.snapshot()
	selected := m.selectedView(snap)

	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.statsPanel.SetFocus(m.focusedPanel == FocusStats)
	m.tradingPanel.SetFocus(m.focusedPanel == FocusTrading)
	m.metricsPanel.SetFocus(m.focusedPanel == FocusMetrics)

	m.chartPanel.SetData(m.session.Series().Visible(snap.Day), snap.LastIndex+1, snap.Day, snap.Breakpoints)
	m.statsPanel.SetPlayers(snap.Players, m.selectedPlayer)
	m.tradingPanel.SetPlayer(selected, snap.Price, snap.PausedForTrade())
	m.metricsPanel.SetPlayer(selected)

	// Layout:
	// ┌───────────────────────────────┬──────────────┐
	// │            Chart              │   Players    │
	// ├───────────────────────────────┼──────────────┤
	// │            Trade              │ Performance  │
	// └───────────────────────────────┴──────────────┘
	leftWidth := m.width * 3 / 5
	rightWidth := m.width - leftWidth

	topHeight := (m.height - 3) * 3 / 5
	bottomHeight := m.height - topHeight - 3

	m.chartPanel.SetSize(leftWidth, topHeight)
	m.statsPanel.SetSize(rightWidth, topHeight)
	m.tradingPanel.SetSize(leftWidth, bottomHeight)
	m.metricsPanel.SetSize(rightWidth, bottomHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.chartPanel.View(), m.statsPanel.View())
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top, m.tradingPanel.View(), m.metricsPanel.View())
	statusBar := m.renderStatusBar(snap)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, statusBar)
}

func (m *Model) renderStatusBar(snap session.Snapshot) string {
	var pct float64
	if snap.LastIndex > 0 {
		pct = float64(snap.Day) / float64(snap.LastIndex)
	}
	bar := m.dayProgress.ViewAs(pct)

	mode := snap.Mode.String()
	if m.runner != nil {
		mode = "AUTO"
	}

	help := []string{
		styles.StatusBarKeyStyle.Render("space") + styles.StatusBarDescStyle.Render(" next day"),
		styles.StatusBarKeyStyle.Render("^a") + styles.StatusBarDescStyle.Render(" auto"),
		styles.StatusBarKeyStyle.Render("^s") + styles.StatusBarDescStyle.Render(" skip"),
		styles.StatusBarKeyStyle.Render("^r") + styles.StatusBarDescStyle.Render(" reset"),
		styles.StatusBarKeyStyle.Render("1-4") + styles.StatusBarDescStyle.Render(" player"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}
	helpStr := ""
	for i, h := range help {
		if i > 0 {
			helpStr += " │ "
		}
		helpStr += h
	}

	line := fmt.Sprintf("%s %s", bar, styles.StatusBarDescStyle.Render(mode))
	if m.statusMsg != "" {
		line += " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + "\n" + line)
}
