package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/papertrade/internal/session"
	"github.com/zappabad/papertrade/tui/styles"
)

// StatsPanel shows every player's cash, position, portfolio value and PnL.
type StatsPanel struct {
	players  []session.PlayerView
	selected session.PlayerID

	focused bool
	width   int
	height  int
}

// NewStatsPanel creates a new player stats panel.
func NewStatsPanel() *StatsPanel {
	return &StatsPanel{}
}

// Init initializes the panel.
func (p *StatsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *StatsPanel) Update(msg tea.Msg) (*StatsPanel, tea.Cmd) {
	return p, nil
}

// SetPlayers feeds the panel the current player views and selection.
func (p *StatsPanel) SetPlayers(players []session.PlayerView, selected session.PlayerID) {
	p.players = players
	p.selected = selected
}

// SetFocus sets the focus state.
func (p *StatsPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *StatsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *StatsPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-10s %12s %6s %12s %12s", "Player", "Cash", "Pos", "Value", "PnL")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, pl := range p.players {
		name := truncateName(pl.Name, 10)
		if pl.Pending {
			name = truncateName("*"+name, 10)
		}

		row := fmt.Sprintf("%-10s %12s %6d %12s %12s",
			name,
			styles.FormatMoney(pl.Cash),
			pl.Position,
			styles.FormatMoney(pl.Value),
			fmt.Sprintf("%+.2f", pl.PnL),
		)

		style := lipgloss.NewStyle().Foreground(styles.PlayerColor(int(pl.ID)))
		if pl.ID == p.selected {
			style = style.Bold(true)
		}
		content.WriteString(style.Render(row))
		if i < len(p.players)-1 {
			content.WriteString("\n")
		}
	}

	if p.anyPending() {
		content.WriteString("\n\n")
		content.WriteString(styles.BreakpointStyle.Render("* waiting on decision"))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("👥 Players", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// truncateName cuts a name to at most max runes. Names are user-settable,
// so cutting on a byte boundary could split a multibyte rune.
func truncateName(name string, max int) string {
	r := []rune(name)
	if len(r) <= max {
		return name
	}
	return string(r[:max])
}

func (p *StatsPanel) anyPending() bool {
	for _, pl := range p.players {
		if pl.Pending {
			return true
		}
	}
	return false
}
