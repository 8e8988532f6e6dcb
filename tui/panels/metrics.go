package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/papertrade/internal/portfolio"
	"github.com/zappabad/papertrade/internal/session"
	"github.com/zappabad/papertrade/tui/styles"
)

// MetricsPanel shows the selected player's performance triple and recent
// trade history.
type MetricsPanel struct {
	player session.PlayerView

	focused bool
	width   int
	height  int
}

// NewMetricsPanel creates a new performance metrics panel.
func NewMetricsPanel() *MetricsPanel {
	return &MetricsPanel{}
}

// Init initializes the panel.
func (p *MetricsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *MetricsPanel) Update(msg tea.Msg) (*MetricsPanel, tea.Cmd) {
	return p, nil
}

// SetPlayer feeds the panel the player view to summarize.
func (p *MetricsPanel) SetPlayer(player session.PlayerView) {
	p.player = player
}

// SetFocus sets the focus state.
func (p *MetricsPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *MetricsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *MetricsPanel) View() string {
	var content strings.Builder

	m := p.player.Metrics
	returnStyle := styles.PriceUpStyle
	if m.TotalReturnPct < 0 {
		returnStyle = styles.PriceDownStyle
	}

	content.WriteString(styles.LabelStyle.Render("Return   "))
	content.WriteString(returnStyle.Render(fmt.Sprintf("%+.2f%%", m.TotalReturnPct)))
	content.WriteString(styles.LabelStyle.Render("   Drawdown "))
	content.WriteString(styles.PriceDownStyle.Render(fmt.Sprintf("%.2f%%", m.MaxDrawdownPct)))
	content.WriteString(styles.LabelStyle.Render("   Sharpe "))
	content.WriteString(styles.RowStyle.Render(fmt.Sprintf("%.2f", m.SharpeRatio)))
	content.WriteString("\n\n")

	content.WriteString(styles.HeaderStyle.Render("Trades"))
	content.WriteString("\n")
	content.WriteString(p.renderTrades())

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("📊 Performance - %s", p.player.Name), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *MetricsPanel) renderTrades() string {
	trades := p.player.Trades
	if len(trades) == 0 {
		return styles.LabelStyle.Render("No trades yet")
	}

	// Most recent first, bounded by panel height.
	limit := p.height - 9
	if limit < 3 {
		limit = 3
	}
	if limit > len(trades) {
		limit = len(trades)
	}

	var b strings.Builder
	for i := 0; i < limit; i++ {
		tr := trades[len(trades)-1-i]

		var style lipgloss.Style
		switch tr.Action {
		case portfolio.Buy:
			style = styles.BuyStyle
		case portfolio.Sell:
			style = styles.SellStyle
		default:
			style = styles.HoldStyle
		}

		line := fmt.Sprintf("%s  %-4s %5d @ %s",
			tr.Date.Format("2006-01-02"),
			tr.Action,
			tr.Quantity,
			styles.FormatMoney(tr.Price),
		)
		b.WriteString(style.Render(line))
		if i < limit-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
