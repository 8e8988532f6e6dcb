package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/papertrade/internal/portfolio"
	"github.com/zappabad/papertrade/internal/session"
	"github.com/zappabad/papertrade/tui/styles"
)

// TradeSubmitMsg is emitted when the user confirms a trading decision.
type TradeSubmitMsg struct {
	Player   session.PlayerID
	Action   portfolio.Action
	Quantity int
}

// TradingPanel collects one player's buy/sell/hold decision at a breakpoint.
// The quantity is clamped to what the player can afford (buy) or holds
// (sell); the engine re-validates on submit regardless.
type TradingPanel struct {
	player  session.PlayerView
	price   float64
	enabled bool

	actions     []portfolio.Action
	actionIndex int
	qtyInput    textinput.Model

	focused bool
	width   int
	height  int
}

// NewTradingPanel creates a new trading decision panel.
func NewTradingPanel() *TradingPanel {
	qty := textinput.New()
	qty.Placeholder = "0"
	qty.Width = 8
	qty.CharLimit = 9

	return &TradingPanel{
		actions:  []portfolio.Action{portfolio.Buy, portfolio.Sell, portfolio.Hold},
		qtyInput: qty,
	}
}

// Init initializes the panel.
func (p *TradingPanel) Init() tea.Cmd {
	return textinput.Blink
}

// SetPlayer points the panel at the player whose decision is being entered.
func (p *TradingPanel) SetPlayer(player session.PlayerView, price float64, paused bool) {
	p.player = player
	p.price = price
	p.enabled = paused && player.Pending
	if !p.enabled {
		p.qtyInput.Blur()
	} else if p.focused {
		p.qtyInput.Focus()
	}
}

// SetFocus sets the focus state.
func (p *TradingPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused && p.enabled {
		p.qtyInput.Focus()
	} else {
		p.qtyInput.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *TradingPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles messages for the panel.
func (p *TradingPanel) Update(msg tea.Msg) (*TradingPanel, tea.Cmd) {
	if !p.focused || !p.enabled {
		return p, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.qtyInput, cmd = p.qtyInput.Update(msg)
		return p, cmd
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left", "shift+tab"))):
		p.actionIndex--
		if p.actionIndex < 0 {
			p.actionIndex = len(p.actions) - 1
		}
		return p, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right", "tab"))):
		p.actionIndex = (p.actionIndex + 1) % len(p.actions)
		return p, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		return p, p.submit()
	}

	var cmd tea.Cmd
	p.qtyInput, cmd = p.qtyInput.Update(msg)
	return p, cmd
}

func (p *TradingPanel) submit() tea.Cmd {
	action := p.actions[p.actionIndex]

	qty := 0
	if action != portfolio.Hold {
		n, err := strconv.Atoi(strings.TrimSpace(p.qtyInput.Value()))
		if err != nil || n < 0 {
			return nil
		}
		if max := p.maxQuantity(action); n > max {
			n = max
		}
		qty = n
	}

	player := p.player.ID
	p.qtyInput.SetValue("")
	return func() tea.Msg {
		return TradeSubmitMsg{Player: player, Action: action, Quantity: qty}
	}
}

func (p *TradingPanel) maxQuantity(action portfolio.Action) int {
	switch action {
	case portfolio.Buy:
		if p.price <= 0 {
			return 0
		}
		return int(p.player.Cash / p.price)
	case portfolio.Sell:
		return p.player.Position
	default:
		return 0
	}
}

// View renders the panel.
func (p *TradingPanel) View() string {
	var content strings.Builder

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.PlayerColor(int(p.player.ID)))
	content.WriteString(nameStyle.Render(p.player.Name))
	content.WriteString(styles.LabelStyle.Render(fmt.Sprintf("  @ %s", styles.FormatMoney(p.price))))
	content.WriteString("\n\n")

	if !p.enabled {
		if p.player.ID != 0 && !p.player.Pending {
			content.WriteString(styles.SuccessStyle.Render("Decision submitted"))
		} else {
			content.WriteString(styles.LabelStyle.Render("Trading opens at the next decision point"))
		}
	} else {
		content.WriteString(p.renderForm())
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💱 Trade", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *TradingPanel) renderForm() string {
	var b strings.Builder

	// Action selector
	for i, a := range p.actions {
		label := " " + a.String() + " "
		var style lipgloss.Style
		switch {
		case i == p.actionIndex && a == portfolio.Buy:
			style = styles.BuyStyle
		case i == p.actionIndex && a == portfolio.Sell:
			style = styles.SellStyle
		case i == p.actionIndex:
			style = styles.HoldStyle
		default:
			style = styles.LabelStyle
		}
		if i == p.actionIndex {
			label = "[" + strings.TrimSpace(label) + "]"
		}
		b.WriteString(style.Render(label))
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	action := p.actions[p.actionIndex]
	if action != portfolio.Hold {
		max := p.maxQuantity(action)
		b.WriteString(styles.LabelStyle.Render(fmt.Sprintf("Qty (max %d): ", max)))
		b.WriteString(p.qtyInput.View())
		b.WriteString("\n")

		if n, err := strconv.Atoi(strings.TrimSpace(p.qtyInput.Value())); err == nil && n > 0 {
			value := float64(n) * p.price
			detail := fmt.Sprintf("Value %s", styles.FormatMoney(value))
			if action == portfolio.Buy {
				detail += fmt.Sprintf("  cash after: %s", styles.FormatMoney(p.player.Cash-value))
			} else {
				detail += fmt.Sprintf("  shares after: %d", p.player.Position-n)
			}
			b.WriteString(styles.LabelStyle.Render(detail))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBarKeyStyle.Render("←/→") + styles.StatusBarDescStyle.Render(" action "))
	b.WriteString(styles.StatusBarKeyStyle.Render("enter") + styles.StatusBarDescStyle.Render(" execute"))
	return b.String()
}
