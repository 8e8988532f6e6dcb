package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/papertrade/internal/series"
	"github.com/zappabad/papertrade/tui/styles"
)

// ChartPanel displays the price series progressively: only days up to the
// current index are drawn, future days stay masked so players cannot peek.
type ChartPanel struct {
	visible     []series.Point
	total       int
	currentIdx  int
	breakpoints map[int]bool

	focused bool
	width   int
	height  int
}

// NewChartPanel creates a new progressive price chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{breakpoints: make(map[int]bool)}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// SetData feeds the panel the revealed prefix of the series.
func (p *ChartPanel) SetData(visible []series.Point, total, currentIdx int, breakpoints []int) {
	p.visible = visible
	p.total = total
	p.currentIdx = currentIdx
	p.breakpoints = make(map[int]bool, len(breakpoints))
	for _, bp := range breakpoints {
		p.breakpoints[bp] = true
	}
}

// SetFocus sets the focus state.
func (p *ChartPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *ChartPanel) View() string {
	var content strings.Builder

	chartWidth := p.width - 6
	chartHeight := p.height - 7
	if chartHeight < 5 {
		chartHeight = 5
	}

	if len(p.visible) == 0 {
		content.WriteString(styles.ChartLabelStyle.Render("No data yet..."))
	} else {
		content.WriteString(p.renderChart(chartWidth, chartHeight))
		content.WriteString("\n")
		content.WriteString(p.renderFooter())
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Price", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) renderChart(width, height int) string {
	// Reserve space for the price axis.
	plotWidth := width - 10
	if plotWidth < 10 {
		plotWidth = 10
	}

	// One column per day across the whole series, so the masked region stays
	// visibly empty on the right. Downsample when the series is wider than
	// the panel.
	step := 1
	cols := p.total
	if cols > plotWidth {
		step = (p.total + plotWidth - 1) / plotWidth
		cols = (p.total + step - 1) / step
	}

	lo, hi := p.priceRange()
	if hi == lo {
		hi = lo + 1
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = make([]rune, cols)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	for _, pt := range p.visible {
		col := pt.Index / step
		if col >= cols {
			col = cols - 1
		}
		row := int(float64(height-1) * (hi - pt.Price) / (hi - lo))
		if row < 0 {
			row = 0
		}
		if row >= height {
			row = height - 1
		}
		mark := '·'
		if p.breakpoints[pt.Index] {
			mark = '◆'
		}
		if pt.Index == p.currentIdx {
			mark = '●'
		}
		grid[row][col] = mark
	}

	var b strings.Builder
	for r, rowRunes := range grid {
		label := "        "
		switch r {
		case 0:
			label = fmt.Sprintf("%8.2f", hi)
		case height - 1:
			label = fmt.Sprintf("%8.2f", lo)
		}
		b.WriteString(styles.ChartAxisStyle.Render(label + " │"))
		b.WriteString(styles.ChartLineStyle.Render(string(rowRunes)))
		if r < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (p *ChartPanel) renderFooter() string {
	last := p.visible[len(p.visible)-1]
	cur := fmt.Sprintf("Day %d/%d  %s  %s",
		p.currentIdx+1, p.total,
		last.Date.Format("2006-01-02"),
		styles.FormatMoney(last.Price))

	legend := styles.ChartLabelStyle.Render("· price  ") +
		styles.BreakpointStyle.Render("◆ decision point  ") +
		styles.ChartLineStyle.Render("● today")

	return styles.ChartLabelStyle.Render(cur) + "\n" + legend
}

func (p *ChartPanel) priceRange() (lo, hi float64) {
	lo, hi = p.visible[0].Price, p.visible[0].Price
	for _, pt := range p.visible[1:] {
		if pt.Price < lo {
			lo = pt.Price
		}
		if pt.Price > hi {
			hi = pt.Price
		}
	}
	return lo, hi
}
