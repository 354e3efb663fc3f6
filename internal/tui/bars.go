package tui

import (
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/digits/internal/digits"
)

// BarsPage shows the digit percentages as a bar chart.
type BarsPage struct {
	d *Dashboard
}

// NewBarsPage creates the bar chart page.
func NewBarsPage(d *Dashboard) *BarsPage {
	return &BarsPage{d: d}
}

func (p *BarsPage) ID() string    { return PageBars }
func (p *BarsPage) Init() tea.Cmd { return p.d.Init() }

func (p *BarsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if handled, cmd := p.d.update(msg); handled {
		return cmd, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		return nil, navFor(p.d, msg, PageBars)
	}
	return nil, nil
}

func (p *BarsPage) View(width, height int) string {
	d := p.d
	bodyH := d.bodyHeight(height)

	if d.state.Loading {
		return d.frameView(renderLoadingPlaceholder(d.styles, width, bodyH), height)
	}

	chart := renderBars(d.styles, d.state.Records, width-4, bodyH-4)
	body := lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, chart)
	return d.frameView(body, height)
}

// barLayout sizes bars so ten of them fill width.
func barLayout(width int) (barWidth, gap int) {
	gap = 1
	barWidth = (width - (len(digitLabels)-1)*gap) / len(digitLabels)
	if barWidth < 1 {
		barWidth = 1
	}
	if barWidth > 6 {
		barWidth = 6
		gap = 2
	}
	return barWidth, gap
}

var digitLabels = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// renderBars draws one bar per record in its fill color, with the digit and
// value beneath. The highlighted digit's label uses the pointer style.
func renderBars(s Styles, records []digits.DigitRecord, width, height int) string {
	if len(records) == 0 {
		return s.Muted.Render("No data available")
	}

	barWidth, gap := barLayout(width)
	chartWidth := len(records)*barWidth + (len(records)-1)*gap
	chartHeight := max(3, height-3)

	bc := newPercentChart(chartWidth, chartHeight, barWidth, gap)
	for _, r := range records {
		bc.Push(barchart.BarData{
			Label: strconv.Itoa(r.ID),
			Values: []barchart.BarValue{
				{Name: strconv.Itoa(r.ID), Value: digits.ClampPercent(r.Percentage), Style: s.Fill(r.Fill)},
			},
		})
	}
	bc.Draw()

	cell := barWidth + gap
	var labels, values strings.Builder
	for i, r := range records {
		label := lipgloss.PlaceHorizontal(barWidth, lipgloss.Center, strconv.Itoa(r.ID))
		if r.IsHighlighted {
			label = s.Pointer.Render(label)
		} else {
			label = s.Digit.Render(label)
		}
		labels.WriteString(label)

		value := strings.TrimSuffix(r.Value, "%")
		if len(value) > cell && i < len(records)-1 {
			value = value[:cell]
		}
		values.WriteString(s.Value.Render(padRight(value, cell)))

		if i < len(records)-1 {
			labels.WriteString(strings.Repeat(" ", gap))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), labels.String(), values.String())
}

// newPercentChart fixes the scale at 0-100 so bar heights read like the ring
// fills instead of stretching to the tallest bar.
func newPercentChart(width, height, barWidth, gap int) barchart.Model {
	return barchart.New(width, height,
		barchart.WithBarGap(gap),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
		barchart.WithMaxValue(100),
		barchart.WithNoAutoMaxValue(),
	)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
