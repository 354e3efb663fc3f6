// Package render draws the frequency panel as a standalone SVG document using
// the exact ring geometry of the digits package.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/tinytelemetry/digits/internal/digits"
)

// Pixel layout of the panel.
const (
	CellSize  = 64
	ColGap    = 48
	RowGap    = 40
	Padding   = 32
	CardInset = 8
)

// LoadingText is shown while the data source has not produced percentages.
const LoadingText = "Loading data..."

// SVG renders panel frames as SVG.
type SVG struct {
	palette digits.Palette
}

// NewSVG creates a renderer using palette p.
func NewSVG(p digits.Palette) *SVG {
	return &SVG{palette: p}
}

type svgGauge struct {
	ID          int
	Value       string
	Transform   string
	Fill        string
	FillClass   string
	DashArray   string
	DashOffset  string
	Highlighted bool
	Pointer     bool
}

type svgFrame struct {
	Width, Height           int
	PanelWidth, PanelHeight int
	Loading                 bool
	LoadingText             string
	Palette                 digits.Palette
	Gauges                  []svgGauge
	Center, Radius, Stroke  int
	GlassRadius             string
	StartAngle              int
}

// Size returns the document size in pixels.
func Size() (width, height int) {
	gridW := digits.GridCols*CellSize + (digits.GridCols-1)*ColGap
	gridH := digits.GridRows*CellSize + (digits.GridRows-1)*RowGap
	return gridW + 2*Padding + 2*CardInset, gridH + 2*Padding + 2*CardInset
}

// Render writes the SVG document for st to w.
func (s *SVG) Render(w io.Writer, st digits.State) error {
	width, height := Size()
	frame := svgFrame{
		Width:       width,
		Height:      height,
		PanelWidth:  width - 2*CardInset,
		PanelHeight: height - 2*CardInset,
		Loading:     st.Loading,
		LoadingText: LoadingText,
		Palette:     s.palette,
		Center:      digits.Center,
		Radius:      digits.Radius,
		Stroke:      digits.StrokeWidth,
		GlassRadius: num(digits.ViewBox * 0.35),
		StartAngle:  digits.StartAngle,
	}

	if !st.Loading {
		scale := float64(CellSize) / digits.ViewBox
		for row := range st.Rows {
			for col, g := range st.Rows[row] {
				if g == nil {
					continue
				}
				x := CardInset + Padding + col*(CellSize+ColGap)
				y := CardInset + Padding + row*(CellSize+RowGap)
				frame.Gauges = append(frame.Gauges, svgGauge{
					ID:          g.ID,
					Value:       g.Value,
					Transform:   fmt.Sprintf("translate(%d %d) scale(%s)", x, y, num(scale)),
					Fill:        s.palette.FillColor(g.Fill),
					FillClass:   g.Fill.String(),
					DashArray:   num(digits.Circumference),
					DashOffset:  num(g.DashOffset()),
					Highlighted: g.IsHighlighted,
					Pointer:     g.IsPointer,
				})
			}
		}
	}

	if err := svgTemplate.Execute(w, frame); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}

// String renders st to a string.
func (s *SVG) String(st digits.State) (string, error) {
	var buf bytes.Buffer
	if err := s.Render(&buf, st); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// num formats a coordinate with at most four decimals.
func num(v float64) string {
	out := strconv.FormatFloat(v, 'f', 4, 64)
	out = strings.TrimRight(out, "0")
	out = strings.TrimSuffix(out, ".")
	if out == "-0" {
		return "0"
	}
	return out
}

var svgTemplate = template.Must(template.New("panel").Funcs(template.FuncMap{
	"xml": template.HTMLEscapeString,
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<defs>
<radialGradient id="glass" cx="50%" cy="50%" r="50%">
<stop offset="0%" stop-color="#FFFFFF" stop-opacity="0.15"/>
<stop offset="70%" stop-color="#FFFFFF" stop-opacity="0.03"/>
</radialGradient>
<filter id="shadow" x="-10%" y="-10%" width="120%" height="130%">
<feDropShadow dx="0" dy="4" stdDeviation="10" flood-color="#000000" flood-opacity="0.3"/>
</filter>
</defs>
<style>
.gauge .face{transition:transform .3s ease-in-out;transform-origin:{{.Center}}px {{.Center}}px}
.gauge:not(.highlighted):hover .face{transform:scale(1.05)}
.gauge.highlighted .face{transform:scale(1.1)}
</style>
{{- if .Loading}}
<text class="loading" x="{{.Width}}" y="{{.Height}}" transform="scale(0.5)" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="14" fill="{{xml .Palette.Muted}}">{{xml .LoadingText}}</text>
{{- else}}
<rect class="card" x="0" y="0" width="{{.Width}}" height="{{.Height}}" rx="12" fill="{{xml .Palette.Card}}" filter="url(#shadow)"/>
<rect class="panel" x="8" y="8" width="{{.PanelWidth}}" height="{{.PanelHeight}}" rx="12" fill="{{xml .Palette.Panel}}"/>
{{- range .Gauges}}
<g class="gauge{{if .Highlighted}} highlighted{{end}}" data-digit="{{.ID}}" data-fill="{{.FillClass}}" transform="{{.Transform}}">
<g class="face">
<circle class="body" cx="{{$.Center}}" cy="{{$.Center}}" r="25" fill="{{xml $.Palette.Gauge}}"/>
<circle class="track" cx="{{$.Center}}" cy="{{$.Center}}" r="{{$.Radius}}" fill="transparent" stroke="rgba(255,255,255,0.08)" stroke-width="{{$.Stroke}}"/>
<circle class="ring" cx="{{$.Center}}" cy="{{$.Center}}" r="{{$.Radius}}" fill="transparent" stroke="{{xml .Fill}}" stroke-width="{{$.Stroke}}" stroke-dasharray="{{.DashArray}}" stroke-dashoffset="{{.DashOffset}}" stroke-linecap="round" transform="rotate({{$.StartAngle}} {{$.Center}} {{$.Center}})" style="filter: drop-shadow(0 0 4px {{xml .Fill}})"/>
<circle class="glass" cx="{{$.Center}}" cy="{{$.Center}}" r="{{$.GlassRadius}}" fill="url(#glass)"/>
{{- if .Highlighted}}
<circle class="highlight" cx="{{$.Center}}" cy="{{$.Center}}" r="26" fill="none" stroke="{{xml $.Palette.Highlight}}" stroke-width="2"/>
{{- end}}
<text class="digit" x="{{$.Center}}" y="23" text-anchor="middle" font-family="sans-serif" font-size="9" font-weight="bold" fill="{{xml $.Palette.Text}}">{{.ID}}</text>
<text class="value" x="{{$.Center}}" y="33" text-anchor="middle" font-family="sans-serif" font-size="6" fill="{{xml $.Palette.Text}}" fill-opacity="0.8">{{xml .Value}}</text>
</g>
{{- if .Pointer}}
<polygon class="pointer" points="19,54 31,54 25,62" fill="{{xml $.Palette.Highlight}}" style="filter: drop-shadow(0 0 4px {{xml $.Palette.Highlight}})">
<animateTransform attributeName="transform" type="translate" values="0 0;0 -4;0 0" dur="1s" repeatCount="indefinite"/>
</polygon>
{{- end}}
</g>
{{- end}}
{{- end}}
</svg>
`))
