package digits

// Palette holds the panel colors as CSS hex strings.
type Palette struct {
	Default   string `yaml:"default" json:"default"`
	Min       string `yaml:"min" json:"min"`
	Max       string `yaml:"max" json:"max"`
	Highlight string `yaml:"highlight" json:"highlight"`
	Card      string `yaml:"card" json:"card"`
	Panel     string `yaml:"panel" json:"panel"`
	Gauge     string `yaml:"gauge" json:"gauge"`
	Track     string `yaml:"track" json:"track"`
	Text      string `yaml:"text" json:"text"`
	Muted     string `yaml:"muted" json:"muted"`
}

// DefaultPalette returns the stock colors.
func DefaultPalette() Palette {
	return Palette{
		Default:   "#4BB4B3",
		Min:       "#FF444F",
		Max:       "#7A91FF",
		Highlight: "#FF444F",
		Card:      "#0E0E2C",
		Panel:     "#15153B",
		Gauge:     "#2A3052",
		Track:     "#3B4163",
		Text:      "#FFFFFF",
		Muted:     "#6B7280",
	}
}

// FillColor resolves a Fill to its color.
func (p Palette) FillColor(f Fill) string {
	switch f {
	case FillMin:
		return p.Min
	case FillMax:
		return p.Max
	default:
		return p.Default
	}
}

// Merge returns p with every non-empty field of o applied on top.
func (p Palette) Merge(o Palette) Palette {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Palette{
		Default:   pick(p.Default, o.Default),
		Min:       pick(p.Min, o.Min),
		Max:       pick(p.Max, o.Max),
		Highlight: pick(p.Highlight, o.Highlight),
		Card:      pick(p.Card, o.Card),
		Panel:     pick(p.Panel, o.Panel),
		Gauge:     pick(p.Gauge, o.Gauge),
		Track:     pick(p.Track, o.Track),
		Text:      pick(p.Text, o.Text),
		Muted:     pick(p.Muted, o.Muted),
	}
}
