package digits

import "math"

// Ring geometry in the gauge's 50x50 local coordinate space.
const (
	ViewBox     = 50
	Center      = 25
	Radius      = 20
	StrokeWidth = 6
	// StartAngle rotates the stroke so the ring fills clockwise from 12 o'clock.
	StartAngle = -90
)

// Circumference of the ring.
var Circumference = 2 * math.Pi * Radius

// Gauge is a DigitRecord placed in the layout.
type Gauge struct {
	DigitRecord
	IsPointer bool `json:"is_pointer"`
}

// ClampPercent bounds p to [0, 100]. NaN maps to 0.
func ClampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// FilledLength is the arc length drawn for the gauge's percentage.
func (g Gauge) FilledLength() float64 {
	return ClampPercent(g.Percentage) / 100 * Circumference
}

// DashOffset is the stroke dash offset that leaves FilledLength visible.
func (g Gauge) DashOffset() float64 {
	return Circumference - g.FilledLength()
}

// Fraction is the filled share of the ring in [0, 1].
func (g Gauge) Fraction() float64 {
	return ClampPercent(g.Percentage) / 100
}
