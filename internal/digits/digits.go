// Package digits derives the per-digit display records of the frequency panel
// and the ring geometry of each gauge. Everything here is a pure function of a
// model.Snapshot.
package digits

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/tinytelemetry/digits/internal/model"
)

// NoDigit is returned by LastDigit when the tick counter has no trailing digit.
const NoDigit = -1

var (
	// ErrInvalidDigit is returned for percentage keys outside 0-9.
	ErrInvalidDigit = errors.New("digit out of range")
	// ErrNonFinite is returned for NaN or infinite numeric input.
	ErrNonFinite = errors.New("value is not finite")
)

// LastDigit returns the final decimal digit of the tick counter's text form.
// Negative counters use their final digit. Non-finite counters yield NoDigit.
func LastDigit(tick float64) int {
	if math.IsNaN(tick) || math.IsInf(tick, 0) {
		return NoDigit
	}
	text := numberText(tick)
	c := text[len(text)-1]
	if c < '0' || c > '9' {
		return NoDigit
	}
	return int(c - '0')
}

// numberText renders a float the way the data source prints counters: plain
// decimal between 1e-6 and 1e21, exponent form outside that range.
func numberText(x float64) string {
	abs := math.Abs(x)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(x, 'e', -1, 64)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// FormatPercentage formats p with one decimal place and a "%" suffix.
// Ties on the exact binary value round away from zero.
func FormatPercentage(p float64) string {
	switch {
	case math.IsNaN(p):
		return "NaN%"
	case math.IsInf(p, 1):
		return "Infinity%"
	case math.IsInf(p, -1):
		return "-Infinity%"
	case math.Abs(p) >= 1e21:
		return numberText(p) + "%"
	}

	x := new(big.Float).SetPrec(128).SetFloat64(math.Abs(p))
	x.Mul(x, big.NewFloat(10))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil)

	digits := n.String()
	if len(digits) < 2 {
		digits = "0" + digits
	}

	var b strings.Builder
	if p < 0 {
		b.WriteByte('-')
	}
	b.WriteString(digits[:len(digits)-1])
	b.WriteByte('.')
	b.WriteString(digits[len(digits)-1:])
	b.WriteByte('%')
	return b.String()
}

// Validate rejects snapshots the panel cannot draw: digit keys outside 0-9
// and non-finite numbers. Finite percentages outside 0-100 are accepted; the
// ring geometry clamps them.
func Validate(s model.Snapshot) error {
	if math.IsNaN(s.TickCounter) || math.IsInf(s.TickCounter, 0) {
		return fmt.Errorf("tick counter: %w", ErrNonFinite)
	}
	for d, p := range s.DigitPercentages {
		if d < 0 || d > 9 {
			return fmt.Errorf("digit %d: %w", d, ErrInvalidDigit)
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("digit %d percentage: %w", d, ErrNonFinite)
		}
	}
	return nil
}
