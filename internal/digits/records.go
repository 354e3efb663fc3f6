package digits

import (
	"fmt"

	"github.com/tinytelemetry/digits/internal/model"
)

// Fill selects which of the three ring colors a gauge uses.
type Fill int

const (
	FillDefault Fill = iota
	FillMin
	FillMax
)

func (f Fill) String() string {
	switch f {
	case FillMin:
		return "min"
	case FillMax:
		return "max"
	default:
		return "default"
	}
}

// MarshalText encodes the fill by name.
func (f Fill) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a fill name.
func (f *Fill) UnmarshalText(text []byte) error {
	switch string(text) {
	case "default":
		*f = FillDefault
	case "min":
		*f = FillMin
	case "max":
		*f = FillMax
	default:
		return fmt.Errorf("unknown fill %q", text)
	}
	return nil
}

// DigitRecord is the display record of one digit. Records are rebuilt on every
// data change and never mutated.
type DigitRecord struct {
	ID            int     `json:"id"`
	Value         string  `json:"value"`
	IsHighlighted bool    `json:"is_highlighted"`
	Percentage    float64 `json:"percentage"`
	Fill          Fill    `json:"fill"`
}

// Derive builds one record per digit present in pcts, ascending by digit.
// The first digit holding the lowest percentage gets FillMin, the first
// holding the highest gets FillMax; when one digit is both, FillMin wins.
// lastDigit marks the highlighted record; pass NoDigit for none.
// An empty map yields nil.
func Derive(pcts map[int]float64, lastDigit int) []DigitRecord {
	if len(pcts) == 0 {
		return nil
	}

	ids := model.Snapshot{DigitPercentages: pcts}.Digits()

	minID, maxID := ids[0], ids[0]
	for _, id := range ids[1:] {
		if pcts[id] < pcts[minID] {
			minID = id
		}
		if pcts[id] > pcts[maxID] {
			maxID = id
		}
	}

	records := make([]DigitRecord, 0, len(ids))
	for _, id := range ids {
		p := pcts[id]
		fill := FillDefault
		if id == minID {
			fill = FillMin
		} else if id == maxID {
			fill = FillMax
		}
		records = append(records, DigitRecord{
			ID:            id,
			Value:         FormatPercentage(p),
			IsHighlighted: lastDigit != NoDigit && id == lastDigit,
			Percentage:    p,
			Fill:          fill,
		})
	}
	return records
}
