// Package snapshot decodes and encodes the newline-delimited JSON snapshots
// published by the tick-counter data source.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/tinytelemetry/digits/internal/model"
)

// ErrInvalidSnapshot wraps every decode failure.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Wire is the JSON shape of one snapshot line. The camelCase keys are
// accepted as aliases on decode.
type Wire struct {
	TickCounter      *float64           `json:"tick_counter,omitempty"`
	DigitPercentages map[string]float64 `json:"digit_percentages,omitempty"`

	TickCounterAlt      *float64           `json:"tickCounter,omitempty"`
	DigitPercentagesAlt map[string]float64 `json:"digitPercentages,omitempty"`
}

// Decode parses one JSON snapshot line.
func Decode(line string) (model.Snapshot, error) {
	return DecodeBytes([]byte(line))
}

// DecodeBytes parses one JSON snapshot. Anything after the object other
// than whitespace is an error.
func DecodeBytes(data []byte) (model.Snapshot, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return w.Snapshot()
}

// Snapshot converts the wire form to the model.
func (w Wire) Snapshot() (model.Snapshot, error) {
	var snap model.Snapshot

	switch {
	case w.TickCounter != nil:
		snap.TickCounter = *w.TickCounter
	case w.TickCounterAlt != nil:
		snap.TickCounter = *w.TickCounterAlt
	default:
		return snap, fmt.Errorf("%w: missing tick_counter", ErrInvalidSnapshot)
	}

	raw := w.DigitPercentages
	if raw == nil {
		raw = w.DigitPercentagesAlt
	}
	if len(raw) == 0 {
		return snap, nil
	}

	snap.DigitPercentages = make(map[int]float64, len(raw))
	for key, pct := range raw {
		d, err := parseDigitKey(key)
		if err != nil {
			return model.Snapshot{}, err
		}
		snap.DigitPercentages[d] = pct
	}
	return snap, nil
}

// parseDigitKey accepts exactly one ASCII digit. Padded keys such as " 3"
// would collide with "3" and make the decoded value depend on map order.
func parseDigitKey(key string) (int, error) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, fmt.Errorf("%w: digit key %q", ErrInvalidSnapshot, key)
	}
	return int(key[0] - '0'), nil
}

// Encode renders s as one JSON line without the trailing newline. Digit keys
// are written in ascending order.
func Encode(s model.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"tick_counter":`)
	tick, err := json.Marshal(s.TickCounter)
	if err != nil {
		return nil, fmt.Errorf("encode tick counter: %w", err)
	}
	buf.Write(tick)

	if !s.Empty() {
		buf.WriteString(`,"digit_percentages":{`)
		digits := make([]int, 0, len(s.DigitPercentages))
		for d := range s.DigitPercentages {
			digits = append(digits, d)
		}
		sort.Ints(digits)
		for i, d := range digits {
			if i > 0 {
				buf.WriteByte(',')
			}
			pct, err := json.Marshal(s.DigitPercentages[d])
			if err != nil {
				return nil, fmt.Errorf("encode digit %d: %w", d, err)
			}
			buf.WriteString(strconv.Quote(strconv.Itoa(d)))
			buf.WriteByte(':')
			buf.Write(pct)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
