package model

import "sort"

// Snapshot is one reading of the tick-counter data source: the latest tick
// counter and the observed frequency percentage of each digit 0-9.
type Snapshot struct {
	TickCounter      float64
	DigitPercentages map[int]float64
}

// Empty reports whether the snapshot carries no digit percentages yet.
func (s Snapshot) Empty() bool {
	return len(s.DigitPercentages) == 0
}

// Digits returns the digit keys present in the snapshot in ascending order.
// Every consumer iterates percentages in this order.
func (s Snapshot) Digits() []int {
	digits := make([]int, 0, len(s.DigitPercentages))
	for d := range s.DigitPercentages {
		digits = append(digits, d)
	}
	sort.Ints(digits)
	return digits
}

// Clone returns a deep copy so readers never share the percentage map.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{TickCounter: s.TickCounter}
	if s.DigitPercentages != nil {
		out.DigitPercentages = make(map[int]float64, len(s.DigitPercentages))
		for d, p := range s.DigitPercentages {
			out.DigitPercentages[d] = p
		}
	}
	return out
}
