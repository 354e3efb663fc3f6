package digits

import (
	"maps"
	"sync"
)

// Memo caches the last Derive result and returns it while the inputs stay
// value-equal. Safe for concurrent use.
type Memo struct {
	mu        sync.Mutex
	valid     bool
	pcts      map[int]float64
	lastDigit int
	records   []DigitRecord
}

// Derive returns Derive(pcts, lastDigit), reusing the cached records when the
// inputs match the previous call.
func (m *Memo) Derive(pcts map[int]float64, lastDigit int) []DigitRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.lastDigit == lastDigit && maps.Equal(m.pcts, pcts) {
		return m.records
	}

	m.pcts = maps.Clone(pcts)
	m.lastDigit = lastDigit
	m.records = Derive(pcts, lastDigit)
	m.valid = true
	return m.records
}
