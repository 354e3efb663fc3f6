package digits

import "github.com/tinytelemetry/digits/internal/model"

// SnapshotReader is the read-only view of the tick-counter data source.
// The version increases on every published snapshot.
type SnapshotReader interface {
	Snapshot() (model.Snapshot, uint64)
}

// State is everything a renderer needs for one frame.
type State struct {
	Loading     bool          `json:"loading"`
	Version     uint64        `json:"version"`
	TickCounter float64       `json:"tick_counter"`
	LastDigit   int           `json:"last_digit"`
	Records     []DigitRecord `json:"records"`
	Rows        Rows          `json:"rows"`
}

// Panel is the root of the frequency panel. It reads from an injected source
// and never writes to it.
type Panel struct {
	src  SnapshotReader
	memo Memo
}

// NewPanel creates a panel reading from src.
func NewPanel(src SnapshotReader) *Panel {
	return &Panel{src: src}
}

// State reads the current snapshot and derives the frame state.
func (p *Panel) State() State {
	snap, version := p.src.Snapshot()
	st := StateOf(snap, &p.memo)
	st.Version = version
	return st
}

// StateOf derives the frame state for s. A nil memo derives without caching.
func StateOf(s model.Snapshot, memo *Memo) State {
	last := LastDigit(s.TickCounter)
	st := State{
		TickCounter: s.TickCounter,
		LastDigit:   last,
	}
	if s.Empty() {
		st.Loading = true
		return st
	}

	if memo != nil {
		st.Records = memo.Derive(s.DigitPercentages, last)
	} else {
		st.Records = Derive(s.DigitPercentages, last)
	}
	st.Rows = Layout(st.Records, last)
	return st
}
