package digits

import (
	"testing"

	"github.com/tinytelemetry/digits/internal/model"
)

type staticReader struct {
	snap    model.Snapshot
	version uint64
}

func (r *staticReader) Snapshot() (model.Snapshot, uint64) { return r.snap, r.version }

func TestPanel_LoadingWithoutData(t *testing.T) {
	t.Parallel()

	p := NewPanel(&staticReader{snap: model.Snapshot{TickCounter: 12}})
	st := p.State()

	if !st.Loading {
		t.Fatal("State().Loading = false, want true")
	}
	if len(st.Records) != 0 || len(st.Rows.Gauges()) != 0 {
		t.Fatalf("loading state has %d records, want 0", len(st.Records))
	}
}

func TestPanel_DataPresent(t *testing.T) {
	t.Parallel()

	src := &staticReader{
		snap: model.Snapshot{
			TickCounter:      1234567890,
			DigitPercentages: tenDigits(4, 10, 10, 10, 10, 10, 10, 16, 10, 10),
		},
		version: 3,
	}
	p := NewPanel(src)
	st := p.State()

	if st.Loading {
		t.Fatal("State().Loading = true, want false")
	}
	if st.Version != 3 {
		t.Fatalf("Version = %d, want 3", st.Version)
	}
	if st.LastDigit != 0 {
		t.Fatalf("LastDigit = %d, want 0", st.LastDigit)
	}
	g := st.Rows.At(0)
	if g == nil || !g.IsPointer || !g.IsHighlighted || g.Fill != FillMin {
		t.Fatalf("gauge 0 = %+v, want pointer, highlighted, min", g)
	}
}

func TestMemo_ReusesRecordsForEqualInputs(t *testing.T) {
	t.Parallel()

	var m Memo
	first := m.Derive(tenDigits(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), 2)
	second := m.Derive(tenDigits(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), 2)
	if &first[0] != &second[0] {
		t.Fatal("Memo.Derive recomputed for equal inputs")
	}

	third := m.Derive(tenDigits(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), 3)
	if &first[0] == &third[0] {
		t.Fatal("Memo.Derive reused records after last digit changed")
	}
	if !third[3].IsHighlighted {
		t.Fatal("digit 3 not highlighted after recompute")
	}
}

func TestPalette_Merge(t *testing.T) {
	t.Parallel()

	p := DefaultPalette().Merge(Palette{Max: "#00FF00"})
	if p.Max != "#00FF00" {
		t.Fatalf("Max = %q, want override", p.Max)
	}
	if p.Min != DefaultPalette().Min {
		t.Fatalf("Min = %q, want default", p.Min)
	}
	if got := p.FillColor(FillDefault); got != "#4BB4B3" {
		t.Fatalf("FillColor(default) = %q", got)
	}
}
