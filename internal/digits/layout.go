package digits

// Grid dimensions: two rows of five gauges.
const (
	GridRows = 2
	GridCols = 5
)

// Rows places gauges by digit: row 0 holds digits 0-4, row 1 digits 5-9.
// A slot is nil when its digit is missing from the data.
type Rows [GridRows][GridCols]*Gauge

// Layout positions each record by its digit id, independent of slice order,
// and marks the gauge under the pointer.
func Layout(records []DigitRecord, pointer int) Rows {
	var rows Rows
	for _, r := range records {
		if r.ID < 0 || r.ID >= GridRows*GridCols {
			continue
		}
		g := &Gauge{
			DigitRecord: r,
			IsPointer:   pointer != NoDigit && r.ID == pointer,
		}
		rows[r.ID/GridCols][r.ID%GridCols] = g
	}
	return rows
}

// Gauges returns the occupied slots in digit order.
func (r Rows) Gauges() []*Gauge {
	var out []*Gauge
	for _, row := range r {
		for _, g := range row {
			if g != nil {
				out = append(out, g)
			}
		}
	}
	return out
}

// At returns the gauge for digit id, or nil.
func (r Rows) At(id int) *Gauge {
	if id < 0 || id >= GridRows*GridCols {
		return nil
	}
	return r[id/GridCols][id%GridCols]
}
