package digits

import (
	"errors"
	"math"
	"testing"

	"github.com/tinytelemetry/digits/internal/model"
)

func TestLastDigit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tick float64
		want int
	}{
		{"zero", 0, 0},
		{"integer", 1234567890, 0},
		{"ends in seven", 4417, 7},
		{"negative", -23, 3},
		{"fraction", 12.5, 5},
		{"large exponent", 1e21, 1},
		{"tiny exponent", 1.5e-7, 7},
		{"nan", math.NaN(), NoDigit},
		{"positive infinity", math.Inf(1), NoDigit},
		{"negative infinity", math.Inf(-1), NoDigit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := LastDigit(tt.tick); got != tt.want {
				t.Fatalf("LastDigit(%v) = %d, want %d", tt.tick, got, tt.want)
			}
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0%"},
		{10, "10.0%"},
		{12.34, "12.3%"},
		{9.96, "10.0%"},
		{0.25, "0.3%"},
		{1.25, "1.3%"},
		{0.15, "0.1%"},
		{100, "100.0%"},
		{-1.25, "-1.3%"},
		{-0.01, "-0.0%"},
		{math.NaN(), "NaN%"},
		{math.Inf(1), "Infinity%"},
	}

	for _, tt := range tests {
		if got := FormatPercentage(tt.in); got != tt.want {
			t.Errorf("FormatPercentage(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	ok := model.Snapshot{TickCounter: 42, DigitPercentages: map[int]float64{0: 10, 9: 150}}
	if err := Validate(ok); err != nil {
		t.Fatalf("Validate(out-of-range percentage) = %v, want nil", err)
	}

	badDigit := model.Snapshot{DigitPercentages: map[int]float64{10: 5}}
	if err := Validate(badDigit); !errors.Is(err, ErrInvalidDigit) {
		t.Fatalf("Validate(digit 10) = %v, want ErrInvalidDigit", err)
	}

	nanPct := model.Snapshot{DigitPercentages: map[int]float64{3: math.NaN()}}
	if err := Validate(nanPct); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("Validate(NaN percentage) = %v, want ErrNonFinite", err)
	}

	infTick := model.Snapshot{TickCounter: math.Inf(1)}
	if err := Validate(infTick); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("Validate(Inf tick) = %v, want ErrNonFinite", err)
	}
}
