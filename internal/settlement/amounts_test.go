package settlement

import (
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"plain", "12.34", 12.34, false},
		{"integer", "40", 40.0, false},
		{"comma decimal", "12,34", 12.34, false},
		{"surrounding whitespace", "  5.00 ", 5.0, false},
		{"empty", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"garbage", "abc", 0, true},
		{"trailing garbage", "12x", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-3.50", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) failed: %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
