package settlement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses user input into a positive amount. It accepts both
// "12.34" and "12,34", trims whitespace, and returns ErrInvalidAmount for
// empty, unparseable, or non-positive input. Pure validation, no I/O.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	amount, _ := d.Float64()
	return amount, nil
}
