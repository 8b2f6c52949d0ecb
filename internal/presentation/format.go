package presentation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
)

// Formatter renders amounts and dates for a specific locale. Supported
// locales are "en", "es" and "pt"; anything else falls back to "en".
type Formatter struct {
	Locale string
}

// NewFormatter returns a Formatter for the given locale.
func NewFormatter(locale string) *Formatter {
	return &Formatter{Locale: locale}
}

// Amount renders a monetary amount rounded to two decimals with the
// locale's currency symbol and decimal separator.
func (f *Formatter) Amount(amount float64) string {
	fixed := decimal.NewFromFloat(amount).StringFixed(2)
	switch f.Locale {
	case "es", "pt":
		return strings.Replace(fixed, ".", ",", 1) + " €"
	default:
		return "$" + fixed
	}
}

// Date renders a date stored in models.DateLayout for the locale. If the
// input does not parse it is returned unchanged.
func (f *Formatter) Date(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	switch f.Locale {
	case "es", "pt":
		return t.Format("02/01/2006")
	default:
		return t.Format("01/02/2006")
	}
}
