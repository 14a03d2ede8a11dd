package wallet

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// HiddenBalance replaces the balance text while the balance is masked.
const HiddenBalance = "••••••••"

// Formatter renders rupiah amounts and counters using Indonesian grouping.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for the provided locale tag. An empty or
// unknown tag falls back to Indonesian.
func NewFormatter(locale string) *Formatter {
	tag := language.Indonesian
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

var defaultFormatter = NewFormatter("id-ID")

func normalizeFormatter(f *Formatter) *Formatter {
	if f == nil {
		return defaultFormatter
	}
	return f
}

// FormatNumber groups thousands, e.g. 1500000 -> "1.500.000".
func (f *Formatter) FormatNumber(v int64) string {
	return f.printer.Sprintf("%d", v)
}

// FormatCurrency renders an amount as "Rp 1.500.000".
func (f *Formatter) FormatCurrency(amount int64) string {
	return "Rp " + f.FormatNumber(amount)
}

// FormatPoints renders the loyalty balance, e.g. "1.250 pts".
func (f *Formatter) FormatPoints(points int) string {
	return f.FormatNumber(int64(points)) + " pts"
}

// FormatPercent renders one decimal place, e.g. "35.2%".
func (f *Formatter) FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// FormatCompact shortens large amounts for axis labels: "rb", "jt", "M".
func (f *Formatter) FormatCompact(amount int64) string {
	value := decimal.NewFromInt(amount)
	abs := value.Abs()
	var unit string
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		value, unit = value.Div(decimal.NewFromInt(1_000_000_000)), "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		value, unit = value.Div(decimal.NewFromInt(1_000_000)), "jt"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		value, unit = value.Div(decimal.NewFromInt(1_000)), "rb"
	default:
		return f.FormatNumber(amount)
	}
	text := strings.Replace(value.Round(2).String(), ".", ",", 1)
	return text + " " + unit
}

// percentOf returns part/total*100 rounded to one decimal. A zero total
// yields zero.
func percentOf(part, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(1)
}
