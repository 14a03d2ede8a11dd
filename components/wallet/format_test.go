package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatterCurrencyAndNumbers(t *testing.T) {
	f := NewFormatter("id-ID")

	assert.Equal(t, "1.500.000", f.FormatNumber(1500000))
	assert.Equal(t, "Rp 2.500.000", f.FormatCurrency(2500000))
	assert.Equal(t, "Rp 0", f.FormatCurrency(0))
	assert.Equal(t, "1.250 pts", f.FormatPoints(1250))
	assert.Equal(t, "35.2%", f.FormatPercent(35.2))
	assert.Equal(t, "47.5%", f.FormatPercent(47.5))
}

func TestFormatterCompact(t *testing.T) {
	f := NewFormatter("")

	assert.Equal(t, "8,75 jt", f.FormatCompact(8750000))
	assert.Equal(t, "105 jt", f.FormatCompact(105000000))
	assert.Equal(t, "850 rb", f.FormatCompact(850000))
	assert.Equal(t, "1,5 M", f.FormatCompact(1500000000))
	assert.Equal(t, "999", f.FormatCompact(999))
}

func TestPercentOfGuardsZeroTotal(t *testing.T) {
	assert.True(t, percentOf(10, 0).IsZero())
	assert.Equal(t, "35.2", percentOf(1850000, 5250000).StringFixed(1))
}
