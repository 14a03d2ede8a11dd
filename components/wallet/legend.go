package wallet

// LegendRow is one entry of the spending legend next to the pie chart.
type LegendRow struct {
	Color   string `json:"color"`
	Label   string `json:"label"`
	Icon    string `json:"icon,omitempty"`
	Amount  string `json:"amount"`
	Percent string `json:"percent"`
}

// BuildLegend renders one row per category. Percentages are recomputed from
// the amounts so the legend always agrees with the drawn slices.
func BuildLegend(f *Formatter, categories []CategoryBreakdown) []LegendRow {
	f = normalizeFormatter(f)
	var total int64
	for _, cat := range categories {
		if cat.Amount > 0 {
			total += cat.Amount
		}
	}
	rows := make([]LegendRow, 0, len(categories))
	for _, cat := range categories {
		amount := cat.Amount
		if amount < 0 {
			amount = 0
		}
		rows = append(rows, LegendRow{
			Color:   cat.Color,
			Label:   cat.Name,
			Icon:    cat.Icon,
			Amount:  f.FormatCurrency(cat.Amount),
			Percent: percentOf(amount, total).StringFixed(1) + "%",
		})
	}
	return rows
}
