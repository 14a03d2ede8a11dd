package wallet

import (
	"context"
	"strings"
	"unicode"

	"github.com/ettle/strcase"
)

// ShellLegendRow is a legend row with a stable element id.
type ShellLegendRow struct {
	LegendRow
	ElementID string `json:"element_id"`
}

// Shell is the view model of the page shell.
type Shell struct {
	Theme         Theme              `json:"theme"`
	CSS           string             `json:"css"`
	Page          string             `json:"page"`
	Nav           []NavItem          `json:"nav"`
	Period        Period             `json:"period"`
	PeriodLabel   string             `json:"period_label"`
	Balance       string             `json:"balance"`
	Points        string             `json:"points"`
	Tier          string             `json:"tier"`
	BalanceHidden bool               `json:"balance_hidden"`
	Income        string             `json:"income"`
	Expense       string             `json:"expense"`
	Net           string             `json:"net"`
	Savings       string             `json:"savings"`
	Snapshot      Snapshot           `json:"snapshot"`
	Legend        []ShellLegendRow   `json:"legend"`
	Notifications []Notification     `json:"notifications"`
	Loading       LoadingState       `json:"loading"`
	Transactions  []TransactionRow   `json:"transactions"`
	Groups        []TransactionGroup `json:"groups"`
	Charts        map[string]bool    `json:"charts"`
}

// Shell assembles the current state of every manager for rendering.
func (s *Service) Shell(context.Context) (Shell, error) {
	f := s.opts.Formatter
	snapshot := s.Snapshot()
	palette := s.theme.Palette()
	account := s.wallet.Account()
	history := s.transactions.Search("")

	legend := s.Legend()
	rows := make([]ShellLegendRow, 0, len(legend))
	for _, row := range legend {
		rows = append(rows, ShellLegendRow{LegendRow: row, ElementID: elementID("legend", row.Label)})
	}

	charts := make(map[string]bool, 3)
	for _, id := range []string{SurfaceSpending, SurfaceTrend, SurfaceActivity} {
		charts[id] = s.painter.Visible(id)
	}

	return Shell{
		Theme:         palette.Theme,
		CSS:           palette.CSSVariablesInline(),
		Page:          string(s.pages.Current()),
		Nav:           s.pages.Nav(),
		Period:        snapshot.Period,
		PeriodLabel:   snapshot.Period.Label(),
		Balance:       s.wallet.BalanceText(),
		Points:        s.wallet.PointsText(),
		Tier:          s.wallet.TierText(),
		BalanceHidden: account.BalanceHidden,
		Income:        f.FormatCurrency(snapshot.Income),
		Expense:       f.FormatCurrency(snapshot.Expense),
		Net:           f.FormatCurrency(snapshot.Net),
		Savings:       f.FormatPercent(snapshot.Savings.Percentage),
		Snapshot:      snapshot,
		Legend:        rows,
		Notifications: s.notifications.Visible(),
		Loading:       s.loading.State(),
		Transactions:  history.Rows,
		Groups:        history.Groups,
		Charts:        charts,
	}, nil
}

// elementID builds a kebab-case DOM id, dropping symbols such as "&".
func elementID(prefix, label string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, label)
	return prefix + "-" + strcase.ToKebab(strings.Join(strings.Fields(cleaned), " "))
}
