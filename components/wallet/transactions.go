package wallet

import "strings"

// TransactionType is the category-type attribute used by the history filter.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is one static row of the history page.
type Transaction struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Type     TransactionType `json:"type"`
	Amount   int64           `json:"amount"`
	Group    string          `json:"group"`
	Icon     string          `json:"icon,omitempty"`
}

// TransactionRow pairs a row with its visibility.
type TransactionRow struct {
	Transaction
	Visible bool `json:"visible"`
}

// TransactionGroup is a date heading; it hides when none of its rows show.
type TransactionGroup struct {
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

// TransactionView is the visibility state after a search or filter.
type TransactionView struct {
	Rows   []TransactionRow   `json:"rows"`
	Groups []TransactionGroup `json:"groups"`
	Filter string             `json:"filter,omitempty"`
}

// VisibleRows returns only the rows currently shown.
func (v TransactionView) VisibleRows() []Transaction {
	out := make([]Transaction, 0, len(v.Rows))
	for _, row := range v.Rows {
		if row.Visible {
			out = append(out, row.Transaction)
		}
	}
	return out
}

// Totals sums the visible income and expense amounts.
func (v TransactionView) Totals() (income, expense int64) {
	for _, row := range v.Rows {
		if !row.Visible {
			continue
		}
		switch row.Type {
		case TransactionIncome:
			income += row.Amount
		case TransactionExpense:
			expense += row.Amount
		}
	}
	return income, expense
}

// TransactionList answers search and filter requests over static rows. It
// never mutates the rows.
type TransactionList struct {
	rows []Transaction
}

// NewTransactionList copies rows into a list.
func NewTransactionList(rows []Transaction) *TransactionList {
	return &TransactionList{rows: append([]Transaction(nil), rows...)}
}

// Rows returns a copy of the rows.
func (l *TransactionList) Rows() []Transaction {
	return append([]Transaction(nil), l.rows...)
}

// Search shows rows whose title or subtitle contains term, ignoring case.
// An empty term shows everything.
func (l *TransactionList) Search(term string) TransactionView {
	needle := strings.ToLower(term)
	return l.view("", func(tx Transaction) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(tx.Title), needle) ||
			strings.Contains(strings.ToLower(tx.Subtitle), needle)
	})
}

// Filter shows rows of the given type; "all" shows every row and unknown
// values hide every row.
func (l *TransactionList) Filter(kind string) TransactionView {
	return l.view(kind, func(tx Transaction) bool {
		return kind == "all" || string(tx.Type) == kind
	})
}

// FilterMonth shows every row. Rows carry no dates yet, so month selection
// leaves the list untouched.
func (l *TransactionList) FilterMonth(string) TransactionView {
	return l.view("", func(Transaction) bool { return true })
}

func (l *TransactionList) view(filter string, match func(Transaction) bool) TransactionView {
	view := TransactionView{Filter: filter, Rows: make([]TransactionRow, 0, len(l.rows))}
	groupIdx := map[string]int{}
	for _, tx := range l.rows {
		visible := match(tx)
		view.Rows = append(view.Rows, TransactionRow{Transaction: tx, Visible: visible})
		idx, ok := groupIdx[tx.Group]
		if !ok {
			idx = len(view.Groups)
			groupIdx[tx.Group] = idx
			view.Groups = append(view.Groups, TransactionGroup{Label: tx.Group})
		}
		if visible {
			view.Groups[idx].Visible = true
		}
	}
	return view
}

// DefaultTransactions is the demo history shown on the history page.
func DefaultTransactions() []Transaction {
	return []Transaction{
		{ID: "tx-1", Title: "Gaji Bulanan", Subtitle: "PT Maju Jaya", Type: TransactionIncome, Amount: 8500000, Group: "Hari Ini", Icon: "💼"},
		{ID: "tx-2", Title: "Kopi Kenangan", Subtitle: "Makanan & Minuman", Type: TransactionExpense, Amount: 25000, Group: "Hari Ini", Icon: "☕"},
		{ID: "tx-3", Title: "Gojek", Subtitle: "Transportasi", Type: TransactionExpense, Amount: 18000, Group: "Kemarin", Icon: "🛵"},
		{ID: "tx-4", Title: "Transfer dari Budi", Subtitle: "Transfer Masuk", Type: TransactionIncome, Amount: 250000, Group: "Kemarin", Icon: "💸"},
		{ID: "tx-5", Title: "Tokopedia", Subtitle: "Belanja Online", Type: TransactionExpense, Amount: 349000, Group: "12 Juni 2024", Icon: "🛍️"},
		{ID: "tx-6", Title: "PLN Token", Subtitle: "Tagihan Listrik", Type: TransactionExpense, Amount: 200000, Group: "12 Juni 2024", Icon: "⚡"},
		{ID: "tx-7", Title: "Netflix", Subtitle: "Hiburan", Type: TransactionExpense, Amount: 54000, Group: "10 Juni 2024", Icon: "🎬"},
	}
}
