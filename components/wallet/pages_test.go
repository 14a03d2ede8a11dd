package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageControllerShow(t *testing.T) {
	pub := &recordingPublisher{}
	pc := NewPageController(PageOptions{Publisher: pub})
	ctx := context.Background()

	var changed []PageID
	pc.OnPageChanged(func(p PageID) { changed = append(changed, p) })

	assert.Equal(t, PageHome, pc.Current())
	assert.True(t, pc.Show(ctx, PageAnalytics))
	assert.Equal(t, PageAnalytics, pc.Current())
	assert.False(t, pc.Show(ctx, PageID("settings")), "unknown pages are ignored")
	assert.Equal(t, PageAnalytics, pc.Current())

	assert.Equal(t, []PageID{PageAnalytics}, changed)
	assert.Equal(t, 1, pub.count(EventPageChanged))

	active := 0
	for _, item := range pc.Nav() {
		if item.Active {
			active++
			assert.Equal(t, PageAnalytics, item.Page)
		}
	}
	assert.Equal(t, 1, active)
}

func TestPageControllerSwipe(t *testing.T) {
	pc := NewPageController(PageOptions{})
	ctx := context.Background()

	_, moved := pc.Swipe(ctx, -40, 0)
	assert.False(t, moved, "below threshold")
	_, moved = pc.Swipe(ctx, -80, 100)
	assert.False(t, moved, "mostly vertical")

	page, moved := pc.Swipe(ctx, -80, 10)
	require.True(t, moved)
	assert.Equal(t, PageAnalytics, page)

	page, moved = pc.Swipe(ctx, 80, 10)
	require.True(t, moved)
	assert.Equal(t, PageHome, page)

	_, moved = pc.Swipe(ctx, 80, 0)
	assert.False(t, moved, "no page before home")

	require.True(t, pc.Show(ctx, PageProfile))
	_, moved = pc.Swipe(ctx, -80, 0)
	assert.False(t, moved, "no page after profile")
}

func TestPageControllerSwipeFromPageOutsideOrder(t *testing.T) {
	pc := NewPageController(PageOptions{Initial: PageQR})
	page, moved := pc.Swipe(context.Background(), -120, 0)
	require.True(t, moved)
	assert.Equal(t, PageHome, page)
}

func TestPageControllerBack(t *testing.T) {
	pc := NewPageController(PageOptions{})
	ctx := context.Background()

	pc.Show(ctx, PageAnalytics)
	pc.Show(ctx, PageHistory)

	assert.Equal(t, PageAnalytics, pc.Back(ctx))
	assert.Equal(t, PageHome, pc.Back(ctx))
	assert.Equal(t, PageHome, pc.Back(ctx), "empty history falls back to home")
}

func TestTransactionSearchIsCaseInsensitive(t *testing.T) {
	list := NewTransactionList(DefaultTransactions())

	view := list.Search("GOJEK")
	rows := view.VisibleRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "tx-3", rows[0].ID)

	view = list.Search("transfer")
	assert.Len(t, view.VisibleRows(), 1)

	view = list.Search("hiburan")
	assert.Len(t, view.VisibleRows(), 1, "subtitle matches")

	view = list.Search("")
	assert.Len(t, view.VisibleRows(), len(DefaultTransactions()))
	for _, g := range view.Groups {
		assert.True(t, g.Visible)
	}
}

func TestTransactionGroupsHideWhenEmpty(t *testing.T) {
	list := NewTransactionList(DefaultTransactions())
	view := list.Search("netflix")

	visible := map[string]bool{}
	for _, g := range view.Groups {
		visible[g.Label] = g.Visible
	}
	assert.True(t, visible["10 Juni 2024"])
	assert.False(t, visible["Hari Ini"])
	assert.False(t, visible["Kemarin"])
}

func TestTransactionFilterByType(t *testing.T) {
	list := NewTransactionList(DefaultTransactions())

	income := list.Filter("income")
	for _, tx := range income.VisibleRows() {
		assert.Equal(t, TransactionIncome, tx.Type)
	}
	in, out := income.Totals()
	assert.Equal(t, int64(8750000), in)
	assert.Zero(t, out)

	assert.Len(t, list.Filter("all").VisibleRows(), len(DefaultTransactions()))
	assert.Empty(t, list.Filter("refund").VisibleRows())
	assert.Len(t, list.FilterMonth("2024-05").VisibleRows(), len(DefaultTransactions()))
}
