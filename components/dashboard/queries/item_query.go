package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

// ItemViewInput identifies a mounted item.
type ItemViewInput struct {
	ItemID int
}

type itemViewer interface {
	View(ctx context.Context, itemID int) (dashboard.ItemView, error)
	ItemIDs() []int
}

// ItemViewQuery returns the read model of a single item.
type ItemViewQuery struct {
	board itemViewer
}

// NewItemViewQuery builds the query.
func NewItemViewQuery(board itemViewer) *ItemViewQuery {
	return &ItemViewQuery{board: board}
}

var _ gocommand.Querier[ItemViewInput, dashboard.ItemView] = (*ItemViewQuery)(nil)

// Query resolves the item view.
func (q *ItemViewQuery) Query(ctx context.Context, input ItemViewInput) (dashboard.ItemView, error) {
	return q.board.View(ctx, input.ItemID)
}

// BoardViewQuery returns every mounted item, ordered by item ID.
type BoardViewQuery struct {
	board itemViewer
}

// NewBoardViewQuery builds the query.
func NewBoardViewQuery(board itemViewer) *BoardViewQuery {
	return &BoardViewQuery{board: board}
}

var _ gocommand.Querier[struct{}, []dashboard.ItemView] = (*BoardViewQuery)(nil)

// Query resolves all item views. Items unmounted concurrently are skipped.
func (q *BoardViewQuery) Query(ctx context.Context, _ struct{}) ([]dashboard.ItemView, error) {
	ids := q.board.ItemIDs()
	views := make([]dashboard.ItemView, 0, len(ids))
	for _, id := range ids {
		view, err := q.board.View(ctx, id)
		if err != nil {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}
