package queries

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

type stubBoard struct {
	calls   int
	missing int
	html    string
}

func (s *stubBoard) View(_ context.Context, itemID int) (dashboard.ItemView, error) {
	s.calls++
	if itemID == s.missing {
		return dashboard.ItemView{}, dashboard.ErrItemNotFound
	}
	return dashboard.ItemView{ItemID: itemID}, nil
}

func (s *stubBoard) ItemIDs() []int { return []int{1, 2, 3} }

func (s *stubBoard) RenderChart(int, dashboard.ChartRenderer) (string, error) {
	s.calls++
	return s.html, nil
}

func TestItemViewQuery(t *testing.T) {
	board := &stubBoard{}
	query := NewItemViewQuery(board)
	view, err := query.Query(context.Background(), ItemViewInput{ItemID: 4})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if view.ItemID != 4 {
		t.Fatalf("expected item 4, got %d", view.ItemID)
	}
}

func TestItemViewQueryMissing(t *testing.T) {
	board := &stubBoard{missing: 4}
	_, err := NewItemViewQuery(board).Query(context.Background(), ItemViewInput{ItemID: 4})
	if !errors.Is(err, dashboard.ErrItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBoardViewQuerySkipsMissing(t *testing.T) {
	board := &stubBoard{missing: 2}
	views, err := NewBoardViewQuery(board).Query(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if board.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", board.calls)
	}
}

func TestChartQuery(t *testing.T) {
	board := &stubBoard{html: "<div>chart</div>"}
	html, err := NewChartQuery(board, nil).Query(context.Background(), ItemViewInput{ItemID: 1})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if html != board.html {
		t.Fatalf("unexpected html %q", html)
	}
}
