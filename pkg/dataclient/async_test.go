package dataclient

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

type recordingSink struct {
	mu      sync.Mutex
	applied map[int]dashboard.Datasource
}

func (s *recordingSink) ApplyDatasource(_ context.Context, itemID int, _ dashboard.RenderType, ds dashboard.Datasource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		s.applied = map[int]dashboard.Datasource{}
	}
	s.applied[itemID] = ds
	return nil
}

func sampleRows() []map[string]any {
	return []map[string]any{
		{"region": "east", "amount": 10},
		{"region": "west", "amount": 20},
		{"region": "north", "amount": 30},
		{"region": "east", "amount": 40},
	}
}

func TestMockClientPaginates(t *testing.T) {
	client := NewMockClient(map[int][]map[string]any{1: sampleRows()})
	ds, err := client.Query(context.Background(), dashboard.FetchRequest{
		WidgetID: 1,
		Options: &dashboard.FetchOptions{
			Pagination: &dashboard.Pagination{WithPaging: true, PageNo: 2, PageSize: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, ds.TotalCount)
	assert.Equal(t, 2, ds.PageNo)
	require.Len(t, ds.ResultList, 1)
	assert.Equal(t, 40, ds.ResultList[0]["amount"])
}

func TestMockClientFiltersDrillStatus(t *testing.T) {
	client := NewMockClient(map[int][]map[string]any{1: sampleRows()})
	ds, err := client.Query(context.Background(), dashboard.FetchRequest{
		WidgetID: 1,
		Options: &dashboard.FetchOptions{
			DrillStatus: &dashboard.DrillStatus{
				Filter: dashboard.DrillFilter{Enter: "region", Value: []any{"east"}},
			},
		},
	})
	require.NoError(t, err)
	assert.Len(t, ds.ResultList, 2)
}

func TestAsyncFetcherAppliesResults(t *testing.T) {
	sink := &recordingSink{}
	client := NewMockClient(map[int][]map[string]any{5: sampleRows()})
	fetcher := NewAsyncFetcher(client, sink, AsyncOptions{})

	fetcher.FetchChartData(context.Background(), dashboard.FetchRequest{ItemID: 1, WidgetID: 5})
	fetcher.FetchChartData(context.Background(), dashboard.FetchRequest{ItemID: 2, WidgetID: 6})
	fetcher.Wait()

	require.Len(t, sink.applied, 2)
	assert.Len(t, sink.applied[1].ResultList, 4)
	assert.Empty(t, sink.applied[2].ResultList)
}

func TestAsyncFetcherFeedsBoard(t *testing.T) {
	client := NewMockClient(map[int][]map[string]any{5: sampleRows()})
	fetcher := NewAsyncFetcher(client, nil, AsyncOptions{})
	board := dashboard.NewBoard(dashboard.BoardOptions{Item: dashboard.ItemOptions{Fetcher: fetcher}})
	fetcher.SetSink(board)
	t.Cleanup(board.Close)

	err := board.Mount(context.Background(), dashboard.Props{
		ItemID:   1,
		Widget:   dashboard.Widget{ID: 5, Config: `{"selectedChart":3,"cols":[{"name":"region"}],"metrics":[{"name":"amount"}]}`},
		Rendered: true,
	})
	require.NoError(t, err)
	fetcher.Wait()

	var rows int
	require.NoError(t, board.Do(1, func(item *dashboard.Item) error {
		rows = len(item.Props().Datasource.ResultList)
		return nil
	}))
	assert.Equal(t, 4, rows)
}
