package dataclient

import (
	"context"
	"fmt"
	"sync"

	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

// MockClient serves widget rows from memory, honoring pagination and drill
// path filters. It is meant for tests and local demos.
type MockClient struct {
	mu   sync.RWMutex
	rows map[int][]map[string]any
}

// NewMockClient builds a client from rows keyed by widget ID.
func NewMockClient(rows map[int][]map[string]any) *MockClient {
	if rows == nil {
		rows = map[int][]map[string]any{}
	}
	return &MockClient{rows: rows}
}

// SetRows replaces the rows of a widget.
func (c *MockClient) SetRows(widgetID int, rows []map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[widgetID] = rows
}

// Query implements Querier.
func (c *MockClient) Query(_ context.Context, req dashboard.FetchRequest) (dashboard.Datasource, error) {
	c.mu.RLock()
	rows := c.rows[req.WidgetID]
	c.mu.RUnlock()

	if req.Options != nil && req.Options.DrillStatus != nil {
		rows = filterRows(rows, req.Options.DrillStatus.Filter)
	}
	ds := dashboard.Datasource{TotalCount: len(rows)}
	var page *dashboard.Pagination
	if req.Options != nil {
		page = req.Options.Pagination
	}
	if page != nil && page.WithPaging && page.PageSize > 0 {
		pageNo := max(page.PageNo, 1)
		start := min((pageNo-1)*page.PageSize, len(rows))
		end := min(start+page.PageSize, len(rows))
		rows = rows[start:end]
		ds.PageNo = pageNo
		ds.PageSize = page.PageSize
	}
	ds.ResultList = cloneRows(rows)
	return ds, nil
}

func filterRows(rows []map[string]any, filter dashboard.DrillFilter) []map[string]any {
	if filter.Enter == "" || len(filter.Value) == 0 {
		return rows
	}
	allowed := make(map[string]struct{}, len(filter.Value))
	for _, v := range filter.Value {
		allowed[fmt.Sprint(v)] = struct{}{}
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		v, ok := row[filter.Enter]
		if !ok {
			continue
		}
		if _, keep := allowed[fmt.Sprint(v)]; keep {
			out = append(out, row)
		}
	}
	return out
}

func cloneRows(rows []map[string]any) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		cp := make(map[string]any, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
