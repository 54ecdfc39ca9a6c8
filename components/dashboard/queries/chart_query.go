package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

type chartBoard interface {
	RenderChart(itemID int, renderer dashboard.ChartRenderer) (string, error)
}

// ChartQuery renders an item's chart markup.
type ChartQuery struct {
	board    chartBoard
	renderer dashboard.ChartRenderer
}

// NewChartQuery builds the query. A nil renderer selects the ECharts renderer.
func NewChartQuery(board chartBoard, renderer dashboard.ChartRenderer) *ChartQuery {
	if renderer == nil {
		renderer = dashboard.NewEChartsRenderer()
	}
	return &ChartQuery{board: board, renderer: renderer}
}

var _ gocommand.Querier[ItemViewInput, string] = (*ChartQuery)(nil)

// Query renders the chart of the addressed item.
func (q *ChartQuery) Query(_ context.Context, input ItemViewInput) (string, error) {
	return q.board.RenderChart(input.ItemID, q.renderer)
}
