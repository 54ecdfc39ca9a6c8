package dataclient

import (
	"context"

	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

// Querier executes a fetch request and returns the widget's datasource.
type Querier interface {
	Query(ctx context.Context, req dashboard.FetchRequest) (dashboard.Datasource, error)
}

// ResultSink receives datasources for the items that requested them.
type ResultSink interface {
	ApplyDatasource(ctx context.Context, itemID int, renderType dashboard.RenderType, ds dashboard.Datasource) error
}
