package dataclient

import (
	"context"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc"

	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

const defaultQueryTimeout = 30 * time.Second

// AsyncFetcher is a dashboard.Fetcher that runs queries off the caller's
// goroutine and hands results to a sink, typically a dashboard.Board.
type AsyncFetcher struct {
	querier Querier
	sink    ResultSink
	logger  *slog.Logger
	timeout time.Duration
	wg      conc.WaitGroup
}

// AsyncOptions configures an AsyncFetcher.
type AsyncOptions struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewAsyncFetcher builds a fetcher. The sink may be set later with SetSink
// when the board is built after the fetcher.
func NewAsyncFetcher(querier Querier, sink ResultSink, opts AsyncOptions) *AsyncFetcher {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultQueryTimeout
	}
	return &AsyncFetcher{
		querier: querier,
		sink:    sink,
		logger:  opts.Logger,
		timeout: opts.Timeout,
	}
}

// SetSink sets the result sink. Call before the first fetch.
func (f *AsyncFetcher) SetSink(sink ResultSink) {
	f.sink = sink
}

// FetchChartData implements dashboard.Fetcher. The query outlives the gesture
// that triggered it but is bounded by the fetcher timeout.
func (f *AsyncFetcher) FetchChartData(ctx context.Context, req dashboard.FetchRequest) {
	ctx = context.WithoutCancel(ctx)
	f.wg.Go(func() {
		ctx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		ds, err := f.querier.Query(ctx, req)
		if err != nil {
			f.logger.Error("chart data query failed",
				slog.String("request_id", req.ID),
				slog.Int("item_id", req.ItemID),
				slog.Int("widget_id", req.WidgetID),
				slog.Any("error", err),
			)
			return
		}
		if f.sink == nil {
			return
		}
		if err := f.sink.ApplyDatasource(ctx, req.ItemID, req.RenderType, ds); err != nil {
			f.logger.Warn("datasource not applied",
				slog.String("request_id", req.ID),
				slog.Int("item_id", req.ItemID),
				slog.Any("error", err),
			)
		}
	})
}

// Wait blocks until every in-flight query has been applied.
func (f *AsyncFetcher) Wait() {
	f.wg.Wait()
}
