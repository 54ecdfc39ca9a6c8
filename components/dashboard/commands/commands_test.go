package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableConfig = `{
	"selectedChart": 1,
	"mode": "pivot",
	"cols": [{"name": "region"}],
	"rows": [],
	"metrics": [{"name": "amount@sum", "agg": "sum"}],
	"chartStyles": {"table": {"withPaging": true, "pageSize": 20}}
}`

type recordingFetcher struct {
	mu       sync.Mutex
	requests []dashboard.FetchRequest
}

func (f *recordingFetcher) FetchChartData(_ context.Context, req dashboard.FetchRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *recordingFetcher) last() dashboard.FetchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

func newTestBoard(t *testing.T) (*dashboard.Board, *recordingFetcher) {
	t.Helper()
	fetcher := &recordingFetcher{}
	board := dashboard.NewBoard(dashboard.BoardOptions{
		Item: dashboard.ItemOptions{Fetcher: fetcher},
	})
	err := board.Mount(context.Background(), dashboard.Props{
		ItemID:   7,
		Widget:   dashboard.Widget{ID: 70, Name: "Sales", Config: tableConfig},
		Rendered: true,
	})
	require.NoError(t, err)
	t.Cleanup(board.Close)
	return board, fetcher
}

func TestChangePageCommand(t *testing.T) {
	board, fetcher := newTestBoard(t)
	telemetry := &stubTelemetry{}
	cmd := NewChangePageCommand(board, telemetry)

	err := cmd.Execute(context.Background(), ChangePageInput{ItemID: 7, PageNo: 3, PageSize: 50})
	require.NoError(t, err)

	req := fetcher.last()
	assert.Equal(t, dashboard.RenderClear, req.RenderType)
	require.NotNil(t, req.Options)
	require.NotNil(t, req.Options.Pagination)
	assert.Equal(t, 3, req.Options.Pagination.PageNo)
	assert.Equal(t, 50, req.Options.Pagination.PageSize)
	assert.Equal(t, []string{"dashboard.command.change_page"}, telemetry.events)
}

func TestSyncCommand(t *testing.T) {
	board, fetcher := newTestBoard(t)
	cmd := NewSyncCommand(board, nil)

	require.NoError(t, cmd.Execute(context.Background(), SyncInput{ItemID: 7}))
	assert.Equal(t, dashboard.RenderRefresh, fetcher.last().RenderType)
	assert.Equal(t, 70, fetcher.last().WidgetID)
}

func TestToggleDrillCommand(t *testing.T) {
	board, fetcher := newTestBoard(t)
	cmd := NewToggleDrillCommand(board, nil)

	require.NoError(t, cmd.Execute(context.Background(), ToggleDrillInput{ItemID: 7}))
	assert.Equal(t, dashboard.RenderRerender, fetcher.last().RenderType)

	view, err := board.View(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, view.Drilling)
}

func TestDrillCommandAppendsInPivotMode(t *testing.T) {
	board, _ := newTestBoard(t)
	cmd := NewDrillCommand(board, nil)

	require.NoError(t, cmd.Execute(context.Background(), DrillInput{ItemID: 7, Name: "city", Axis: dashboard.AxisCol}))

	view, err := board.View(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, view.Config.Cols, 2)
	assert.Equal(t, "city", view.Config.Cols[1].Name)
}

func TestBrushCommandRejectsInvalidPayload(t *testing.T) {
	board, _ := newTestBoard(t)
	cmd := NewBrushCommand(board, nil)

	err := cmd.Execute(context.Background(), BrushInput{ItemID: 7, Payload: "{not json"})
	require.Error(t, err)
}

func TestDrillPathCommandWithoutSetting(t *testing.T) {
	board, _ := newTestBoard(t)
	cmd := NewDrillPathCommand(board, nil)

	err := cmd.Execute(context.Background(), DrillPathInput{ItemID: 7})
	assert.ErrorIs(t, err, dashboard.ErrDrillPathNotConfigured)
}

func TestSetPollingCommand(t *testing.T) {
	board, _ := newTestBoard(t)
	cmd := NewSetPollingCommand(board, nil)

	require.NoError(t, cmd.Execute(context.Background(), SetPollingInput{ItemID: 7, Polling: true, Frequency: "30"}))
	view, err := board.View(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, view.Polling)

	require.NoError(t, cmd.Execute(context.Background(), SetPollingInput{ItemID: 7, Polling: false}))
	view, err = board.View(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, view.Polling)
}

func TestCommandsValidateTarget(t *testing.T) {
	if err := NewSyncCommand(nil, nil).Execute(context.Background(), SyncInput{ItemID: 1}); !errors.Is(err, errBoardRequired) {
		t.Fatalf("expected board required error, got %v", err)
	}
	board, _ := newTestBoard(t)
	if err := NewSyncCommand(board, nil).Execute(context.Background(), SyncInput{}); !errors.Is(err, errItemRequired) {
		t.Fatalf("expected item required error, got %v", err)
	}
	if err := NewSyncCommand(board, nil).Execute(context.Background(), SyncInput{ItemID: 99}); !errors.Is(err, dashboard.ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
}

type payloadTelemetry struct {
	payloads []map[string]any
}

func (p *payloadTelemetry) Record(_ context.Context, _ string, payload map[string]any) {
	p.payloads = append(p.payloads, payload)
}

func TestCommandTelemetryIsTagged(t *testing.T) {
	board, _ := newTestBoard(t)
	sink := &payloadTelemetry{}
	require.NoError(t, NewSyncCommand(board, sink).Execute(context.Background(), SyncInput{ItemID: 7}))
	require.Len(t, sink.payloads, 1)
	assert.Equal(t, "command", sink.payloads[0]["layer"])
	assert.Equal(t, 7, sink.payloads[0]["item_id"])
}
