package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	barConfig   = `{"selectedChart":3,"mode":"chart","cols":[{"name":"region"}],"metrics":[{"name":"amount","agg":"sum"}]}`
	pivotConfig = `{"selectedChart":1,"mode":"pivot","cols":[{"name":"region"}],"rows":[],"metrics":[{"name":"amount","agg":"sum"}],"chartStyles":{"table":{"withPaging":true,"pageSize":"20"}}}`
)

type recordingFetcher struct {
	mu       sync.Mutex
	requests []FetchRequest
}

func (f *recordingFetcher) FetchChartData(_ context.Context, req FetchRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *recordingFetcher) all() []FetchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FetchRequest(nil), f.requests...)
}

type recordingListener struct {
	selections []DrillHistorySelection
	drills     []DrillEvent
	paths      []DrillPathEvent
}

func (l *recordingListener) SelectDrillHistory(_ context.Context, sel DrillHistorySelection) {
	l.selections = append(l.selections, sel)
}

func (l *recordingListener) DrillData(_ context.Context, event DrillEvent) {
	l.drills = append(l.drills, event)
}

func (l *recordingListener) DrillPathData(_ context.Context, event DrillPathEvent) {
	l.paths = append(l.paths, event)
}

type fakeTask struct {
	interval time.Duration
	fire     func()
	stopped  bool
}

func (t *fakeTask) Stop() { t.stopped = true }

type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) Every(interval time.Duration, fn func()) Task {
	task := &fakeTask{interval: interval, fire: fn}
	s.tasks = append(s.tasks, task)
	return task
}

func (s *fakeScheduler) active() []*fakeTask {
	var out []*fakeTask
	for _, task := range s.tasks {
		if !task.stopped {
			out = append(out, task)
		}
	}
	return out
}

type recordingTelemetry struct {
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.events = append(r.events, event)
}

func newTestItem(fetcher Fetcher, scheduler Scheduler) *Item {
	ids := 0
	return NewItem(ItemOptions{
		Fetcher:   fetcher,
		Scheduler: scheduler,
		NewRequestID: func() string {
			ids++
			return "req-" + string(rune('0'+ids))
		},
	})
}

func TestMountOutsideShareWaitsForRender(t *testing.T) {
	fetcher := &recordingFetcher{}
	item := newTestItem(fetcher, &fakeScheduler{})

	require.NoError(t, item.Mount(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}}))
	assert.Empty(t, fetcher.all())
	assert.True(t, item.State().Drilling)
	assert.Equal(t, 7, item.State().CacheWidgetID)

	require.NoError(t, item.Update(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}, Rendered: true}))
	reqs := fetcher.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, RenderClear, reqs[0].RenderType)
	assert.Equal(t, 7, reqs[0].WidgetID)
	assert.Equal(t, "req-1", reqs[0].ID)
}

func TestMountInShareContainerFetchesImmediately(t *testing.T) {
	fetcher := &recordingFetcher{}
	item := newTestItem(fetcher, &fakeScheduler{})

	require.NoError(t, item.Mount(context.Background(), Props{
		ItemID:    1,
		Widget:    Widget{ID: 7, Config: barConfig},
		Container: ContainerShare,
	}))
	require.Len(t, fetcher.all(), 1)
}

func TestMountSkipsFetchWhenAutoLoadDisabled(t *testing.T) {
	fetcher := &recordingFetcher{}
	item := newTestItem(fetcher, &fakeScheduler{})

	require.NoError(t, item.Mount(context.Background(), Props{
		ItemID:    1,
		Widget:    Widget{ID: 7, Config: `{"selectedChart":3,"autoLoadData":false}`},
		Container: ContainerShare,
	}))
	assert.Empty(t, fetcher.all())
}

func TestMountRejectsInvalidConfig(t *testing.T) {
	item := newTestItem(nil, nil)
	err := item.Mount(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: "{"}})
	require.Error(t, err)
	assert.ErrorIs(t, item.Update(context.Background(), Props{}), errNotMounted)
}

func TestMountTwiceFails(t *testing.T) {
	item := newTestItem(nil, nil)
	props := Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}}
	require.NoError(t, item.Mount(context.Background(), props))
	assert.ErrorIs(t, item.Mount(context.Background(), props), errAlreadyMounted)
}

func TestUpdateReparsesChangedWidget(t *testing.T) {
	item := newTestItem(nil, nil)
	require.NoError(t, item.Mount(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}}))

	require.NoError(t, item.Update(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: pivotConfig}}))
	state := item.State()
	assert.Equal(t, ModePivot, state.Config.Mode)
	require.NotNil(t, state.Pagination)
	assert.Equal(t, 20, state.Pagination.PageSize)
	assert.Equal(t, ModeChart, state.Pristine.Mode, "pristine config is cached once")
}

func TestUpdateMergesQueryVariables(t *testing.T) {
	item := newTestItem(nil, nil)
	require.NoError(t, item.Mount(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}}))

	conditions := &QueryConditions{
		Variables:       []QueryVariable{{Name: "year", Value: 2023}},
		GlobalVariables: []QueryVariable{{Name: "year", Value: 2024}, {Name: "region", Value: "east"}},
	}
	require.NoError(t, item.Update(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}, QueryConditions: conditions}))
	assert.Equal(t, map[string]any{"$year$": 2024, "$region$": "east"}, item.State().QueryVariables)
}

func TestChangePageRefetchesWithMergedPagination(t *testing.T) {
	fetcher := &recordingFetcher{}
	item := newTestItem(fetcher, nil)
	require.NoError(t, item.Mount(context.Background(), Props{
		ItemID:     1,
		Widget:     Widget{ID: 7, Config: pivotConfig},
		Datasource: Datasource{TotalCount: 95},
	}))

	item.ChangePage(context.Background(), 3, 10)
	reqs := fetcher.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, RenderClear, reqs[0].RenderType)
	assert.Equal(t, &Pagination{WithPaging: true, PageNo: 3, PageSize: 10, TotalCount: 95}, reqs[0].Options.Pagination)

	item.Sync(context.Background())
	reqs = fetcher.all()
	require.Len(t, reqs, 2)
	assert.Equal(t, RenderRefresh, reqs[1].RenderType)
}

func TestControlSearchSendsConditions(t *testing.T) {
	fetcher := &recordingFetcher{}
	item := newTestItem(fetcher, nil)
	require.NoError(t, item.Mount(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}}))

	item.ControlSearch(context.Background(), QueryConditions{Filters: []string{"year = 2024"}})
	reqs := fetcher.all()
	require.Len(t, reqs, 1)
	require.NotNil(t, reqs[0].Options.Conditions)
	assert.Equal(t, []string{"year = 2024"}, reqs[0].Options.Conditions.Filters)
}

func TestBrushStoresSelection(t *testing.T) {
	item := newTestItem(nil, nil)
	require.NoError(t, item.Mount(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}}))

	require.NoError(t, item.Brush(`{"brushed":[[[{"key":"region","value":"east"}]]],"sourceData":[{"region":"east"}]}`))
	state := item.State()
	assert.True(t, state.Brushed.HasSelection())
	assert.Len(t, state.SourceRows, 1)
	assert.ErrorIs(t, item.Brush("{nope"), ErrInvalidBrushPayload)
	assert.NoError(t, item.Brush(""))
}

func TestPanelToggles(t *testing.T) {
	item := newTestItem(nil, nil)
	item.ToggleControlPanel()
	item.AuthorizeSharePanel(true)
	assert.True(t, item.State().ControlPanelVisible)
	assert.True(t, item.State().SharePanelAuthorized)
	item.ToggleControlPanel()
	assert.False(t, item.State().ControlPanelVisible)
}

func TestItemRecordsTelemetry(t *testing.T) {
	telemetry := &recordingTelemetry{}
	item := NewItem(ItemOptions{Telemetry: telemetry})
	require.NoError(t, item.Mount(context.Background(), Props{ItemID: 1, Widget: Widget{ID: 7, Config: barConfig}}))
	item.ToggleDrill(context.Background())
	assert.Equal(t, []string{"dashboard.item.mount", "dashboard.item.drill_toggle"}, telemetry.events)
}

func TestActionsDefaultToNoops(t *testing.T) {
	item := newTestItem(nil, nil)
	assert.NotPanics(t, func() {
		ctx := context.Background()
		item.DownloadCsv(ctx)
		item.Delete(ctx)
		item.FullScreen(ctx)
		item.GetControlOptions(ctx, "k", false, nil)
		assert.False(t, item.CheckTableInteract(ctx))
	})
}

func TestActionsForwardItemIdentity(t *testing.T) {
	var fullScreen FullScreenRequest
	var edited [2]int
	item := NewItem(ItemOptions{Actions: Actions{
		ShowFullScreen: func(_ context.Context, req FullScreenRequest) { fullScreen = req },
		EditWidget:     func(_ context.Context, itemID, widgetID int) { edited = [2]int{itemID, widgetID} },
	}})
	require.NoError(t, item.Mount(context.Background(), Props{ItemID: 4, Widget: Widget{ID: 9, Config: barConfig}}))

	item.FullScreen(context.Background())
	item.EditWidget(context.Background())
	assert.Equal(t, 4, fullScreen.ItemID)
	assert.Equal(t, 9, fullScreen.Widget.ID)
	assert.Equal(t, [2]int{4, 9}, edited)
}
