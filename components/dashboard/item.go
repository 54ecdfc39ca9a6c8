package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

var (
	errNotMounted     = errors.New("dashboard: item is not mounted")
	errAlreadyMounted = errors.New("dashboard: item is already mounted")
)

// Props are the externally owned inputs of an item.
type Props struct {
	ItemID             int
	Widget             Widget
	View               View
	Datasource         Datasource
	Loading            bool
	Polling            bool
	Frequency          string
	Interacting        bool
	ShareInfo          string
	SecretInfo         string
	ShareInfoLoading   bool
	DownloadCsvLoading bool
	DrillHistory       []DrillHistoryEntry
	DrillPathSetting   []DrillPathStep
	Rendered           bool
	RenderType         RenderType
	SelectedItems      []int
	Project            *Project
	QueryConditions    *QueryConditions
	Container          string
}

// ItemState is the derived view state owned by an item.
type ItemState struct {
	ControlPanelVisible  bool
	SharePanelAuthorized bool
	Config               *WidgetConfig
	Pagination           *Pagination
	QueryVariables       map[string]any
	NativeQuery          bool
	Model                ViewModel
	Drilling             bool
	PanelPosition        *Position
	Brushed              Brushed
	SourceRows           []map[string]any
	Pristine             *WidgetConfig
	CacheWidgetID        int
}

// ItemOptions wires an item to its collaborators. Nil collaborators become no-ops.
type ItemOptions struct {
	Fetcher       Fetcher
	DrillListener DrillListener
	Widgets       WidgetLookup
	Actions       Actions
	Scheduler     Scheduler
	Validator     ConfigValidator
	Telemetry     Telemetry
	Logger        *slog.Logger
	NewRequestID  func() string
}

// Item reconciles one dashboard grid item with its props. An item is not safe for
// concurrent use; Board serializes access when items are shared.
type Item struct {
	opts       ItemOptions
	poller     *Poller
	props      Props
	state      ItemState
	widgetMode DisplayMode
	mounted    bool
	cached     bool
}

// NewItem builds an unmounted item.
func NewItem(opts ItemOptions) *Item {
	if opts.Fetcher == nil {
		opts.Fetcher = noopFetcher{}
	}
	if opts.DrillListener == nil {
		opts.DrillListener = noopDrillListener{}
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NewRequestID == nil {
		opts.NewRequestID = uuid.NewString
	}
	opts.Actions = opts.Actions.normalize()
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Item{
		opts:   opts,
		poller: NewPoller(opts.Scheduler),
		state: ItemState{
			Drilling:       true,
			QueryVariables: map[string]any{},
		},
	}
}

// Mount parses the widget configuration and performs the initial fetch.
func (i *Item) Mount(ctx context.Context, props Props) error {
	if i.mounted {
		return errAlreadyMounted
	}
	cfg, err := i.parse(props.Widget.Config)
	if err != nil {
		return err
	}
	i.props = props
	i.applyConfig(cfg, props.View.Model)
	i.state.Pagination = DerivePagination(cfg, props.Datasource)
	i.state.QueryVariables = MergeQueryVariables(props.QueryConditions)
	if !i.cached {
		i.state.Pristine = cfg.Clone()
		i.state.CacheWidgetID = props.Widget.ID
		i.cached = true
	}
	i.mounted = true
	i.record(ctx, "dashboard.item.mount", map[string]any{"container": props.Container})

	if props.Container == ContainerShare || (props.Container == "" && props.Rendered) {
		i.initialLoad(ctx)
	}
	return nil
}

// Update reconciles the item with a new set of props in one transition.
func (i *Item) Update(ctx context.Context, next Props) error {
	if !i.mounted {
		return errNotMounted
	}
	prev := i.props
	if next.Widget != prev.Widget {
		cfg, err := i.parse(next.Widget.Config)
		if err != nil {
			return err
		}
		i.applyConfig(cfg, next.View.Model)
	}
	if next.QueryConditions != prev.QueryConditions {
		i.state.QueryVariables = MergeQueryVariables(next.QueryConditions)
	}
	i.state.Pagination = DerivePagination(i.state.Config, next.Datasource)
	i.props = next

	becameVisible := next.Container == "" && !prev.Rendered && next.Rendered
	if becameVisible {
		i.initialLoad(ctx)
		return nil
	}
	if next.Polling != prev.Polling || next.Frequency != prev.Frequency {
		i.restartPolling(ctx)
	}
	return nil
}

// Unmount stops polling and discards the working configuration.
func (i *Item) Unmount() {
	i.poller.Stop()
	i.mounted = false
	i.state.Config = nil
}

// Props returns the props last applied.
func (i *Item) Props() Props {
	return i.props
}

// State returns a snapshot of the derived state.
func (i *Item) State() ItemState {
	s := i.state
	s.Config = i.state.Config.Clone()
	s.Pristine = i.state.Pristine.Clone()
	s.Pagination = i.state.Pagination.clone()
	return s
}

// Polling reports whether a polling task is active.
func (i *Item) Polling() bool {
	return i.poller.Active()
}

// ChangePage merges the requested page into the pagination and refetches.
func (i *Item) ChangePage(ctx context.Context, pageNo, pageSize int) {
	i.state.Pagination = i.state.Pagination.WithPage(pageNo, pageSize)
	i.fetch(ctx, RenderClear, i.props.Widget.ID, i.baseOptions())
}

// Sync refreshes the current result set.
func (i *Item) Sync(ctx context.Context) {
	i.fetch(ctx, RenderRefresh, i.props.Widget.ID, i.baseOptions())
}

// ControlSearch refetches with the conditions submitted from the control panel.
func (i *Item) ControlSearch(ctx context.Context, conditions QueryConditions) {
	opts := i.baseOptions()
	opts.Conditions = &conditions
	i.fetch(ctx, RenderClear, i.props.Widget.ID, opts)
}

// ToggleControlPanel shows or hides the control panel.
func (i *Item) ToggleControlPanel() {
	i.state.ControlPanelVisible = !i.state.ControlPanelVisible
}

// AuthorizeSharePanel records whether the share panel passed authorization.
func (i *Item) AuthorizeSharePanel(authorized bool) {
	i.state.SharePanelAuthorized = authorized
}

// Brush applies a selection payload forwarded by the chart renderer.
func (i *Item) Brush(payload string) error {
	if payload == "" {
		return nil
	}
	sel, err := DecodeBrush(payload)
	if err != nil {
		return err
	}
	i.state.PanelPosition = sel.Position
	i.state.Brushed = sel.Brushed
	i.state.SourceRows = sel.SourceRows
	return nil
}

func (i *Item) initialLoad(ctx context.Context) {
	if i.state.Config.AutoLoad() {
		i.fetch(ctx, RenderClear, i.props.Widget.ID, i.baseOptions())
	}
	i.restartPolling(ctx)
}

func (i *Item) restartPolling(ctx context.Context) {
	req := FetchRequest{
		RenderType: RenderRefresh,
		ItemID:     i.props.ItemID,
		WidgetID:   i.props.Widget.ID,
		Options:    i.baseOptions(),
	}
	fetcher := i.opts.Fetcher
	newID := i.opts.NewRequestID
	pollCtx := context.WithoutCancel(ctx)
	fire := func() {
		r := req
		r.ID = newID()
		fetcher.FetchChartData(pollCtx, r)
	}
	if err := i.poller.Restart(i.props.Polling, i.props.Frequency, fire); err != nil {
		i.opts.Logger.Warn("polling disabled",
			slog.Int("item_id", i.props.ItemID),
			slog.String("frequency", i.props.Frequency),
			slog.Any("error", err),
		)
		return
	}
	if i.props.Polling {
		i.record(ctx, "dashboard.item.polling", map[string]any{"frequency": i.props.Frequency})
	}
}

func (i *Item) parse(raw string) (*WidgetConfig, error) {
	if err := i.opts.Validator.ValidateConfig(raw); err != nil {
		return nil, err
	}
	return ParseWidgetConfig(raw)
}

func (i *Item) applyConfig(cfg *WidgetConfig, model ViewModel) {
	i.state.Config = cfg
	i.state.Model = model
	i.state.NativeQuery = NativeQuery(cfg)
	i.widgetMode = cfg.Mode
}

func (i *Item) baseOptions() *FetchOptions {
	return &FetchOptions{
		Pagination:  i.state.Pagination.clone(),
		NativeQuery: i.state.NativeQuery,
	}
}

func (i *Item) fetch(ctx context.Context, renderType RenderType, widgetID int, opts *FetchOptions) {
	req := FetchRequest{
		ID:         i.opts.NewRequestID(),
		RenderType: renderType,
		ItemID:     i.props.ItemID,
		WidgetID:   widgetID,
		Options:    opts,
	}
	i.opts.Logger.Debug("fetch chart data",
		slog.String("request_id", req.ID),
		slog.String("render_type", string(renderType)),
		slog.Int("item_id", req.ItemID),
		slog.Int("widget_id", widgetID),
	)
	i.opts.Fetcher.FetchChartData(ctx, req)
}

func (i *Item) record(ctx context.Context, event string, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["item_id"] = i.props.ItemID
	payload["widget_id"] = i.props.Widget.ID
	i.opts.Telemetry.Record(ctx, event, payload)
}
