package dashboard

import (
	"context"
)

// Fetcher receives data requests emitted by an item. Requests are fire-and-forget:
// results come back later as new props (datasource, loading flag).
type Fetcher interface {
	FetchChartData(ctx context.Context, req FetchRequest)
}

// FetcherFunc adapts a function into a Fetcher.
type FetcherFunc func(ctx context.Context, req FetchRequest)

// FetchChartData implements Fetcher.
func (f FetcherFunc) FetchChartData(ctx context.Context, req FetchRequest) {
	f(ctx, req)
}

// DrillListener is notified about drill bookkeeping the parent container owns.
type DrillListener interface {
	SelectDrillHistory(ctx context.Context, sel DrillHistorySelection)
	DrillData(ctx context.Context, event DrillEvent)
	DrillPathData(ctx context.Context, event DrillPathEvent)
}

// WidgetLookup resolves sibling widgets targeted by drill paths.
type WidgetLookup interface {
	Widget(id int) (Widget, bool)
}

// RenderType tells the parent how to treat the result of a fetch.
type RenderType string

const (
	RenderClear    RenderType = "clear"
	RenderRefresh  RenderType = "refresh"
	RenderRerender RenderType = "rerender"
	RenderLoading  RenderType = "loading"
)

// ContainerShare marks items embedded in a public share page.
const ContainerShare = "share"

// Widget is a chart/table configuration bound to a data view.
type Widget struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ViewID      int    `json:"view_id,omitempty" yaml:"view_id,omitempty"`
	Config      string `json:"config" yaml:"config"`
}

// Datasource is the last result set delivered by the parent.
type Datasource struct {
	ResultList []map[string]any `json:"resultList"`
	PageNo     int              `json:"pageNo,omitempty"`
	PageSize   int              `json:"pageSize,omitempty"`
	TotalCount int              `json:"totalCount,omitempty"`
}

// ModelField describes a column of the widget's view.
type ModelField struct {
	SQLType    string `json:"sqlType,omitempty" yaml:"sql_type,omitempty"`
	VisualType string `json:"visualType" yaml:"visual_type"`
	ModelType  string `json:"modelType" yaml:"model_type"`
}

// ViewModel maps column names to their model description.
type ViewModel map[string]ModelField

// View is the data view a widget queries.
type View struct {
	ID    int       `json:"id" yaml:"id"`
	Model ViewModel `json:"model" yaml:"model"`
}

// Project carries the permission scope for chrome rendering.
type Project struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// QueryVariable is a named value substituted into view queries.
type QueryVariable struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// QueryConditions are the dashboard-wide conditions shared by every item.
type QueryConditions struct {
	Filters          []string        `json:"filters,omitempty"`
	LinkageFilters   []string        `json:"linkageFilters,omitempty"`
	GlobalFilters    []string        `json:"globalFilters,omitempty"`
	Variables        []QueryVariable `json:"variables,omitempty"`
	LinkageVariables []QueryVariable `json:"linkageVariables,omitempty"`
	GlobalVariables  []QueryVariable `json:"globalVariables,omitempty"`
	Orders           []Order         `json:"orders,omitempty"`
}

// FetchOptions travel with a fetch request.
type FetchOptions struct {
	Pagination  *Pagination      `json:"pagination,omitempty"`
	NativeQuery bool             `json:"nativeQuery,omitempty"`
	Conditions  *QueryConditions `json:"conditions,omitempty"`
	DrillStatus *DrillStatus     `json:"drillStatus,omitempty"`
}

// FetchRequest is emitted whenever the item needs data.
type FetchRequest struct {
	ID         string        `json:"id"`
	RenderType RenderType    `json:"renderType"`
	ItemID     int           `json:"itemId"`
	WidgetID   int           `json:"widgetId"`
	Options    *FetchOptions `json:"options,omitempty"`
}

// DrillHistoryEntry is one step recorded by the parent. Entries are never mutated here.
type DrillHistoryEntry struct {
	Name         string        `json:"name,omitempty" yaml:"name,omitempty"`
	Groups       []string      `json:"groups,omitempty" yaml:"groups,omitempty"`
	Col          []Dimension   `json:"col,omitempty" yaml:"col,omitempty"`
	Row          []Dimension   `json:"row,omitempty" yaml:"row,omitempty"`
	Filter       *DrillFilter  `json:"filter,omitempty" yaml:"filter,omitempty"`
	WidgetConfig *WidgetConfig `json:"widgetConfig,omitempty" yaml:"widget_config,omitempty"`
}

// DrillFilter is the predicate built for a drill path step.
type DrillFilter struct {
	Out   string   `json:"out" yaml:"out"`
	Enter string   `json:"enter" yaml:"enter"`
	Value []any    `json:"value" yaml:"value"`
	SQL   string   `json:"sql" yaml:"sql"`
	SQLs  []string `json:"sqls" yaml:"sqls"`
}

// DrillStatus packages a drill path step for the target widget.
type DrillStatus struct {
	Filter       DrillFilter   `json:"filter"`
	Groups       []string      `json:"groups"`
	Name         string        `json:"name"`
	WidgetConfig *WidgetConfig `json:"widgetConfig"`
}

// DrillPathStep is one entry of a drill path setting.
type DrillPathStep struct {
	Out    string `json:"out,omitempty" yaml:"out,omitempty"`
	Enter  string `json:"enter,omitempty" yaml:"enter,omitempty"`
	Widget int    `json:"widget,omitempty" yaml:"widget,omitempty"`
}

// DrillHistorySelection is forwarded whenever the active history entry changes.
// A nil History with Index -1 means "no history selected".
type DrillHistorySelection struct {
	History  []DrillHistoryEntry `json:"history,omitempty"`
	Index    int                 `json:"index"`
	ItemID   int                 `json:"itemId"`
	WidgetID int                 `json:"widgetId"`
}

// DrillEvent reports a single-dimension drill.
type DrillEvent struct {
	Row              []string         `json:"row"`
	Col              []string         `json:"col"`
	Mode             DisplayMode      `json:"mode,omitempty"`
	ItemID           int              `json:"itemId"`
	WidgetID         int              `json:"widgetId"`
	Groups           string           `json:"groups"`
	Filters          Brushed          `json:"filters,omitempty"`
	SourceDataFilter []map[string]any `json:"sourceDataFilter,omitempty"`
}

// DrillPathEvent reports a cross-widget drill.
type DrillPathEvent struct {
	SourceDataFilter   []map[string]any `json:"sourceDataFilter"`
	Widget             int              `json:"widget"`
	ItemID             int              `json:"itemId"`
	WidgetProps        *WidgetConfig    `json:"widgetProps"`
	Out                string           `json:"out"`
	Enter              string           `json:"enter"`
	Value              []any            `json:"value"`
	CurrentDrillStatus DrillStatus      `json:"currentDrillStatus"`
}

// ControlOptionsRequest asks the parent to load options for a control.
type ControlOptionsRequest struct {
	ControlKey      string `json:"controlKey"`
	UseUserOptions  bool   `json:"useUserOptions"`
	ParamsOrOptions any    `json:"paramsOrOptions"`
	ItemID          int    `json:"itemId"`
}

// FullScreenRequest is forwarded when the viewer expands an item.
type FullScreenRequest struct {
	ItemID     int        `json:"itemId"`
	Widget     Widget     `json:"widget"`
	Model      ViewModel  `json:"model"`
	Loading    bool       `json:"loading"`
	RenderType RenderType `json:"renderType"`
}

// Position hints where the drill overlay should open.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

type noopFetcher struct{}

func (noopFetcher) FetchChartData(context.Context, FetchRequest) {}

type noopDrillListener struct{}

func (noopDrillListener) SelectDrillHistory(context.Context, DrillHistorySelection) {}
func (noopDrillListener) DrillData(context.Context, DrillEvent)                     {}
func (noopDrillListener) DrillPathData(context.Context, DrillPathEvent)             {}
