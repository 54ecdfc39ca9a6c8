package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errEmptyConfig = errors.New("dashboard: widget config is empty")
)

// ChartType mirrors the numeric chart identifiers stored in widget configs.
type ChartType int

const (
	ChartTable ChartType = iota + 1
	ChartLine
	ChartBar
	ChartScatter
	ChartPie
)

// DisplayMode is the widget's operating mode.
type DisplayMode string

const (
	ModeChart DisplayMode = "chart"
	ModePivot DisplayMode = "pivot"
)

// AxisMode is the declared dimension axis of a widget.
type AxisMode string

const (
	AxisFree AxisMode = ""
	AxisCol  AxisMode = "col"
	AxisRow  AxisMode = "row"
)

// UnmarshalJSON maps unknown axis values to AxisFree.
func (a *AxisMode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			*a = AxisFree
			return nil
		}
		return err
	}
	switch AxisMode(raw) {
	case AxisCol, AxisRow:
		*a = AxisMode(raw)
	default:
		*a = AxisFree
	}
	return nil
}

// MetricNameDimension is the pseudo-dimension pivots use to lay metrics out.
const MetricNameDimension = "指标名称"

// Dimension references a grouping column.
type Dimension struct {
	Name string `json:"name" yaml:"name"`
}

// Metric is an aggregated value column.
type Metric struct {
	Name string `json:"name" yaml:"name"`
	Agg  string `json:"agg,omitempty" yaml:"agg,omitempty"`
}

// Key returns the column name the metric is delivered under, e.g. sum(amount).
func (m Metric) Key() string {
	name := m.Name
	if idx := strings.Index(name, "@"); idx > 0 {
		name = name[:idx]
	}
	if m.Agg == "" {
		return name
	}
	return fmt.Sprintf("%s(%s)", m.Agg, name)
}

// FilterConfig holds the predicate fragment of a filter.
type FilterConfig struct {
	SQL string `json:"sql" yaml:"sql"`
}

// Filter is a persisted widget filter.
type Filter struct {
	Name   string       `json:"name" yaml:"name"`
	Type   string       `json:"type,omitempty" yaml:"type,omitempty"`
	Config FilterConfig `json:"config" yaml:"config"`
}

// EncodingItem is a field bound to a visual channel.
type EncodingItem struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Encoding groups the fields of a color/label/size/tip channel.
type Encoding struct {
	Items []EncodingItem `json:"items" yaml:"items"`
}

// Order sorts query results.
type Order struct {
	Column    string `json:"column" yaml:"column"`
	Direction string `json:"direction" yaml:"direction"`
}

// Control is a parameter control rendered in the control panel.
type Control struct {
	Key   string          `json:"key" yaml:"key"`
	Type  string          `json:"type" yaml:"type"`
	Label string          `json:"label,omitempty" yaml:"label,omitempty"`
	Extra json.RawMessage `json:"extra,omitempty" yaml:"-"`
}

// FlexInt decodes integers stored either as numbers or numeric strings.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("dashboard: invalid integer %q: %w", data, err)
	}
	if math.IsNaN(v) || v >= float64(math.MaxInt) || v < float64(math.MinInt) {
		return fmt.Errorf("dashboard: invalid integer %q: %w", data, strconv.ErrRange)
	}
	*f = FlexInt(v)
	return nil
}

// TableStyle is the table-display section of chart styles.
type TableStyle struct {
	WithPaging        bool    `json:"withPaging"`
	PageSize          FlexInt `json:"pageSize"`
	WithNoAggregators bool    `json:"withNoAggregators"`
}

// ChartStyles holds per-chart styling. Only the table section drives behavior here.
type ChartStyles struct {
	Table *TableStyle `json:"table,omitempty"`
}

// WidgetConfig is the parsed widget configuration.
type WidgetConfig struct {
	SelectedChart ChartType   `json:"selectedChart"`
	Mode          DisplayMode `json:"mode,omitempty"`
	DimetionAxis  AxisMode    `json:"dimetionAxis,omitempty"`
	Cols          []Dimension `json:"cols"`
	Rows          []Dimension `json:"rows"`
	Metrics       []Metric    `json:"metrics"`
	Filters       []Filter    `json:"filters"`
	Color         *Encoding   `json:"color,omitempty"`
	Label         *Encoding   `json:"label,omitempty"`
	Size          *Encoding   `json:"size,omitempty"`
	XAxis         *Encoding   `json:"xAxis,omitempty"`
	Tip           *Encoding   `json:"tip,omitempty"`
	Orders        []Order     `json:"orders,omitempty"`
	Cache         bool        `json:"cache,omitempty"`
	Expired       int         `json:"expired,omitempty"`
	ChartStyles   ChartStyles `json:"chartStyles"`
	Controls      []Control   `json:"controls"`
	AutoLoadData  *bool       `json:"autoLoadData,omitempty"`
}

// ParseWidgetConfig decodes a serialized widget configuration.
func ParseWidgetConfig(raw string) (*WidgetConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errEmptyConfig
	}
	var cfg WidgetConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("dashboard: parse widget config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *WidgetConfig) normalize() {
	if c.Cols == nil {
		c.Cols = []Dimension{}
	}
	if c.Rows == nil {
		c.Rows = []Dimension{}
	}
	if c.Metrics == nil {
		c.Metrics = []Metric{}
	}
	if c.Filters == nil {
		c.Filters = []Filter{}
	}
	if c.Controls == nil {
		c.Controls = []Control{}
	}
}

// AutoLoad reports whether the item fetches on its own; absent means true.
func (c *WidgetConfig) AutoLoad() bool {
	return c == nil || c.AutoLoadData == nil || *c.AutoLoadData
}

// HasDataConfig reports whether any grouping or metric is configured.
func (c *WidgetConfig) HasDataConfig() bool {
	return c != nil && (len(c.Cols) > 0 || len(c.Rows) > 0 || len(c.Metrics) > 0)
}

// HasDimension reports whether name is grouped on either axis.
func (c *WidgetConfig) HasDimension(name string) bool {
	return containsDimension(c.Cols, name) || containsDimension(c.Rows, name)
}

// Clone returns a deep copy; drill reducers never share slices with their input.
func (c *WidgetConfig) Clone() *WidgetConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Cols = append([]Dimension{}, c.Cols...)
	out.Rows = append([]Dimension{}, c.Rows...)
	out.Metrics = append([]Metric{}, c.Metrics...)
	out.Filters = append([]Filter{}, c.Filters...)
	out.Orders = append([]Order(nil), c.Orders...)
	out.Controls = append([]Control{}, c.Controls...)
	out.Color = c.Color.clone()
	out.Label = c.Label.clone()
	out.Size = c.Size.clone()
	out.XAxis = c.XAxis.clone()
	out.Tip = c.Tip.clone()
	if c.ChartStyles.Table != nil {
		table := *c.ChartStyles.Table
		out.ChartStyles.Table = &table
	}
	if c.AutoLoadData != nil {
		v := *c.AutoLoadData
		out.AutoLoadData = &v
	}
	return &out
}

func (e *Encoding) clone() *Encoding {
	if e == nil {
		return nil
	}
	return &Encoding{Items: append([]EncodingItem{}, e.Items...)}
}

// groupingLayout is the sealed variant the drill reducers switch on.
type groupingLayout interface {
	isGroupingLayout()
}

// freeLayout has no fixed dimension axis.
type freeLayout struct {
	tabular bool
}

// fixedAxisLayout pins drilling to a single axis.
type fixedAxisLayout struct {
	axis AxisMode
}

func (freeLayout) isGroupingLayout()      {}
func (fixedAxisLayout) isGroupingLayout() {}

func (c *WidgetConfig) layout() groupingLayout {
	switch c.DimetionAxis {
	case AxisCol, AxisRow:
		return fixedAxisLayout{axis: c.DimetionAxis}
	default:
		return freeLayout{tabular: c.SelectedChart == ChartTable}
	}
}

func containsDimension(dims []Dimension, name string) bool {
	for _, d := range dims {
		if d.Name == name {
			return true
		}
	}
	return false
}

func withoutDimension(dims []Dimension, name string) []Dimension {
	out := make([]Dimension, 0, len(dims))
	for _, d := range dims {
		if d.Name != name {
			out = append(out, d)
		}
	}
	return out
}

func dimensionsFromNames(names []string) []Dimension {
	out := make([]Dimension, 0, len(names))
	for _, name := range names {
		out = append(out, Dimension{Name: name})
	}
	return out
}

func appendDimension(dims []Dimension, name string) []Dimension {
	out := make([]Dimension, 0, len(dims)+1)
	out = append(out, dims...)
	return append(out, Dimension{Name: name})
}
