package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var (
	errUnsupportedChart = errors.New("dashboard: unsupported chart type")
	errNoMetrics        = errors.New("dashboard: chart has no metrics")
)

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartRenderer turns a working config and its datasource into chart markup.
type ChartRenderer interface {
	RenderChart(title string, cfg *WidgetConfig, ds Datasource) (string, error)
}

// EChartsRenderer renders server-side chart HTML with go-echarts.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsRendererOption customizes renderer behavior.
type EChartsRendererOption func(*EChartsRenderer)

// WithChartCache injects a render cache. Nil disables caching.
func WithChartCache(cache RenderCache) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds a renderer.
func NewEChartsRenderer(options ...EChartsRendererOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RenderChart implements ChartRenderer. Tables are drawn by the client, so
// ChartTable yields errUnsupportedChart.
func (r *EChartsRenderer) RenderChart(title string, cfg *WidgetConfig, ds Datasource) (string, error) {
	if cfg == nil {
		return "", errEmptyConfig
	}
	if len(cfg.Metrics) == 0 {
		return "", errNoMetrics
	}
	series := chartSeries(cfg, ds)
	render := func() (string, error) {
		return r.render(title, cfg.SelectedChart, series)
	}
	if r.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%d:%s", title, cfg.SelectedChart, configHash(struct {
		Config *WidgetConfig
		Rows   []map[string]any
	}{cfg, ds.ResultList}))
	return r.cache.GetOrRender(key, render)
}

func (r *EChartsRenderer) render(title string, chartType ChartType, s seriesSet) (string, error) {
	switch chartType {
	case ChartBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions(title)...)
		bar.SetXAxis(s.labels)
		for _, m := range s.metrics {
			bar.AddSeries(m.name, toBarData(s.labels, m.values))
		}
		return renderChart(bar)
	case ChartLine:
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalChartOptions(title)...)
		line.SetXAxis(s.labels)
		for _, m := range s.metrics {
			line.AddSeries(m.name, toLineData(s.labels, m.values))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case ChartPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalChartOptions(title)...)
		m := s.metrics[0]
		pie.AddSeries(m.name, toPieData(s.labels, m.values))
		return renderChart(pie)
	case ChartScatter:
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(r.globalChartOptions(title)...)
		scatter.AddSeries(s.metrics[0].name, toScatterData(s))
		return renderChart(scatter)
	default:
		return "", fmt.Errorf("%w: %d", errUnsupportedChart, chartType)
	}
}

var errChartOptionsMissing = errors.New("dashboard: chart options not found in rendered markup")

type optionChart interface {
	Render(w io.Writer) error
	JSON() map[string]any
	JSONNotEscaped() template.HTML
}

// renderChart renders the chart and swaps the option object go-echarts
// writes verbatim into the page script for its HTML-safe JSON encoding, so
// labels keep their text while "<", ">" and "&" cannot close the script.
func renderChart(chart optionChart) (string, error) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return "", err
	}
	raw := strings.TrimSuffix(string(chart.JSONNotEscaped()), "\n")
	safe, err := json.Marshal(chart.JSON())
	if err != nil {
		return "", fmt.Errorf("dashboard: encode chart options: %w", err)
	}
	out := buf.String()
	if !strings.Contains(out, raw) {
		return "", errChartOptionsMissing
	}
	return strings.Replace(out, raw, string(safe), 1), nil
}

func (r *EChartsRenderer) globalChartOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

type metricSeries struct {
	name   string
	values []float64
}

type seriesSet struct {
	labels  []string
	metrics []metricSeries
}

// chartSeries labels each row by its grouping values and reads one series per metric.
func chartSeries(cfg *WidgetConfig, ds Datasource) seriesSet {
	groups := GroupNames(cfg)
	s := seriesSet{labels: make([]string, 0, len(ds.ResultList))}
	for _, m := range cfg.Metrics {
		s.metrics = append(s.metrics, metricSeries{
			name:   m.Key(),
			values: make([]float64, 0, len(ds.ResultList)),
		})
	}
	for idx, row := range ds.ResultList {
		s.labels = append(s.labels, rowLabel(row, groups, idx))
		for i, m := range cfg.Metrics {
			s.metrics[i].values = append(s.metrics[i].values, float64Value(row[m.Key()]))
		}
	}
	return s
}

func rowLabel(row map[string]any, groups []string, idx int) string {
	label := ""
	for _, g := range groups {
		v, ok := row[g]
		if !ok {
			continue
		}
		if label != "" {
			label += " / "
		}
		label += fmt.Sprint(v)
	}
	if label == "" {
		label = strconv.Itoa(idx + 1)
	}
	return label
}

func toBarData(labels []string, values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Name: labels[i], Value: v}
	}
	return data
}

func toLineData(labels []string, values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Name: labels[i], Value: v}
	}
	return data
}

func toPieData(labels []string, values []float64) []opts.PieData {
	data := make([]opts.PieData, len(values))
	for i, v := range values {
		data[i] = opts.PieData{Name: labels[i], Value: v}
	}
	return data
}

// toScatterData pairs the first two metrics; a single metric is plotted against the row index.
func toScatterData(s seriesSet) []opts.ScatterData {
	first := s.metrics[0].values
	data := make([]opts.ScatterData, len(first))
	for i, v := range first {
		value := []float64{float64(i + 1), v}
		if len(s.metrics) > 1 {
			value = []float64{v, s.metrics[1].values[i]}
		}
		data[i] = opts.ScatterData{Name: s.labels[i], Value: value}
	}
	return data
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

// RenderChart renders an item's working config and datasource.
func (b *Board) RenderChart(itemID int, renderer ChartRenderer) (string, error) {
	var out string
	err := b.Do(itemID, func(item *Item) error {
		var err error
		out, err = renderer.RenderChart(item.props.Widget.Name, item.state.Config, item.props.Datasource)
		return err
	})
	return out, err
}
