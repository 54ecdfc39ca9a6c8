package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errDrillPathNotConfigured = errors.New("dashboard: drill path setting needs at least two steps")
	errDrillPathExhausted     = errors.New("dashboard: drill path has no further step")
	errDrillPathTargetMissing = errors.New("dashboard: drill path target widget not found")
)

// Drill path errors a transport can report as client or configuration faults.
var (
	ErrDrillPathNotConfigured = errDrillPathNotConfigured
	ErrDrillPathExhausted     = errDrillPathExhausted
	ErrDrillPathTargetMissing = errDrillPathTargetMissing
)

// DrillPathInput is everything needed to build a drill path step.
type DrillPathInput struct {
	Setting    []DrillPathStep
	History    []DrillHistoryEntry
	SourceRows []map[string]any
	Widgets    WidgetLookup
}

// DrillPathResult is the resolved target of a drill path step.
type DrillPathResult struct {
	Out    string
	Enter  string
	Target Widget
	Config *WidgetConfig
	Status DrillStatus
}

// ResolveDrillPathStep returns the source column, the target column and the target
// widget for the current history depth.
func ResolveDrillPathStep(setting []DrillPathStep, historyLen int) (out, enter string, widgetID int, err error) {
	if len(setting) < 2 {
		return "", "", 0, errDrillPathNotConfigured
	}
	if historyLen == 0 {
		return setting[0].Out, setting[1].Enter, setting[1].Widget, nil
	}
	current := historyLen + 1
	if len(setting) <= 2 || current >= len(setting) {
		return "", "", 0, errDrillPathExhausted
	}
	return setting[current-1].Out, setting[current].Enter, setting[current].Widget, nil
}

// BuildDrillPath builds the drill status for the next widget of a drill path.
func BuildDrillPath(in DrillPathInput) (DrillPathResult, error) {
	out, enter, widgetID, err := ResolveDrillPathStep(in.Setting, len(in.History))
	if err != nil {
		return DrillPathResult{}, err
	}
	if in.Widgets == nil {
		return DrillPathResult{}, fmt.Errorf("%w: no widget lookup for %d", errDrillPathTargetMissing, widgetID)
	}
	target, ok := in.Widgets.Widget(widgetID)
	if !ok {
		return DrillPathResult{}, fmt.Errorf("%w: %d", errDrillPathTargetMissing, widgetID)
	}
	cfg, err := ParseWidgetConfig(target.Config)
	if err != nil {
		return DrillPathResult{}, fmt.Errorf("dashboard: drill path target %d: %w", widgetID, err)
	}

	values := distinctColumnValues(in.SourceRows, out)
	sql := InPredicate(enter, values)
	sqls := make([]string, 0, len(cfg.Filters)+1)
	for _, f := range cfg.Filters {
		sqls = append(sqls, f.Config.SQL)
	}
	sqls = append(sqls, sql)
	if len(in.History) > 0 {
		if prev := in.History[len(in.History)-1]; prev.Filter != nil && len(prev.Filter.SQLs) > 0 {
			sqls = append(sqls, prev.Filter.SQLs...)
		}
	}

	status := DrillStatus{
		Filter: DrillFilter{
			Out:   out,
			Enter: enter,
			Value: values,
			SQL:   sql,
			SQLs:  sqls,
		},
		Groups:       GroupNames(cfg),
		Name:         target.Name,
		WidgetConfig: cfg,
	}
	return DrillPathResult{
		Out:    out,
		Enter:  enter,
		Target: target,
		Config: cfg,
		Status: status,
	}, nil
}

// GroupNames lists the grouping fields implied by a widget config: columns and rows
// (minus the metric-name pseudo-dimension), color items and categorical labels.
func GroupNames(cfg *WidgetConfig) []string {
	if cfg == nil {
		return nil
	}
	groups := make([]string, 0, len(cfg.Cols)+len(cfg.Rows))
	for _, dims := range [][]Dimension{cfg.Cols, cfg.Rows} {
		for _, d := range dims {
			if d.Name != MetricNameDimension {
				groups = append(groups, d.Name)
			}
		}
	}
	if cfg.Color != nil {
		for _, item := range cfg.Color.Items {
			groups = append(groups, item.Name)
		}
	}
	if cfg.Label != nil {
		for _, item := range cfg.Label.Items {
			if item.Type == "category" {
				groups = append(groups, item.Name)
			}
		}
	}
	return groups
}

// InPredicate renders `column in ('v1','v2')`.
func InPredicate(column string, values []any) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, "'"+strings.ReplaceAll(formatSQLValue(v), "'", "''")+"'")
	}
	return fmt.Sprintf("%s in (%s)", column, strings.Join(quoted, ","))
}

// distinctColumnValues keeps first-occurrence order and skips rows without the column.
func distinctColumnValues(rows []map[string]any, column string) []any {
	values := make([]any, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		key := formatSQLValue(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, v)
	}
	return values
}

func formatSQLValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
