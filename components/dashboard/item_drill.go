package dashboard

import (
	"context"
	"log/slog"
)

// DrillHistoryRequest is a selection made in the drill history overlay.
type DrillHistoryRequest struct {
	FromHistory bool `json:"fromHistory"`
	Index       int  `json:"index"`
	ItemID      int  `json:"itemId"`
	WidgetID    int  `json:"widgetId"`
}

// ToggleDrill flips drill mode and rerenders the pristine configuration.
func (i *Item) ToggleDrill(ctx context.Context) {
	i.setDrillState(ReduceToggleDrill(i.drillState()))
	i.opts.DrillListener.SelectDrillHistory(ctx, DrillHistorySelection{
		Index:    -1,
		ItemID:   i.props.ItemID,
		WidgetID: i.props.Widget.ID,
	})
	i.fetch(ctx, RenderRerender, i.props.Widget.ID, nil)
	i.record(ctx, "dashboard.item.drill_toggle", map[string]any{"drilling": i.state.Drilling})
}

// Drill narrows or widens the grouping on a single dimension.
func (i *Item) Drill(ctx context.Context, action DrillAction) {
	event := DrillEvent{
		Row:              []string{},
		Col:              []string{},
		Mode:             i.widgetMode,
		ItemID:           i.props.ItemID,
		WidgetID:         i.props.Widget.ID,
		Groups:           action.Name,
		Filters:          i.state.Brushed,
		SourceDataFilter: i.state.SourceRows,
	}
	switch action.Axis {
	case AxisRow:
		event.Row = []string{action.Name}
	case AxisCol:
		event.Col = []string{action.Name}
	}
	i.opts.DrillListener.DrillData(ctx, event)

	i.setDrillState(ReduceDrill(i.drillState(), action))
	i.opts.Logger.Debug("drill applied",
		slog.Int("item_id", i.props.ItemID),
		slog.String("dimension", action.Name),
		slog.String("axis", string(action.Axis)),
	)
	i.record(ctx, "dashboard.item.drill", map[string]any{"dimension": action.Name, "axis": string(action.Axis)})
}

// DrillPath navigates to the next widget of the configured drill path, filtered
// by the brushed source rows.
func (i *Item) DrillPath(ctx context.Context) error {
	result, err := BuildDrillPath(DrillPathInput{
		Setting:    i.props.DrillPathSetting,
		History:    i.props.DrillHistory,
		SourceRows: i.state.SourceRows,
		Widgets:    i.opts.Widgets,
	})
	if err != nil {
		return err
	}
	i.state.Config = result.Config.Clone()
	status := result.Status
	i.fetch(ctx, RenderRerender, result.Target.ID, &FetchOptions{DrillStatus: &status})
	i.opts.DrillListener.DrillPathData(ctx, DrillPathEvent{
		SourceDataFilter:   i.state.SourceRows,
		Widget:             result.Target.ID,
		ItemID:             i.props.ItemID,
		WidgetProps:        result.Config,
		Out:                result.Out,
		Enter:              result.Enter,
		Value:              status.Filter.Value,
		CurrentDrillStatus: status,
	})
	i.record(ctx, "dashboard.item.drill_path", map[string]any{
		"target_widget": result.Target.ID,
		"values":        len(status.Filter.Value),
	})
	return nil
}

// SelectDrillHistory restores the configuration recorded for a history entry.
func (i *Item) SelectDrillHistory(ctx context.Context, req DrillHistoryRequest) {
	sel := HistorySelection{
		FromHistory: req.FromHistory,
		Index:       req.Index,
		History:     i.props.DrillHistory,
	}
	i.setDrillState(ReduceHistorySelection(i.drillState(), sel))

	widgetID := i.state.CacheWidgetID
	if !req.FromHistory && req.Index > -1 {
		widgetID = req.WidgetID
	}
	notice := DrillHistorySelection{
		Index:    req.Index,
		ItemID:   req.ItemID,
		WidgetID: widgetID,
	}
	if req.FromHistory {
		notice.History = i.props.DrillHistory
	}
	i.opts.DrillListener.SelectDrillHistory(ctx, notice)
	i.record(ctx, "dashboard.item.drill_history", map[string]any{"index": req.Index})
}

func (i *Item) drillState() DrillState {
	return DrillState{
		Config:     i.state.Config,
		Pristine:   i.state.Pristine,
		Mode:       i.widgetMode,
		Drilling:   i.state.Drilling,
		Brushed:    i.state.Brushed,
		SourceRows: i.state.SourceRows,
	}
}

func (i *Item) setDrillState(s DrillState) {
	i.state.Config = s.Config
	i.state.Drilling = s.Drilling
	i.state.Brushed = s.Brushed
	i.state.SourceRows = s.SourceRows
}
