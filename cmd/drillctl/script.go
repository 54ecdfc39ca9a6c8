package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-item/components/dashboard"
	"github.com/goliatone/go-dashboard-item/components/dashboard/commands"
)

var errUnknownGesture = errors.New("drillctl: unknown gesture")

// gesture is one step of a replay script.
type gesture struct {
	Item        int                        `yaml:"item"`
	Gesture     string                     `yaml:"gesture"`
	Name        string                     `yaml:"name,omitempty"`
	Axis        string                     `yaml:"axis,omitempty"`
	Payload     string                     `yaml:"payload,omitempty"`
	Index       int                        `yaml:"index,omitempty"`
	FromHistory bool                       `yaml:"from_history,omitempty"`
	PageNo      int                        `yaml:"page_no,omitempty"`
	PageSize    int                        `yaml:"page_size,omitempty"`
	Conditions  *dashboard.QueryConditions `yaml:"conditions,omitempty"`
}

func readScript(path string) ([]gesture, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("drillctl: open script %s: %w", path, err)
	}
	defer f.Close()
	return decodeScript(f)
}

func decodeScript(r io.Reader) ([]gesture, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var steps []gesture
	if err := decoder.Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("drillctl: parse script: %w", err)
	}
	return steps, nil
}

func (g gesture) apply(ctx context.Context, set *commands.Set) error {
	switch g.Gesture {
	case "toggle-drill":
		return set.ToggleDrill.Execute(ctx, commands.ToggleDrillInput{ItemID: g.Item})
	case "drill":
		return set.Drill.Execute(ctx, commands.DrillInput{ItemID: g.Item, Name: g.Name, Axis: axisMode(g.Axis)})
	case "drill-path":
		return set.DrillPath.Execute(ctx, commands.DrillPathInput{ItemID: g.Item})
	case "history":
		return set.DrillHistory.Execute(ctx, dashboard.DrillHistoryRequest{
			FromHistory: g.FromHistory,
			Index:       g.Index,
			ItemID:      g.Item,
		})
	case "page":
		return set.ChangePage.Execute(ctx, commands.ChangePageInput{ItemID: g.Item, PageNo: g.PageNo, PageSize: g.PageSize})
	case "sync":
		return set.Sync.Execute(ctx, commands.SyncInput{ItemID: g.Item})
	case "search":
		var conditions dashboard.QueryConditions
		if g.Conditions != nil {
			conditions = *g.Conditions
		}
		return set.ControlSearch.Execute(ctx, commands.ControlSearchInput{ItemID: g.Item, Conditions: conditions})
	case "brush":
		return set.Brush.Execute(ctx, commands.BrushInput{ItemID: g.Item, Payload: g.Payload})
	case "action":
		return set.ItemAction.Execute(ctx, commands.ItemActionInput{ItemID: g.Item, Action: g.Name})
	default:
		return fmt.Errorf("%w: %q", errUnknownGesture, g.Gesture)
	}
}

func axisMode(raw string) dashboard.AxisMode {
	switch dashboard.AxisMode(raw) {
	case dashboard.AxisCol, dashboard.AxisRow:
		return dashboard.AxisMode(raw)
	default:
		return dashboard.AxisFree
	}
}

// rowsFile holds sample rows keyed by widget ID.
type rowsFile map[int][]map[string]any

func readRows(path string) (rowsFile, error) {
	if path == "" {
		return rowsFile{}, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("drillctl: read rows %s: %w", path, err)
	}
	var rows rowsFile
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("drillctl: parse rows %s: %w", path, err)
	}
	return rows, nil
}
