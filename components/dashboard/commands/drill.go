package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

// ToggleDrillInput flips drill mode on an item.
type ToggleDrillInput struct {
	ItemID int `json:"item_id"`
}

// ToggleDrillCommand flips drill mode and rerenders the pristine config.
type ToggleDrillCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewToggleDrillCommand creates the command.
func NewToggleDrillCommand(board itemBoard, telemetry Telemetry) *ToggleDrillCommand {
	return &ToggleDrillCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleDrillInput] = (*ToggleDrillCommand)(nil)

// Execute toggles drilling on the addressed item.
func (c *ToggleDrillCommand) Execute(ctx context.Context, msg ToggleDrillInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.ToggleDrill(ctx)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.toggle_drill", map[string]any{"item_id": msg.ItemID})
	return nil
}

// DrillInput drills an item on one dimension.
type DrillInput struct {
	ItemID int                `json:"item_id"`
	Name   string             `json:"name"`
	Axis   dashboard.AxisMode `json:"axis,omitempty"`
}

// DrillCommand applies a single-dimension drill.
type DrillCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewDrillCommand creates the command.
func NewDrillCommand(board itemBoard, telemetry Telemetry) *DrillCommand {
	return &DrillCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DrillInput] = (*DrillCommand)(nil)

// Execute drills the addressed item.
func (c *DrillCommand) Execute(ctx context.Context, msg DrillInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.Drill(ctx, dashboard.DrillAction{Name: msg.Name, Axis: msg.Axis})
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.drill", map[string]any{
		"item_id":   msg.ItemID,
		"dimension": msg.Name,
	})
	return nil
}

// DrillPathInput advances an item along its drill path.
type DrillPathInput struct {
	ItemID int `json:"item_id"`
}

// DrillPathCommand navigates to the next widget of the drill path.
type DrillPathCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewDrillPathCommand creates the command.
func NewDrillPathCommand(board itemBoard, telemetry Telemetry) *DrillPathCommand {
	return &DrillPathCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DrillPathInput] = (*DrillPathCommand)(nil)

// Execute follows the drill path of the addressed item.
func (c *DrillPathCommand) Execute(ctx context.Context, msg DrillPathInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		return item.DrillPath(ctx)
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.drill_path", map[string]any{"item_id": msg.ItemID})
	return nil
}

// SelectDrillHistoryCommand jumps to a recorded drill history entry.
type SelectDrillHistoryCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewSelectDrillHistoryCommand creates the command.
func NewSelectDrillHistoryCommand(board itemBoard, telemetry Telemetry) *SelectDrillHistoryCommand {
	return &SelectDrillHistoryCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[dashboard.DrillHistoryRequest] = (*SelectDrillHistoryCommand)(nil)

// Execute applies the history selection to the addressed item.
func (c *SelectDrillHistoryCommand) Execute(ctx context.Context, msg dashboard.DrillHistoryRequest) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.SelectDrillHistory(ctx, msg)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.drill_history", map[string]any{
		"item_id": msg.ItemID,
		"index":   msg.Index,
	})
	return nil
}
