package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

// ChangePageInput moves a paged table to another page.
type ChangePageInput struct {
	ItemID   int `json:"item_id"`
	PageNo   int `json:"page_no"`
	PageSize int `json:"page_size"`
}

// ChangePageCommand refetches an item at the requested page.
type ChangePageCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewChangePageCommand creates the command.
func NewChangePageCommand(board itemBoard, telemetry Telemetry) *ChangePageCommand {
	return &ChangePageCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ChangePageInput] = (*ChangePageCommand)(nil)

// Execute changes the page of the addressed item.
func (c *ChangePageCommand) Execute(ctx context.Context, msg ChangePageInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.ChangePage(ctx, msg.PageNo, msg.PageSize)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.change_page", map[string]any{
		"item_id": msg.ItemID,
		"page_no": msg.PageNo,
	})
	return nil
}

// SyncInput refreshes an item.
type SyncInput struct {
	ItemID int `json:"item_id"`
}

// SyncCommand issues a refresh fetch.
type SyncCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewSyncCommand creates the command.
func NewSyncCommand(board itemBoard, telemetry Telemetry) *SyncCommand {
	return &SyncCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SyncInput] = (*SyncCommand)(nil)

// Execute refreshes the addressed item.
func (c *SyncCommand) Execute(ctx context.Context, msg SyncInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.Sync(ctx)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.sync", map[string]any{"item_id": msg.ItemID})
	return nil
}

// ControlSearchInput submits the control panel form.
type ControlSearchInput struct {
	ItemID     int                       `json:"item_id"`
	Conditions dashboard.QueryConditions `json:"conditions"`
}

// ControlSearchCommand refetches with control panel conditions.
type ControlSearchCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewControlSearchCommand creates the command.
func NewControlSearchCommand(board itemBoard, telemetry Telemetry) *ControlSearchCommand {
	return &ControlSearchCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ControlSearchInput] = (*ControlSearchCommand)(nil)

// Execute runs the control search on the addressed item.
func (c *ControlSearchCommand) Execute(ctx context.Context, msg ControlSearchInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.ControlSearch(ctx, msg.Conditions)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.control_search", map[string]any{"item_id": msg.ItemID})
	return nil
}

// BrushInput forwards a chart selection payload.
type BrushInput struct {
	ItemID  int    `json:"item_id"`
	Payload string `json:"payload"`
}

// BrushCommand decodes a brush payload into the item's selection.
type BrushCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewBrushCommand creates the command.
func NewBrushCommand(board itemBoard, telemetry Telemetry) *BrushCommand {
	return &BrushCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[BrushInput] = (*BrushCommand)(nil)

// Execute applies the selection to the addressed item.
func (c *BrushCommand) Execute(ctx context.Context, msg BrushInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		return item.Brush(msg.Payload)
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.brush", map[string]any{"item_id": msg.ItemID})
	return nil
}
