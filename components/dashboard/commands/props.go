package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

// SetPollingInput changes an item's polling settings.
type SetPollingInput struct {
	ItemID    int    `json:"item_id"`
	Polling   bool   `json:"polling"`
	Frequency string `json:"frequency"`
}

// SetPollingCommand reconciles an item with new polling props.
type SetPollingCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewSetPollingCommand creates the command.
func NewSetPollingCommand(board itemBoard, telemetry Telemetry) *SetPollingCommand {
	return &SetPollingCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetPollingInput] = (*SetPollingCommand)(nil)

// Execute patches the polling props of the addressed item.
func (c *SetPollingCommand) Execute(ctx context.Context, msg SetPollingInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Patch(ctx, msg.ItemID, func(p *dashboard.Props) {
		p.Polling = msg.Polling
		p.Frequency = msg.Frequency
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.set_polling", map[string]any{
		"item_id":   msg.ItemID,
		"polling":   msg.Polling,
		"frequency": msg.Frequency,
	})
	return nil
}

// MarkRenderedInput reports that an item became visible.
type MarkRenderedInput struct {
	ItemID int `json:"item_id"`
}

// MarkRenderedCommand flips an item's rendered prop, triggering its initial load.
type MarkRenderedCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewMarkRenderedCommand creates the command.
func NewMarkRenderedCommand(board itemBoard, telemetry Telemetry) *MarkRenderedCommand {
	return &MarkRenderedCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MarkRenderedInput] = (*MarkRenderedCommand)(nil)

// Execute marks the addressed item rendered.
func (c *MarkRenderedCommand) Execute(ctx context.Context, msg MarkRenderedInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Patch(ctx, msg.ItemID, func(p *dashboard.Props) {
		p.Rendered = true
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.rendered", map[string]any{"item_id": msg.ItemID})
	return nil
}
