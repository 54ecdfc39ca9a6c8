package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

var (
	// ErrUnknownAction reports an item action the board does not handle.
	ErrUnknownAction = errors.New("commands: unknown item action")
	// ErrActionNotPermitted reports an action whose toolbar affordance is hidden or disabled.
	ErrActionNotPermitted = errors.New("commands: item action not permitted")
)

// Item actions, named after the data-action of the chrome control that fires them.
const (
	ActionDownload           = "download"
	ActionShare              = "share"
	ActionEditWidget         = "edit-widget"
	ActionFullScreen         = "full-screen"
	ActionBasicInfo          = "basic-info"
	ActionDrillEdit          = "drill-edit"
	ActionDelete             = "delete"
	ActionToggleControlPanel = "toggle-control-panel"
	ActionTurnOffInteract    = "turn-off-interact"
)

// gatedActions must match an enabled chrome tool before they run.
var gatedActions = map[string]bool{
	ActionDownload:   true,
	ActionShare:      true,
	ActionEditWidget: true,
	ActionFullScreen: true,
	ActionBasicInfo:  true,
	ActionDelete:     true,
}

// checkAction fails when a gated action has no enabled tool in the item chrome.
func checkAction(ctx context.Context, board itemBoard, itemID int, action string) error {
	if !gatedActions[action] {
		return nil
	}
	view, err := board.View(ctx, itemID)
	if err != nil {
		return err
	}
	tool, ok := view.Chrome.Tool(action)
	if !ok || tool.Disabled {
		return fmt.Errorf("%w: %s on item %d", ErrActionNotPermitted, action, itemID)
	}
	return nil
}

// ItemActionInput fires a parameterless toolbar or overlay action.
type ItemActionInput struct {
	ItemID int    `json:"item_id"`
	Action string `json:"action"`
}

// ItemActionCommand forwards toolbar actions to the item's parent callbacks.
// Delete also removes the item from the board once the parent was told.
type ItemActionCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewItemActionCommand creates the command.
func NewItemActionCommand(board itemBoard, telemetry Telemetry) *ItemActionCommand {
	return &ItemActionCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ItemActionInput] = (*ItemActionCommand)(nil)

// Execute runs the named action on the addressed item.
func (c *ItemActionCommand) Execute(ctx context.Context, msg ItemActionInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	run, ok := itemActions[msg.Action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
	if err := checkAction(ctx, c.board, msg.ItemID, msg.Action); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		run(item, ctx)
		return nil
	}); err != nil {
		return err
	}
	if msg.Action == ActionDelete {
		if err := c.board.Unmount(msg.ItemID); err != nil && !errors.Is(err, dashboard.ErrItemNotFound) {
			return err
		}
	}
	c.telemetry.Record(ctx, "dashboard.command.item_action", map[string]any{
		"item_id": msg.ItemID,
		"action":  msg.Action,
	})
	return nil
}

var itemActions = map[string]func(*dashboard.Item, context.Context){
	ActionDownload:           (*dashboard.Item).DownloadCsv,
	ActionEditWidget:         (*dashboard.Item).EditWidget,
	ActionFullScreen:         (*dashboard.Item).FullScreen,
	ActionBasicInfo:          (*dashboard.Item).ShowEdit,
	ActionDrillEdit:          (*dashboard.Item).ShowDrillEdit,
	ActionDelete:             (*dashboard.Item).Delete,
	ActionTurnOffInteract:    (*dashboard.Item).TurnOffInteract,
	ActionToggleControlPanel: func(item *dashboard.Item, _ context.Context) { item.ToggleControlPanel() },
}

// ShareLinkInput requests a share link for an item's widget.
type ShareLinkInput struct {
	ItemID   int    `json:"item_id"`
	AuthName string `json:"auth_name"`
}

// ShareLinkCommand asks the parent for a share link.
type ShareLinkCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewShareLinkCommand creates the command.
func NewShareLinkCommand(board itemBoard, telemetry Telemetry) *ShareLinkCommand {
	return &ShareLinkCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ShareLinkInput] = (*ShareLinkCommand)(nil)

// Execute requests the link when the item offers sharing.
func (c *ShareLinkCommand) Execute(ctx context.Context, msg ShareLinkInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := checkAction(ctx, c.board, msg.ItemID, ActionShare); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.LoadShareLink(ctx, msg.AuthName)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.share_link", map[string]any{"item_id": msg.ItemID})
	return nil
}

// AuthorizeShareInput records the outcome of the share panel authorization.
type AuthorizeShareInput struct {
	ItemID     int  `json:"item_id"`
	Authorized bool `json:"authorized"`
}

// AuthorizeShareCommand stores the share panel authorization on the item.
type AuthorizeShareCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewAuthorizeShareCommand creates the command.
func NewAuthorizeShareCommand(board itemBoard, telemetry Telemetry) *AuthorizeShareCommand {
	return &AuthorizeShareCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AuthorizeShareInput] = (*AuthorizeShareCommand)(nil)

func (c *AuthorizeShareCommand) Execute(ctx context.Context, msg AuthorizeShareInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.AuthorizeSharePanel(msg.Authorized)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.authorize_share", map[string]any{
		"item_id":    msg.ItemID,
		"authorized": msg.Authorized,
	})
	return nil
}

// ControlOptionsInput asks the parent for the options of a control.
type ControlOptionsInput struct {
	ItemID          int    `json:"item_id"`
	ControlKey      string `json:"control_key"`
	UseUserOptions  bool   `json:"use_user_options"`
	ParamsOrOptions any    `json:"params_or_options,omitempty"`
}

// ControlOptionsCommand forwards a control options request.
type ControlOptionsCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewControlOptionsCommand creates the command.
func NewControlOptionsCommand(board itemBoard, telemetry Telemetry) *ControlOptionsCommand {
	return &ControlOptionsCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ControlOptionsInput] = (*ControlOptionsCommand)(nil)

// Execute forwards the request tagged with the item ID.
func (c *ControlOptionsCommand) Execute(ctx context.Context, msg ControlOptionsInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.GetControlOptions(ctx, msg.ControlKey, msg.UseUserOptions, msg.ParamsOrOptions)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.control_options", map[string]any{
		"item_id":     msg.ItemID,
		"control_key": msg.ControlKey,
	})
	return nil
}

// InteractInput triggers cross-item linkage with the clicked data.
type InteractInput struct {
	ItemID  int            `json:"item_id"`
	Trigger map[string]any `json:"trigger"`
}

// InteractCommand forwards a linkage trigger to the parent.
type InteractCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewInteractCommand creates the command.
func NewInteractCommand(board itemBoard, telemetry Telemetry) *InteractCommand {
	return &InteractCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[InteractInput] = (*InteractCommand)(nil)

func (c *InteractCommand) Execute(ctx context.Context, msg InteractInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.DoInteract(ctx, msg.Trigger)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.interact", map[string]any{"item_id": msg.ItemID})
	return nil
}

// SelectChartItemsInput carries the chart items the viewer selected.
type SelectChartItemsInput struct {
	ItemID   int   `json:"item_id"`
	Selected []int `json:"selected"`
}

// SelectChartItemsCommand forwards a chart selection to the parent.
type SelectChartItemsCommand struct {
	board     itemBoard
	telemetry Telemetry
}

// NewSelectChartItemsCommand creates the command.
func NewSelectChartItemsCommand(board itemBoard, telemetry Telemetry) *SelectChartItemsCommand {
	return &SelectChartItemsCommand{board: board, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectChartItemsInput] = (*SelectChartItemsCommand)(nil)

func (c *SelectChartItemsCommand) Execute(ctx context.Context, msg SelectChartItemsInput) error {
	if err := checkTarget(c.board, msg.ItemID); err != nil {
		return err
	}
	if err := c.board.Do(msg.ItemID, func(item *dashboard.Item) error {
		item.SelectChartsItems(ctx, msg.Selected)
		return nil
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.select_chart_items", map[string]any{
		"item_id":  msg.ItemID,
		"selected": len(msg.Selected),
	})
	return nil
}
