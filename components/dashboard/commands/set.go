package commands

// Set bundles the commands of a board so transports can share them.
type Set struct {
	ToggleDrill   *ToggleDrillCommand
	Drill         *DrillCommand
	DrillPath     *DrillPathCommand
	DrillHistory  *SelectDrillHistoryCommand
	ChangePage    *ChangePageCommand
	Sync          *SyncCommand
	ControlSearch *ControlSearchCommand
	Brush         *BrushCommand
	SetPolling    *SetPollingCommand
	MarkRendered  *MarkRenderedCommand

	ItemAction       *ItemActionCommand
	ShareLink        *ShareLinkCommand
	AuthorizeShare   *AuthorizeShareCommand
	ControlOptions   *ControlOptionsCommand
	Interact         *InteractCommand
	SelectChartItems *SelectChartItemsCommand
}

// NewSet builds every command against the same board and telemetry sink.
func NewSet(board itemBoard, telemetry Telemetry) *Set {
	return &Set{
		ToggleDrill:   NewToggleDrillCommand(board, telemetry),
		Drill:         NewDrillCommand(board, telemetry),
		DrillPath:     NewDrillPathCommand(board, telemetry),
		DrillHistory:  NewSelectDrillHistoryCommand(board, telemetry),
		ChangePage:    NewChangePageCommand(board, telemetry),
		Sync:          NewSyncCommand(board, telemetry),
		ControlSearch: NewControlSearchCommand(board, telemetry),
		Brush:         NewBrushCommand(board, telemetry),
		SetPolling:    NewSetPollingCommand(board, telemetry),
		MarkRendered:  NewMarkRenderedCommand(board, telemetry),

		ItemAction:       NewItemActionCommand(board, telemetry),
		ShareLink:        NewShareLinkCommand(board, telemetry),
		AuthorizeShare:   NewAuthorizeShareCommand(board, telemetry),
		ControlOptions:   NewControlOptionsCommand(board, telemetry),
		Interact:         NewInteractCommand(board, telemetry),
		SelectChartItems: NewSelectChartItemsCommand(board, telemetry),
	}
}
