package dashboard

import "context"

// Actions are identifier-keyed callbacks owned by the parent container.
type Actions struct {
	GetControlOptions  func(ctx context.Context, req ControlOptionsRequest)
	DownloadCsv        func(ctx context.Context, itemID, widgetID int, shareInfo string)
	LoadShareLink      func(ctx context.Context, widgetID, itemID int, authName string)
	ShowEdit           func(ctx context.Context, itemID int)
	ShowDrillEdit      func(ctx context.Context, itemID int)
	DeleteItem         func(ctx context.Context, itemID int)
	EditWidget         func(ctx context.Context, itemID, widgetID int)
	TurnOffInteract    func(ctx context.Context, itemID int)
	ShowFullScreen     func(ctx context.Context, req FullScreenRequest)
	CheckTableInteract func(ctx context.Context, itemID int) bool
	DoTableInteract    func(ctx context.Context, itemID int, trigger map[string]any)
	SelectChartsItems  func(ctx context.Context, itemID int, renderType string, selected []int)
}

func (a Actions) normalize() Actions {
	if a.GetControlOptions == nil {
		a.GetControlOptions = func(context.Context, ControlOptionsRequest) {}
	}
	if a.DownloadCsv == nil {
		a.DownloadCsv = func(context.Context, int, int, string) {}
	}
	if a.LoadShareLink == nil {
		a.LoadShareLink = func(context.Context, int, int, string) {}
	}
	if a.ShowEdit == nil {
		a.ShowEdit = func(context.Context, int) {}
	}
	if a.ShowDrillEdit == nil {
		a.ShowDrillEdit = func(context.Context, int) {}
	}
	if a.DeleteItem == nil {
		a.DeleteItem = func(context.Context, int) {}
	}
	if a.EditWidget == nil {
		a.EditWidget = func(context.Context, int, int) {}
	}
	if a.TurnOffInteract == nil {
		a.TurnOffInteract = func(context.Context, int) {}
	}
	if a.ShowFullScreen == nil {
		a.ShowFullScreen = func(context.Context, FullScreenRequest) {}
	}
	if a.CheckTableInteract == nil {
		a.CheckTableInteract = func(context.Context, int) bool { return false }
	}
	if a.DoTableInteract == nil {
		a.DoTableInteract = func(context.Context, int, map[string]any) {}
	}
	if a.SelectChartsItems == nil {
		a.SelectChartsItems = func(context.Context, int, string, []int) {}
	}
	return a
}

// GetControlOptions asks the parent for the options of a control.
func (i *Item) GetControlOptions(ctx context.Context, controlKey string, useUserOptions bool, paramsOrOptions any) {
	i.opts.Actions.GetControlOptions(ctx, ControlOptionsRequest{
		ControlKey:      controlKey,
		UseUserOptions:  useUserOptions,
		ParamsOrOptions: paramsOrOptions,
		ItemID:          i.props.ItemID,
	})
}

// DownloadCsv exports the current widget data.
func (i *Item) DownloadCsv(ctx context.Context) {
	i.opts.Actions.DownloadCsv(ctx, i.props.ItemID, i.props.Widget.ID, i.props.ShareInfo)
	i.record(ctx, "dashboard.item.download", nil)
}

// LoadShareLink requests a share link for the widget.
func (i *Item) LoadShareLink(ctx context.Context, authName string) {
	i.opts.Actions.LoadShareLink(ctx, i.props.Widget.ID, i.props.ItemID, authName)
}

// ShowEdit opens the item's basic info editor.
func (i *Item) ShowEdit(ctx context.Context) {
	i.opts.Actions.ShowEdit(ctx, i.props.ItemID)
}

// ShowDrillEdit opens the drill settings editor.
func (i *Item) ShowDrillEdit(ctx context.Context) {
	i.opts.Actions.ShowDrillEdit(ctx, i.props.ItemID)
}

// Delete removes the item from the dashboard.
func (i *Item) Delete(ctx context.Context) {
	i.opts.Actions.DeleteItem(ctx, i.props.ItemID)
	i.record(ctx, "dashboard.item.delete", nil)
}

// EditWidget opens the widget in the workbench.
func (i *Item) EditWidget(ctx context.Context) {
	i.opts.Actions.EditWidget(ctx, i.props.ItemID, i.props.Widget.ID)
}

// TurnOffInteract cancels cross-item linkage.
func (i *Item) TurnOffInteract(ctx context.Context) {
	i.opts.Actions.TurnOffInteract(ctx, i.props.ItemID)
}

// FullScreen expands the item.
func (i *Item) FullScreen(ctx context.Context) {
	i.opts.Actions.ShowFullScreen(ctx, FullScreenRequest{
		ItemID:     i.props.ItemID,
		Widget:     i.props.Widget,
		Model:      i.state.Model,
		Loading:    i.props.Loading,
		RenderType: i.props.RenderType,
	})
}

// CheckTableInteract reports whether the table is currently linked.
func (i *Item) CheckTableInteract(ctx context.Context) bool {
	return i.opts.Actions.CheckTableInteract(ctx, i.props.ItemID)
}

// DoInteract triggers cross-item linkage with the clicked data.
func (i *Item) DoInteract(ctx context.Context, trigger map[string]any) {
	i.opts.Actions.DoTableInteract(ctx, i.props.ItemID, trigger)
}

// SelectChartsItems forwards the chart items the viewer selected.
func (i *Item) SelectChartsItems(ctx context.Context, selected []int) {
	i.opts.Actions.SelectChartsItems(ctx, i.props.ItemID, "select", selected)
}
