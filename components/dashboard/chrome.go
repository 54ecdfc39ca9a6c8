package dashboard

import (
	"context"
	"sort"

	"github.com/ettle/strcase"
)

// ModuleViz is the permission module guarding visualization editing.
const ModuleViz = "viz"

// PermissionChecker answers per-project permission questions for toolbar affordances.
type PermissionChecker interface {
	// CanAccessModule gates module-level actions; destructive marks delete-like actions.
	CanAccessModule(ctx context.Context, project Project, module string, destructive bool) bool
	// CanShareDownload gates share and download actions.
	CanShareDownload(ctx context.Context, project Project, action string) bool
}

type allowAllPermissions struct{}

func (allowAllPermissions) CanAccessModule(context.Context, Project, string, bool) bool { return true }
func (allowAllPermissions) CanShareDownload(context.Context, Project, string) bool      { return true }

// Tool is a toolbar affordance.
type Tool struct {
	ID       string
	Label    string
	Icon     string
	Disabled bool
	Children []Tool
}

// CategoryColumn is a categorical column of the view model offered for drilling.
type CategoryColumn struct {
	Name       string
	Type       string
	VisualType string
}

// EmptyMask drives the placeholder drawn over an item without data.
type EmptyMask struct {
	Loading       bool
	ChartType     ChartType
	Empty         bool
	HasDataConfig bool
}

// Chrome is everything drawn around the chart itself.
type Chrome struct {
	ItemID               int
	WidgetID             int
	Title                string
	Description          string
	Loading              bool
	Interacting          bool
	Shared               bool
	RenderType           RenderType
	ControlHandle        bool
	ControlPanelVisible  bool
	SharePanelAuthorized bool
	Tools                []Tool
	DrillToggle          Tool
	DrillPanelVisible    bool
	HistoryVisible       bool
	Categories           []CategoryColumn
	Empty                EmptyMask
}

// Chrome builds the item chrome for the current props and state.
func (i *Item) Chrome(ctx context.Context, perms PermissionChecker) Chrome {
	return BuildChrome(ctx, i.props, i.state, perms)
}

// BuildChrome assembles toolbar affordances, gating share/download/edit/delete by
// permission. Shared containers skip permission checks and expose only a download.
func BuildChrome(ctx context.Context, props Props, state ItemState, perms PermissionChecker) Chrome {
	if perms == nil {
		perms = allowAllPermissions{}
	}
	shared := props.Container == ContainerShare
	c := Chrome{
		ItemID:               props.ItemID,
		WidgetID:             props.Widget.ID,
		Title:                props.Widget.Name,
		Description:          props.Widget.Description,
		Loading:              props.Loading,
		Interacting:          props.Interacting,
		Shared:               shared,
		RenderType:           props.RenderType,
		ControlPanelVisible:  state.ControlPanelVisible,
		SharePanelAuthorized: state.SharePanelAuthorized,
		DrillPanelVisible:    state.Brushed.HasSelection(),
		HistoryVisible:       len(props.DrillHistory) > 0,
		Categories:           categoryColumns(state.Model),
		Empty: EmptyMask{
			Loading:       props.Loading,
			Empty:         len(props.Datasource.ResultList) == 0,
			HasDataConfig: state.Config.HasDataConfig(),
		},
	}
	if props.Loading {
		c.RenderType = RenderLoading
	}
	if state.Config != nil {
		c.ControlHandle = len(state.Config.Controls) > 0
		c.Empty.ChartType = state.Config.SelectedChart
	}
	c.DrillToggle = newTool("DrillToggle", "Drill", "icon-cube2")
	if state.Drilling {
		c.DrillToggle.Icon = "icon-cube1"
	}

	if !props.Loading {
		c.Tools = append(c.Tools, newTool("SyncData", "Sync data", "reload"))
	}
	if shared {
		c.Tools = append(c.Tools,
			newTool("FullScreen", "Full screen", "arrows-alt"),
			newTool("Download", "Download data", "download"),
		)
		return c
	}

	if props.Project != nil {
		project := *props.Project
		c.Tools = append(c.Tools, newTool("EditWidget", "Edit widget", "icon-edit-2"))
		c.Tools = append(c.Tools, newTool("FullScreen", "Full screen", "arrows-alt"))
		if perms.CanShareDownload(ctx, project, "download") {
			c.Tools = append(c.Tools,
				newTool("Share", "Share", "share-alt"),
				newTool("Download", "Download data", "download"),
			)
		}
	} else {
		c.Tools = append(c.Tools, newTool("FullScreen", "Full screen", "arrows-alt"))
	}

	info := newTool("BasicInfo", "Basic info", "")
	remove := newTool("Delete", "Delete", "")
	if props.Project == nil {
		info.Disabled = true
		remove.Disabled = true
	} else {
		info.Disabled = !perms.CanAccessModule(ctx, *props.Project, ModuleViz, false)
		remove.Disabled = !perms.CanAccessModule(ctx, *props.Project, ModuleViz, true)
	}
	menu := newTool("Menu", "More", "ellipsis")
	menu.Children = []Tool{info, remove}
	c.Tools = append(c.Tools, menu)
	return c
}

// ToolIDs lists the IDs of the top-level tools, in order.
func (c Chrome) ToolIDs() []string {
	ids := make([]string, 0, len(c.Tools))
	for _, t := range c.Tools {
		ids = append(ids, t.ID)
	}
	return ids
}

// Tool finds a tool, searching menus too.
func (c Chrome) Tool(id string) (Tool, bool) {
	for _, t := range c.Tools {
		if t.ID == id {
			return t, true
		}
		for _, child := range t.Children {
			if child.ID == id {
				return child, true
			}
		}
	}
	return Tool{}, false
}

func newTool(name, label, icon string) Tool {
	return Tool{ID: strcase.ToKebab(name), Label: label, Icon: icon}
}

func categoryColumns(model ViewModel) []CategoryColumn {
	cols := make([]CategoryColumn, 0, len(model))
	for name, field := range model {
		if field.ModelType != "category" {
			continue
		}
		cols = append(cols, CategoryColumn{
			Name:       name,
			Type:       "category",
			VisualType: field.VisualType,
		})
	}
	sort.Slice(cols, func(a, b int) bool { return cols[a].Name < cols[b].Name })
	return cols
}
