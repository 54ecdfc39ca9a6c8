package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPermissions struct {
	module      bool
	destructive bool
	download    bool
}

func (p stubPermissions) CanAccessModule(_ context.Context, _ Project, _ string, destructive bool) bool {
	if destructive {
		return p.destructive
	}
	return p.module
}

func (p stubPermissions) CanShareDownload(context.Context, Project, string) bool {
	return p.download
}

func TestChromeWithProjectAndPermissions(t *testing.T) {
	props := Props{ItemID: 3, Widget: Widget{ID: 8, Name: "Sales"}, Project: &Project{ID: 1}}
	chrome := BuildChrome(context.Background(), props, ItemState{}, stubPermissions{module: true, download: true})

	assert.Equal(t, []string{"sync-data", "edit-widget", "full-screen", "share", "download", "menu"}, chrome.ToolIDs())
	info, ok := chrome.Tool("basic-info")
	require.True(t, ok)
	assert.False(t, info.Disabled)
	remove, ok := chrome.Tool("delete")
	require.True(t, ok)
	assert.True(t, remove.Disabled)
	assert.Equal(t, "Sales", chrome.Title)
}

func TestChromeHidesShareWithoutDownloadPermission(t *testing.T) {
	props := Props{ItemID: 3, Project: &Project{ID: 1}}
	chrome := BuildChrome(context.Background(), props, ItemState{}, stubPermissions{})
	assert.Equal(t, []string{"sync-data", "edit-widget", "full-screen", "menu"}, chrome.ToolIDs())
}

func TestChromeWithoutProjectDisablesMenu(t *testing.T) {
	chrome := BuildChrome(context.Background(), Props{ItemID: 3}, ItemState{}, nil)
	assert.Equal(t, []string{"sync-data", "full-screen", "menu"}, chrome.ToolIDs())
	info, _ := chrome.Tool("basic-info")
	remove, _ := chrome.Tool("delete")
	assert.True(t, info.Disabled)
	assert.True(t, remove.Disabled)
}

func TestChromeSharedContainerSkipsPermissions(t *testing.T) {
	props := Props{ItemID: 3, Container: ContainerShare, Loading: true, Project: &Project{ID: 1}}
	chrome := BuildChrome(context.Background(), props, ItemState{}, stubPermissions{})
	assert.True(t, chrome.Shared)
	assert.Equal(t, []string{"full-screen", "download"}, chrome.ToolIDs())
	assert.Equal(t, RenderLoading, chrome.RenderType)
	assert.True(t, chrome.Empty.Loading)
}

func TestChromeDrillAffordances(t *testing.T) {
	state := ItemState{
		Drilling: true,
		Brushed:  Brushed{{{{Key: "region", Value: "east"}}}},
		Config:   &WidgetConfig{SelectedChart: ChartBar, Cols: []Dimension{{Name: "region"}}, Controls: []Control{{Key: "year"}}},
		Model: ViewModel{
			"region": {ModelType: "category", VisualType: "string"},
			"city":   {ModelType: "category", VisualType: "string"},
			"amount": {ModelType: "value", VisualType: "number"},
		},
	}
	props := Props{ItemID: 3, DrillHistory: []DrillHistoryEntry{{Name: "step"}}}
	chrome := BuildChrome(context.Background(), props, state, nil)

	assert.Equal(t, "icon-cube1", chrome.DrillToggle.Icon)
	assert.True(t, chrome.DrillPanelVisible)
	assert.True(t, chrome.HistoryVisible)
	assert.True(t, chrome.ControlHandle)
	assert.Equal(t, []CategoryColumn{
		{Name: "city", Type: "category", VisualType: "string"},
		{Name: "region", Type: "category", VisualType: "string"},
	}, chrome.Categories)
	assert.Equal(t, ChartBar, chrome.Empty.ChartType)
	assert.True(t, chrome.Empty.HasDataConfig)
	assert.True(t, chrome.Empty.Empty)

	state.Drilling = false
	assert.Equal(t, "icon-cube2", BuildChrome(context.Background(), props, state, nil).DrillToggle.Icon)
}
