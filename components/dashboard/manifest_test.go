package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestPayload = `
version: "1"
name: sales
project:
  id: 1
  name: Retail
views:
  - id: 5
    model:
      region:
        visual_type: string
        model_type: category
widgets:
  - id: 1
    name: Regions
    view_id: 5
    config: '{"selectedChart":3,"cols":[{"name":"region"}],"metrics":[{"name":"amount","agg":"sum"}]}'
  - id: 2
    name: Cities
    view_id: 5
    config: '{"selectedChart":3,"cols":[{"name":"city"}],"metrics":[{"name":"amount","agg":"sum"}]}'
items:
  - id: 10
    widget: 1
    polling: true
    frequency: "30"
    drill_path:
      - out: region
        widget: 1
      - enter: region
        widget: 2
  - id: 11
    widget: 2
`

func TestDecodeManifest(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(manifestPayload))
	require.NoError(t, err)
	assert.Equal(t, "sales", doc.Name)
	require.NotNil(t, doc.Project)
	assert.Equal(t, "Retail", doc.Project.Name)
	require.Len(t, doc.Widgets, 2)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, []DrillPathStep{{Out: "region", Widget: 1}, {Enter: "region", Widget: 2}}, doc.Items[0].DrillPath)
	assert.Equal(t, "category", doc.Views[0].Model["region"].ModelType)
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader("version: \"1\"\nwidgets: []\nitems: []\nlayout: grid\n"))
	require.Error(t, err)
}

func TestDecodeManifestEmpty(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader(""))
	require.Error(t, err)
}

func TestManifestValidate(t *testing.T) {
	cases := map[string]BoardManifest{
		"version":           {Version: "2"},
		"widget id":         {Version: "1", Widgets: []Widget{{}}},
		"duplicate widget":  {Version: "1", Widgets: []Widget{{ID: 1}, {ID: 1}}},
		"item id":           {Version: "1", Widgets: []Widget{{ID: 1}}, Items: []ManifestItem{{Widget: 1}}},
		"duplicate item":    {Version: "1", Widgets: []Widget{{ID: 1}}, Items: []ManifestItem{{ID: 1, Widget: 1}, {ID: 1, Widget: 1}}},
		"unknown widget":    {Version: "1", Widgets: []Widget{{ID: 1}}, Items: []ManifestItem{{ID: 1, Widget: 2}}},
		"unknown path step": {Version: "1", Widgets: []Widget{{ID: 1}}, Items: []ManifestItem{{ID: 1, Widget: 1, DrillPath: []DrillPathStep{{Widget: 3}}}}},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, doc.Validate())
		})
	}
}

func TestReadManifestRecordsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifestPayload), 0o600))

	doc, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	_, err = ReadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestManifestLoadMountsItems(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(manifestPayload))
	require.NoError(t, err)
	reg, err := NewWidgetRegistry()
	require.NoError(t, err)
	fetcher := &recordingFetcher{}
	scheduler := &fakeScheduler{}
	board := NewBoard(BoardOptions{Item: ItemOptions{Fetcher: fetcher, Scheduler: scheduler, Widgets: reg}})

	require.NoError(t, doc.Load(context.Background(), reg, board))
	assert.Equal(t, []int{10, 11}, board.ItemIDs())
	assert.Len(t, fetcher.all(), 2)
	assert.Len(t, scheduler.active(), 1)

	view, err := board.View(context.Background(), 10)
	require.NoError(t, err)
	assert.Contains(t, view.Chrome.ToolIDs(), "edit-widget")
	require.Len(t, view.Chrome.Categories, 1)
	assert.Equal(t, "region", view.Chrome.Categories[0].Name)
}
