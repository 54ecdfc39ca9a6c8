package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLookup map[int]Widget

func (m mapLookup) Widget(id int) (Widget, bool) {
	w, ok := m[id]
	return w, ok
}

var pathSetting = []DrillPathStep{
	{Out: "region", Widget: 1},
	{Enter: "region", Out: "city", Widget: 2},
	{Enter: "city", Widget: 3},
}

var pathWidgets = mapLookup{
	1: {ID: 1, Name: "Regions", Config: barConfig},
	2: {ID: 2, Name: "Cities", Config: `{"selectedChart":3,"cols":[{"name":"city"}],"metrics":[{"name":"amount","agg":"sum"}],"filters":[{"name":"year","config":{"sql":"year = 2024"}}]}`},
	3: {ID: 3, Name: "Stores", Config: `{"selectedChart":1,"cols":[{"name":"store"},{"name":"指标名称"}],"color":{"items":[{"name":"channel"}]}}`},
}

func TestResolveDrillPathStep(t *testing.T) {
	out, enter, widget, err := ResolveDrillPathStep(pathSetting, 0)
	require.NoError(t, err)
	assert.Equal(t, "region", out)
	assert.Equal(t, "region", enter)
	assert.Equal(t, 2, widget)

	out, enter, widget, err = ResolveDrillPathStep(pathSetting, 1)
	require.NoError(t, err)
	assert.Equal(t, "city", out)
	assert.Equal(t, "city", enter)
	assert.Equal(t, 3, widget)

	_, _, _, err = ResolveDrillPathStep(pathSetting, 2)
	assert.ErrorIs(t, err, errDrillPathExhausted)
	_, _, _, err = ResolveDrillPathStep(pathSetting[:1], 0)
	assert.ErrorIs(t, err, errDrillPathNotConfigured)
}

func TestBuildDrillPathFiltersDistinctValues(t *testing.T) {
	result, err := BuildDrillPath(DrillPathInput{
		Setting: pathSetting,
		SourceRows: []map[string]any{
			{"region": "east"},
			{"region": "west"},
			{"region": "east"},
			{"amount": 3.0},
		},
		Widgets: pathWidgets,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Target.ID)
	assert.Equal(t, "region in ('east','west')", result.Status.Filter.SQL)
	assert.Equal(t, []any{"east", "west"}, result.Status.Filter.Value)
	assert.Equal(t, []string{"year = 2024", "region in ('east','west')"}, result.Status.Filter.SQLs)
	assert.Equal(t, []string{"city"}, result.Status.Groups)
	assert.Equal(t, "Cities", result.Status.Name)
}

func TestBuildDrillPathCarriesPreviousFilters(t *testing.T) {
	history := []DrillHistoryEntry{{Filter: &DrillFilter{SQLs: []string{"region in ('east')"}}}}
	result, err := BuildDrillPath(DrillPathInput{
		Setting:    pathSetting,
		History:    history,
		SourceRows: []map[string]any{{"city": "Boston"}},
		Widgets:    pathWidgets,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"city in ('Boston')", "region in ('east')"}, result.Status.Filter.SQLs)
	assert.Equal(t, []string{"store", "channel"}, result.Status.Groups)
}

func TestBuildDrillPathUnknownTarget(t *testing.T) {
	_, err := BuildDrillPath(DrillPathInput{Setting: pathSetting, Widgets: mapLookup{}})
	require.Error(t, err)
	_, err = BuildDrillPath(DrillPathInput{Setting: pathSetting})
	require.Error(t, err)
}

func TestInPredicateEscapesQuotes(t *testing.T) {
	assert.Equal(t, "name in ('O''Brien','x')", InPredicate("name", []any{"O'Brien", "x"}))
	assert.Equal(t, "year in ('2024','1.5')", InPredicate("year", []any{2024, 1.5}))
	assert.Equal(t, "year in ()", InPredicate("year", nil))
}

func TestGroupNamesIncludesCategoricalLabels(t *testing.T) {
	cfg := mustConfig(t, `{"cols":[{"name":"a"}],"rows":[{"name":"b"}],"label":{"items":[{"name":"c","type":"category"},{"name":"d","type":"value"}]}}`)
	assert.Equal(t, []string{"a", "b", "c"}, GroupNames(cfg))
	assert.Nil(t, GroupNames(nil))
}

func TestItemDrillPathFetchesTargetWidget(t *testing.T) {
	fetcher := &recordingFetcher{}
	listener := &recordingListener{}
	item := NewItem(ItemOptions{Fetcher: fetcher, DrillListener: listener, Widgets: pathWidgets})
	require.NoError(t, item.Mount(context.Background(), Props{
		ItemID:           4,
		Widget:           pathWidgets[1],
		DrillPathSetting: pathSetting,
	}))
	require.NoError(t, item.Brush(`{"sourceData":[{"region":"east"}]}`))

	require.NoError(t, item.DrillPath(context.Background()))
	reqs := fetcher.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, 2, reqs[0].WidgetID)
	assert.Equal(t, RenderRerender, reqs[0].RenderType)
	require.NotNil(t, reqs[0].Options.DrillStatus)
	assert.Equal(t, "region in ('east')", reqs[0].Options.DrillStatus.Filter.SQL)
	require.Len(t, listener.paths, 1)
	assert.Equal(t, 2, listener.paths[0].Widget)
	assert.Equal(t, []string{"city"}, colNames(item.State().Config))
}

func TestBuildDrillPathMissingTarget(t *testing.T) {
	_, err := BuildDrillPath(DrillPathInput{Setting: pathSetting, Widgets: mapLookup{}})
	assert.ErrorIs(t, err, ErrDrillPathTargetMissing)

	_, err = BuildDrillPath(DrillPathInput{Setting: pathSetting})
	assert.ErrorIs(t, err, ErrDrillPathTargetMissing)
}

func TestItemDrillPathWithoutSetting(t *testing.T) {
	item := NewItem(ItemOptions{Widgets: pathWidgets})
	require.NoError(t, item.Mount(context.Background(), Props{ItemID: 4, Widget: pathWidgets[1]}))
	assert.ErrorIs(t, item.DrillPath(context.Background()), errDrillPathNotConfigured)
}
