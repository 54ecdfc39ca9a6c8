package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pollingProps(polling bool, frequency string) Props {
	return Props{
		ItemID:    1,
		Widget:    Widget{ID: 7, Config: barConfig},
		Rendered:  true,
		Polling:   polling,
		Frequency: frequency,
	}
}

func TestFrequencyChangeKeepsSingleTask(t *testing.T) {
	scheduler := &fakeScheduler{}
	fetcher := &recordingFetcher{}
	item := newTestItem(fetcher, scheduler)

	require.NoError(t, item.Mount(context.Background(), pollingProps(true, "5")))
	require.Len(t, scheduler.active(), 1)
	assert.Equal(t, 5*time.Second, scheduler.active()[0].interval)

	require.NoError(t, item.Update(context.Background(), pollingProps(true, "10")))
	active := scheduler.active()
	require.Len(t, active, 1)
	assert.Equal(t, 10*time.Second, active[0].interval)
	assert.True(t, item.Polling())

	active[0].fire()
	reqs := fetcher.all()
	last := reqs[len(reqs)-1]
	assert.Equal(t, RenderRefresh, last.RenderType)
	assert.NotEqual(t, reqs[0].ID, last.ID, "every tick gets a fresh request id")
}

func TestUnmountStopsPolling(t *testing.T) {
	scheduler := &fakeScheduler{}
	item := newTestItem(nil, scheduler)
	require.NoError(t, item.Mount(context.Background(), pollingProps(true, "5")))

	item.Unmount()
	assert.Empty(t, scheduler.active())
	assert.False(t, item.Polling())
}

func TestDisablingPollingStopsTask(t *testing.T) {
	scheduler := &fakeScheduler{}
	item := newTestItem(nil, scheduler)
	require.NoError(t, item.Mount(context.Background(), pollingProps(true, "5")))
	require.NoError(t, item.Update(context.Background(), pollingProps(false, "5")))
	assert.Empty(t, scheduler.active())
}

func TestInvalidFrequencyLeavesPollingOff(t *testing.T) {
	for _, frequency := range []string{"soon", "NaN", "Inf", "-Inf", "1e10", "1e-12"} {
		scheduler := &fakeScheduler{}
		item := newTestItem(nil, scheduler)
		require.NoError(t, item.Mount(context.Background(), pollingProps(true, frequency)), frequency)
		assert.Empty(t, scheduler.active(), frequency)
		assert.False(t, item.Polling(), frequency)
	}
}

func TestOutOfRangeFrequencyDoesNotStartTicker(t *testing.T) {
	for _, frequency := range []string{"NaN", "Inf", "1e10", "1e-12"} {
		item := NewItem(ItemOptions{})
		assert.NotPanics(t, func() {
			_ = item.Mount(context.Background(), pollingProps(true, frequency))
		}, frequency)
		assert.False(t, item.Polling(), frequency)
		item.Unmount()
	}
}

func TestParseFrequency(t *testing.T) {
	d, err := ParseFrequency(" 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, d)

	d, err = ParseFrequency("86400")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	for _, raw := range []string{"", "abc", "0", "-3", "NaN", "Inf", "+Inf", "-Inf", "1e10", "1e-12"} {
		_, err := ParseFrequency(raw)
		assert.Error(t, err, raw)
	}
}

func TestTickerSchedulerFiresUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	task := TickerScheduler{}.Every(time.Millisecond, func() { ticks.Add(1) })
	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)
	task.Stop()
	task.Stop()
}
