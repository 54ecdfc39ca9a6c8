package main

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/goliatone/go-dashboard-item/components/dashboard"
)

// eventLog writes fetch requests and drill notifications as JSON lines and
// keeps the drill history a dashboard container would own.
type eventLog struct {
	mu      sync.Mutex
	enc     *json.Encoder
	history map[int][]dashboard.DrillHistoryEntry
	dirty   map[int]bool
}

func newEventLog(w io.Writer) *eventLog {
	return &eventLog{
		enc:     json.NewEncoder(w),
		history: map[int][]dashboard.DrillHistoryEntry{},
		dirty:   map[int]bool{},
	}
}

type logLine struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

func (l *eventLog) write(kind string, payload any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(logLine{Kind: kind, Payload: payload})
}

func (l *eventLog) FetchChartData(_ context.Context, req dashboard.FetchRequest) {
	l.write("fetch", req)
}

func (l *eventLog) SelectDrillHistory(_ context.Context, sel dashboard.DrillHistorySelection) {
	l.write("drill_history", sel)
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.history[sel.ItemID]
	if sel.Index < 0 {
		entries = nil
	} else if sel.Index+1 < len(entries) {
		entries = entries[:sel.Index+1]
	}
	l.history[sel.ItemID] = entries
	l.dirty[sel.ItemID] = true
}

func (l *eventLog) DrillData(_ context.Context, event dashboard.DrillEvent) {
	l.write("drill", event)
}

func (l *eventLog) DrillPathData(_ context.Context, event dashboard.DrillPathEvent) {
	l.write("drill_path", event)
	l.mu.Lock()
	defer l.mu.Unlock()
	status := event.CurrentDrillStatus
	filter := status.Filter
	l.history[event.ItemID] = append(l.history[event.ItemID], dashboard.DrillHistoryEntry{
		Name:         status.Name,
		Groups:       status.Groups,
		Filter:       &filter,
		WidgetConfig: status.WidgetConfig.Clone(),
	})
	l.dirty[event.ItemID] = true
}

// pending returns the histories changed since the last call.
func (l *eventLog) pending() map[int][]dashboard.DrillHistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[int][]dashboard.DrillHistoryEntry, len(l.dirty))
	for id := range l.dirty {
		out[id] = append([]dashboard.DrillHistoryEntry(nil), l.history[id]...)
	}
	l.dirty = map[int]bool{}
	return out
}
