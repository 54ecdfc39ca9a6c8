package commands

import (
	"context"

	"github.com/goliatone/go-dashboard-item/components/dashboard"
)

// Telemetry is the sink commands report gestures to. Items and commands usually
// share one sink.
type Telemetry = dashboard.Telemetry

type discardTelemetry struct{}

func (discardTelemetry) Record(context.Context, string, map[string]any) {}

// gestureTelemetry tags events so command gestures can be told apart from the
// item events they trigger.
type gestureTelemetry struct {
	next Telemetry
}

func (g gestureTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	tagged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		tagged[k] = v
	}
	tagged["layer"] = "command"
	g.next.Record(ctx, event, tagged)
}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return discardTelemetry{}
	}
	return gestureTelemetry{next: t}
}
