package dashboard

import (
	"context"
	"log/slog"
	"sort"
)

// Telemetry records item events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// SlogTelemetry writes events to a structured logger at debug level.
type SlogTelemetry struct {
	Logger *slog.Logger
}

// Record implements Telemetry.
func (t SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, payload[k]))
	}
	logger.LogAttrs(ctx, slog.LevelDebug, event, attrs...)
}
