package wallet

import (
	"context"

	"github.com/rs/zerolog"
)

// Telemetry records wallet events for observability.
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

// LogTelemetry writes telemetry events as structured zerolog entries.
type LogTelemetry struct {
	logger zerolog.Logger
}

// NewLogTelemetry adapts a zerolog logger.
func NewLogTelemetry(logger zerolog.Logger) *LogTelemetry {
	return &LogTelemetry{logger: logger}
}

// Record logs the event at debug level with its payload as fields.
func (t *LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.logger.Debug().Fields(payload).Str("event", event).Msg("wallet telemetry")
}
