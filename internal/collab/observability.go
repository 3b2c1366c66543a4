package collab

import (
	"go.uber.org/zap"
)

// CallEvent records metadata about one collaborator request.
type CallEvent struct {
	Kind       CallKind
	Host       string
	StatusCode int
	LatencyMs  int64
	Success    bool
	ErrorCode  string
}

// Observer receives events about collaborator calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ZapObserver logs each call with structured fields.
type ZapObserver struct {
	logger *zap.Logger
}

func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{logger: logger}
}

func (o *ZapObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("host", event.Host),
		zap.Int("status", event.StatusCode),
		zap.Int64("latency_ms", event.LatencyMs),
	}
	if !event.Success {
		o.logger.Warn("collab_call", append(fields, zap.String("error_code", event.ErrorCode))...)
		return
	}
	o.logger.Info("collab_call", fields...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
