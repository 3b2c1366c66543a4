package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type zapUseCaseObserver struct {
	logger *zap.Logger
}

// NewZapUseCaseObserver logs failed use cases at error level and successful
// ones at debug level.
func NewZapUseCaseObserver(logger *zap.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &zapUseCaseObserver{logger: logger}
}

func (o *zapUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	fields := make([]zap.Field, 0, 4+len(event.Fields))
	fields = append(fields,
		zap.String("use_case", event.Name),
		zap.Int64("duration_ms", event.Duration.Milliseconds()),
		zap.Bool("success", event.Success),
	)
	for k, v := range event.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
		o.logger.Error("service_use_case", fields...)
		return
	}
	o.logger.Debug("service_use_case", fields...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// Warner receives recoverable storage problems: a corrupt file that was
// treated as empty, a catalog that could not be read.
type Warner interface {
	Warn(ctx context.Context, msg string, err error)
}

// NoopWarner drops all warnings.
type NoopWarner struct{}

func (NoopWarner) Warn(context.Context, string, error) {}

// ZapWarner writes warnings to a zap logger.
type ZapWarner struct {
	Logger *zap.Logger
}

func (w ZapWarner) Warn(_ context.Context, msg string, err error) {
	w.Logger.Warn(msg, zap.Error(err))
}

// WarningLog collects warning messages so the UI can show them on its status
// line. It is safe for concurrent use.
type WarningLog struct {
	mu    sync.Mutex
	items []string
}

func (l *WarningLog) Warn(_ context.Context, msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	l.items = append(l.items, msg)
}

// Drain returns the collected messages and empties the log.
func (l *WarningLog) Drain() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	return out
}

// MultiWarner fans a warning out to every member.
type MultiWarner []Warner

func (m MultiWarner) Warn(ctx context.Context, msg string, err error) {
	for _, w := range m {
		if w != nil {
			w.Warn(ctx, msg, err)
		}
	}
}

func warnerOrNoop(w Warner) Warner {
	if w == nil {
		return NoopWarner{}
	}
	return w
}
