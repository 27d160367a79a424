// Package publish pushes attendance reports out of the registry on a timer.
//
// A Scheduler builds the report from the live registry and hands it to every
// configured Sink. Sinks only read the report; a failing sink is logged and
// never affects the registry file or the other sinks.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/register/internal/core"
)

// DefaultInterval is used when a Scheduler is created with a zero interval.
const DefaultInterval = 15 * time.Minute

// ReportSource builds a fresh report. *core.Service satisfies it.
type ReportSource interface {
	BuildReport(ctx context.Context) (*core.Report, error)
}

// Sink receives a built report.
type Sink interface {
	Name() string
	Publish(ctx context.Context, r *core.Report) error
}

// Scheduler publishes reports periodically.
type Scheduler struct {
	source   ReportSource
	sinks    []Sink
	interval time.Duration
}

// NewScheduler creates a scheduler for the given sinks.
func NewScheduler(source ReportSource, interval time.Duration, sinks ...Sink) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{source: source, sinks: sinks, interval: interval}
}

// Run publishes immediately, then every interval, until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	names := make([]string, len(s.sinks))
	for i, sink := range s.sinks {
		names[i] = sink.Name()
	}
	slog.Info("report publisher started", "interval", s.interval.String(), "sinks", names)

	s.runJob(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("report publisher stopped")
			return
		case <-ticker.C:
			s.runJob(ctx)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context) {
	start := time.Now()
	if err := s.RunOnce(ctx); err != nil {
		slog.Error("report publish failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	slog.Info("report published", "duration_ms", time.Since(start).Milliseconds())
}

// RunOnce builds one report and delivers it to every sink. Every sink is
// attempted; their errors are joined.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	report, err := s.source.BuildReport(ctx)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	var errs []error
	for _, sink := range s.sinks {
		sinkStart := time.Now()
		if err := sink.Publish(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		slog.Debug("report delivered",
			"sink", sink.Name(),
			"participants", len(report.Raw),
			"duration_ms", time.Since(sinkStart).Milliseconds(),
		)
	}
	return errors.Join(errs...)
}
