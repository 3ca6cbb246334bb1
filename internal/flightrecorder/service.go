// Package flightrecorder keeps a rolling execution trace in memory and writes it to disk when a request
// misbehaves, so that slow or failing requests can be inspected with go tool trace.
package flightrecorder

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync"
	"sync/atomic"
	"time"

	"github.com/myrjola/liftplan/internal/errors"
)

const (
	// defaultMinAge is the minimum age of trace events to keep.
	defaultMinAge = 10 * time.Second

	// defaultMaxBytes is the maximum size of the trace buffer.
	defaultMaxBytes = 16 * 1024 * 1024 // 16MB

	// defaultCooldown is the minimum time between trace captures.
	defaultCooldown = 30 * time.Minute
)

var (
	ErrMissingLogger    = errors.NewSentinel("logger is required")
	ErrMissingDirectory = errors.NewSentinel("traces directory is required")
)

// Service captures traces of slow or failed requests.
type Service struct {
	logger          *slog.Logger
	flightRecorder  *trace.FlightRecorder
	tracesDirectory string
	cooldown        time.Duration
	// mu serializes WriteTo calls which the flight recorder does not allow concurrently.
	mu          sync.Mutex
	lastCapture atomic.Int64
	captures    atomic.Int64
}

// Config configures the flight recorder service. Zero values fall back to defaults.
type Config struct {
	Logger          *slog.Logger
	MinAge          time.Duration
	MaxBytes        uint64
	Cooldown        time.Duration
	TracesDirectory string
}

// New creates a new flight recorder service. The traces directory is created if missing.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, ErrMissingLogger
	}
	if cfg.TracesDirectory == "" {
		return nil, ErrMissingDirectory
	}

	if stat, err := os.Stat(cfg.TracesDirectory); err != nil {
		if err = os.MkdirAll(cfg.TracesDirectory, 0o700); err != nil { //nolint:mnd // owner only
			return nil, fmt.Errorf("create traces directory: %w", err)
		}
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("traces path is not a directory: %s", cfg.TracesDirectory)
	}

	return &Service{
		logger: cfg.Logger,
		flightRecorder: trace.NewFlightRecorder(trace.FlightRecorderConfig{
			MinAge:   cmp.Or(cfg.MinAge, defaultMinAge),
			MaxBytes: cmp.Or(cfg.MaxBytes, defaultMaxBytes),
		}),
		tracesDirectory: cfg.TracesDirectory,
		cooldown:        cmp.Or(cfg.Cooldown, defaultCooldown),
		mu:              sync.Mutex{},
		lastCapture:     atomic.Int64{},
		captures:        atomic.Int64{},
	}, nil
}

// Start begins flight recording.
func (s *Service) Start(ctx context.Context) error {
	if err := s.flightRecorder.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("directory", s.tracesDirectory),
		slog.Duration("cooldown", s.cooldown))

	return nil
}

// Stop ends flight recording.
func (s *Service) Stop(ctx context.Context) {
	s.flightRecorder.Stop()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the recorded trace to a file named after reason. Captures within the cooldown of the
// previous one are skipped. It returns the written path or "" when nothing was written.
func (s *Service) Capture(ctx context.Context, reason string) string {
	now := time.Now()
	lastCapture := s.lastCapture.Load()
	if lastCapture > 0 && now.Sub(time.Unix(0, lastCapture)) < s.cooldown {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.Time("last_capture", time.Unix(0, lastCapture)))
		return ""
	}
	// Another goroutine won the race and captures the same incident.
	if !s.lastCapture.CompareAndSwap(lastCapture, now.UnixNano()) {
		return ""
	}

	fPath := filepath.Join(s.tracesDirectory,
		fmt.Sprintf("%s-%s-%d.trace", reason, now.UTC().Format("20060102-150405"), s.captures.Add(1)))
	if err := s.writeTrace(fPath); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to capture trace", errors.SlogError(err))
		return ""
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace", slog.String("file", fPath))
	return fPath
}

func (s *Service) writeTrace(fPath string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Create(fPath)
	if err != nil {
		return errors.Wrap(err, "create trace file", slog.String("file", fPath))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, errors.Wrap(closeErr, "close trace file", slog.String("file", fPath)))
		}
	}()

	if _, err = s.flightRecorder.WriteTo(file); err != nil {
		return errors.Wrap(err, "write trace", slog.String("file", fPath))
	}
	return nil
}
