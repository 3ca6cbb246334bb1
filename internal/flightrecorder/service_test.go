package flightrecorder_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/flightrecorder"
	"github.com/myrjola/liftplan/internal/testhelpers"
)

func newService(t *testing.T, cooldown time.Duration) (*flightrecorder.Service, string) {
	t.Helper()
	traceDir := t.TempDir()
	service, err := flightrecorder.New(flightrecorder.Config{
		Logger:          testhelpers.NewTestLogger(t),
		MinAge:          0,
		MaxBytes:        0,
		Cooldown:        cooldown,
		TracesDirectory: traceDir,
	})
	if err != nil {
		t.Fatalf("Failed to create flight recorder: %v", err)
	}
	if err = service.Start(t.Context()); err != nil {
		t.Fatalf("Failed to start flight recorder: %v", err)
	}
	t.Cleanup(func() { service.Stop(t.Context()) })
	return service, traceDir
}

func TestNew_validation(t *testing.T) {
	if _, err := flightrecorder.New(flightrecorder.Config{TracesDirectory: t.TempDir()}); !errors.Is(err, flightrecorder.ErrMissingLogger) {
		t.Errorf("Expected ErrMissingLogger, got %v", err)
	}
	if _, err := flightrecorder.New(flightrecorder.Config{Logger: testhelpers.NewTestLogger(t)}); !errors.Is(err, flightrecorder.ErrMissingDirectory) {
		t.Errorf("Expected ErrMissingDirectory, got %v", err)
	}
}

func TestService_Capture(t *testing.T) {
	service, traceDir := newService(t, 0)

	path := service.Capture(t.Context(), "timeout")
	if path == "" {
		t.Fatalf("Expected a trace file to be written")
	}

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("Failed to read trace directory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected one trace file, got %d", len(entries))
	}
	filename := entries[0].Name()
	if !strings.HasPrefix(filename, "timeout-") || !strings.HasSuffix(filename, ".trace") {
		t.Errorf("Unexpected trace file name %s", filename)
	}
}

func TestService_CaptureCooldown(t *testing.T) {
	t.Run("skips captures within the cooldown", func(t *testing.T) {
		service, traceDir := newService(t, time.Hour)
		service.Capture(t.Context(), "timeout")
		if path := service.Capture(t.Context(), "server-error"); path != "" {
			t.Errorf("Expected cooldown to skip the second capture, got %s", path)
		}
		entries, err := os.ReadDir(traceDir)
		if err != nil {
			t.Fatalf("Failed to read trace directory: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("Expected one trace file, got %d", len(entries))
		}
	})

	t.Run("captures again after the cooldown", func(t *testing.T) {
		service, traceDir := newService(t, time.Nanosecond)
		service.Capture(t.Context(), "timeout")
		time.Sleep(time.Millisecond)
		service.Capture(t.Context(), "timeout")
		entries, err := os.ReadDir(traceDir)
		if err != nil {
			t.Fatalf("Failed to read trace directory: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("Expected two trace files, got %d", len(entries))
		}
	})
}
