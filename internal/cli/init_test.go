package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"portfolio/internal/log"
)

func TestSetupLoggerLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger("debug", log.ComponentWorker)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug level should be enabled")
	}
	if logger.Component() != log.ComponentWorker {
		t.Fatalf("component = %q", logger.Component())
	}

	logger = SetupLogger("bogus", "")
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("unknown level should fall back to info")
	}
	if logger.Component() != log.ComponentApp {
		t.Fatalf("component = %q, want default", logger.Component())
	}
}

func TestInitSQLite(t *testing.T) {
	repo := InitSQLite(log.New(log.DefaultConfig()), filepath.Join(t.TempDir(), "portfolio.db"))
	defer repo.Close()

	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestRunEveryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	done := make(chan struct{})
	go func() {
		RunEvery(ctx, 10*time.Millisecond, func(context.Context, time.Time) {
			if calls.Add(1) == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunEvery did not return after cancel")
	}
	if calls.Load() < 3 {
		t.Fatalf("calls = %d, want at least 3", calls.Load())
	}
}
