package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatch(t *testing.T, path string, debounce time.Duration, calls *atomic.Int32) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- File(ctx, path, debounce, quietLogger(), func(context.Context) {
			calls.Add(1)
		})
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("File returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop after cancel")
		}
	})
	time.Sleep(100 * time.Millisecond)
	return cancel
}

func TestFile_WriteTriggersCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "14-cloth.html")
	_ = os.WriteFile(path, []byte("v1"), 0o644)

	var calls atomic.Int32
	startWatch(t, path, 20*time.Millisecond, &calls)

	_ = os.WriteFile(path, []byte("v2"), 0o644)

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "callback not invoked after write")
}

func TestFile_BurstIsDebounced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "14-cloth.html")
	_ = os.WriteFile(path, []byte("v1"), 0o644)

	var calls atomic.Int32
	startWatch(t, path, 300*time.Millisecond, &calls)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(path, []byte{byte('a' + i)}, 0o644)
		time.Sleep(20 * time.Millisecond)
	}

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "callback not invoked after burst")
	time.Sleep(500 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1 for a single burst", n)
	}
}

func TestFile_RenameOverTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "14-cloth.html")
	_ = os.WriteFile(path, []byte("v1"), 0o644)

	var calls atomic.Int32
	startWatch(t, path, 20*time.Millisecond, &calls)

	tmp := filepath.Join(dir, ".export.tmp")
	_ = os.WriteFile(tmp, []byte("v2"), 0o644)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "callback not invoked after rename over target")
}

func TestFile_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "14-cloth.html")
	_ = os.WriteFile(path, []byte("v1"), 0o644)

	var calls atomic.Int32
	startWatch(t, path, 20*time.Millisecond, &calls)

	_ = os.WriteFile(filepath.Join(dir, "other.html"), []byte("x"), 0o644)
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("calls = %d, want 0 for unrelated file", n)
	}
}

func TestFile_MissingDirectory(t *testing.T) {
	err := File(context.Background(), filepath.Join(t.TempDir(), "nope", "a.html"), time.Millisecond, quietLogger(), func(context.Context) {})
	if err == nil {
		t.Error("expected error when the parent directory does not exist")
	}
}
