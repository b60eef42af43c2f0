package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsSceneWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// ignored: not a scene or script file
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, "stack.yaml")
	if err := os.WriteFile(target, []byte("name: stack\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != target {
			t.Fatalf("expected event for %s, got %s", target, got)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for watcher event")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("expected events channel closed")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcherDebounce(150*time.Millisecond, dir)
	if err != nil {
		t.Fatalf("NewWatcherDebounce: %v", err)
	}
	defer w.Close()

	scenePath := filepath.Join(dir, "rain.yaml")
	scriptPath := filepath.Join(dir, "rain.tengo")
	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(scenePath, []byte("steps: "+string(rune('1'+i))+"\n"), 0o644); err != nil {
			t.Fatalf("write scene: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	lastWrite := time.Now()
	if err := os.WriteFile(scriptPath, []byte("x := 1\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	got := map[string]int{}
	deadline := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case path := <-w.Events:
			if path == scenePath && time.Since(lastWrite) < 100*time.Millisecond {
				t.Fatalf("scene reported %v after its last write, before the quiet period", time.Since(lastWrite))
			}
			got[path]++
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-deadline:
			t.Fatalf("timed out after %v, got %v", time.Since(start), got)
		}
	}

	// nothing else is pending once the burst settled
	select {
	case path := <-w.Events:
		got[path]++
	case <-time.After(400 * time.Millisecond):
	}
	if got[scenePath] != 1 || got[scriptPath] != 1 {
		t.Fatalf("expected one event per path, got %v", got)
	}
}
