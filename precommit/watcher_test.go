package precommit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dotforge/dotkit/errors"
)

// replaceFile swaps the config atomically, the way editors save files.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Failed to replace config: %v", err)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, DefaultConfigName)

	if err := os.WriteFile(path, []byte("repos: []\n"), 0644); err != nil {
		t.Fatalf("Failed to write initial config: %v", err)
	}

	results := make(chan *Config, 8)
	errs := make(chan error, 8)
	w, err := NewWatcher(path, 1, func(cfg *Config, err error) {
		if err != nil {
			errs <- err
			return
		}
		results <- cfg
	})
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Let the watch registration settle before touching the file.
	time.Sleep(100 * time.Millisecond)

	replaceFile(t, path, `repos:
  - repo: local
    hooks:
      - id: fmt
        entry: make fmt
        language: system
`)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-results:
			if cfg.HookCount() == 1 {
				return
			}
		case err := <-errs:
			t.Fatalf("Reload failed: %v", err)
		case <-deadline:
			t.Fatal("Timed out waiting for the reloaded config")
		}
	}
}

func TestWatcherReportsValidationErrors(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, DefaultConfigName)

	if err := os.WriteFile(path, []byte("repos: []\n"), 0644); err != nil {
		t.Fatalf("Failed to write initial config: %v", err)
	}

	results := make(chan *Config, 8)
	errs := make(chan error, 8)
	w, err := NewWatcher(path, 1, func(cfg *Config, err error) {
		if err != nil {
			errs <- err
			return
		}
		results <- cfg
	})
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	// Remote source without a pinned rev.
	replaceFile(t, path, `repos:
  - repo: https://github.com/psf/black
    hooks:
      - id: black
`)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-results:
			// Stray event from the replacement, keep waiting.
		case err := <-errs:
			if !errors.Is(err, errors.ErrCodeConfigValidation) {
				t.Errorf("Expected code %s, got %v", errors.ErrCodeConfigValidation, errors.GetCode(err))
			}
			return
		case <-deadline:
			t.Fatal("Timed out waiting for the validation error")
		}
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", DefaultConfigName), 0, nil)
	if err == nil {
		t.Fatal("Expected an error for a missing parent directory")
	}
}
