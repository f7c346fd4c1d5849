package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// run directory naming test
func TestRunDir(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	got := RunDir("runs", "transformer", at)
	want := filepath.Join("runs", "transformer_20240309_140506")
	if got != want {
		t.Errorf("run dir: got %q, want %q", got, want)
	}
}

// scalar append test
func TestAddScalar(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := w.AddScalar("Loss/train_step", 0, 2.5); err != nil {
		t.Fatalf("add scalar: %v", err)
	}
	if err := w.AddScalar("Loss/train_step", 1, 2.25); err != nil {
		t.Fatalf("add scalar: %v", err)
	}
	if err := w.AddScalar("Learning_rate", 0, 0.002); err != nil {
		t.Fatalf("add scalar: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Loss", "train_step.txt"))
	if err != nil {
		t.Fatalf("read tag file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("tag lines: got %d, want 2", len(lines))
	}
	if lines[0] != "0 2.5" || lines[1] != "1 2.25" {
		t.Errorf("tag contents: %q", lines)
	}
	if _, err := os.Stat(filepath.Join(dir, "Learning_rate.txt")); err != nil {
		t.Errorf("flat tag file missing: %v", err)
	}
}

// append across writers test
func TestReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	w.AddScalar("Loss/validation", 0, 3)
	w.Close()

	w2, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("reopen writer: %v", err)
	}
	w2.AddScalar("Loss/validation", 1, 2)
	w2.Close()

	data, err := os.ReadFile(filepath.Join(dir, "Loss", "validation.txt"))
	if err != nil {
		t.Fatalf("read tag file: %v", err)
	}
	if got := len(strings.Split(strings.TrimSpace(string(data)), "\n")); got != 2 {
		t.Errorf("appended lines: got %d, want 2", got)
	}
}
