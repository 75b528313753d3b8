package bindings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keyflux/internal/input"
)

const watchTimeout = 5 * time.Second

func writeDoc(t *testing.T, path string, doc []byte) {
	t.Helper()
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func waitApplied(t *testing.T, b *recordingBinder) {
	t.Helper()
	select {
	case <-b.applied:
	case <-time.After(watchTimeout):
		t.Fatal("timed out waiting for bindings to be applied")
	}
}

func TestWatchAppliesInitialSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.json")
	writeDoc(t, path, buildDoc(t, "initial", `{"action":"jump","key":"Space"}`))

	b := newRecordingBinder()
	w, err := Watch(path, b)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	got := b.snapshot()
	if len(got) != 1 || got[0] != (Binding{Action: "jump", ID: input.Key("Space")}) {
		t.Fatalf("initial apply = %v, want the jump binding", got)
	}
	if w.Last().Name != "initial" {
		t.Errorf("Last().Name = %q, want initial", w.Last().Name)
	}
}

func TestWatchFailsOnBadInitialDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.json")
	writeDoc(t, path, []byte(`{"bindings": [`))

	if _, err := Watch(path, newRecordingBinder()); err == nil {
		t.Fatal("Watch() accepted a malformed initial document")
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.json")
	writeDoc(t, path, buildDoc(t, "v1", `{"action":"jump","key":"Space"}`))

	b := newRecordingBinder()
	w, err := Watch(path, b)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()
	<-b.applied // initial apply

	writeDoc(t, path, buildDoc(t, "v2", `{"action":"jump","key":"w"}`))
	waitApplied(t, b)

	got := b.snapshot()
	last := got[len(got)-1]
	if last != (Binding{Action: "jump", ID: input.Key("w")}) {
		t.Errorf("last applied binding = %v, want the v2 jump entry", last)
	}
	if w.Last().Name != "v2" {
		t.Errorf("Last().Name = %q, want v2", w.Last().Name)
	}
}

func TestWatchKeepsLastGoodSetOnMalformedEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.json")
	writeDoc(t, path, buildDoc(t, "good", `{"action":"jump","key":"Space"}`))

	b := newRecordingBinder()
	w, err := Watch(path, b)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()
	<-b.applied // initial apply

	// A malformed edit must not replace the last good set.
	writeDoc(t, path, []byte(`{"bindings": [`))

	// Follow with a valid edit and wait for it, which also proves the
	// malformed write was processed and skipped rather than pending.
	writeDoc(t, path, buildDoc(t, "good2", `{"action":"jump","key":"w"}`))
	waitApplied(t, b)

	for _, applied := range b.snapshot() {
		if applied.Action != "jump" {
			t.Errorf("unexpected binding applied: %v", applied)
		}
	}
	if w.Last().Name != "good2" {
		t.Errorf("Last().Name = %q, want good2", w.Last().Name)
	}
}

func TestWatchCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.json")
	writeDoc(t, path, buildDoc(t, "", `{"action":"jump","key":"Space"}`))

	w, err := Watch(path, newRecordingBinder())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
