package bindit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileFeed_EmitsInitialContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.json")

	if err := os.WriteFile(path, []byte("initial"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	feed := NewFileFeed(path)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := feed.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case data := <-out:
		if string(data) != "initial" {
			t.Errorf("expected 'initial', got %q", string(data))
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for initial contents")
	}
}

func TestFileFeed_EmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.json")

	if err := os.WriteFile(path, []byte("initial"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	feed := NewFileFeed(path)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := feed.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Drain initial contents
	select {
	case <-out:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for initial contents")
	}

	// Write new contents
	if err := os.WriteFile(path, []byte("updated"), 0o600); err != nil {
		t.Fatalf("failed to update file: %v", err)
	}

	// Should receive updated contents
	select {
	case data := <-out:
		if string(data) != "updated" {
			t.Errorf("expected 'updated', got %q", string(data))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for updated contents")
	}
}

func TestFileFeed_ClosesOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.json")

	if err := os.WriteFile(path, []byte("initial"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	feed := NewFileFeed(path)

	ctx, cancel := context.WithCancel(context.Background())

	out, err := feed.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Drain initial contents
	select {
	case <-out:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for initial contents")
	}

	// Cancel context
	cancel()

	// Channel should close
	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for channel close")
	}
}

func TestFileFeed_ErrorOnNonexistentFile(t *testing.T) {
	feed := NewFileFeed("/nonexistent/path/draft.json")

	ctx := context.Background()
	_, err := feed.Watch(ctx)
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestFileFeed_EventuallySeesLatestValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.json")

	if err := os.WriteFile(path, []byte("v1"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	feed := NewFileFeed(path)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := feed.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Drain initial
	select {
	case <-out:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for initial contents")
	}

	// Write final value
	if err := os.WriteFile(path, []byte("final"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	// Should eventually see final value (may receive intermediate events)
	var lastSeen string
	timeout := time.After(500 * time.Millisecond)
	for {
		select {
		case data := <-out:
			lastSeen = string(data)
			if lastSeen == "final" {
				return // Success
			}
		case <-timeout:
			if lastSeen == "" {
				t.Fatal("timeout: received no updates")
			}
			t.Fatalf("timeout: last seen %q, expected 'final'", lastSeen)
		}
	}
}

func TestFileFeed_PrefillsStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.json")

	doc := []byte(`{"user":{"name":"ada","email":"ADA@example.com"}}`)
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	store := New()
	store.Bind("user.email", Config{Transform: Lower})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start applies the initial document synchronously
	follower := store.Follow(NewFileFeed(path))
	if err := follower.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if v, ok := store.Read("user.name"); !ok || v != "ada" {
		t.Errorf("user.name = %v, %v; want ada, true", v, ok)
	}
	// Per-path transforms run on prefilled leaves
	if v, ok := store.Read("user.email"); !ok || v != "ada@example.com" {
		t.Errorf("user.email = %v, %v; want ada@example.com, true", v, ok)
	}
}
