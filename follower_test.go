package bindit

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestFollower_AppliesInitialDocument(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{"user":{"name":"ada","age":36}}`)

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()

	if err := follower.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if v, _ := store.Read("user.name"); v != "ada" {
		t.Errorf("expected ada, got %v", v)
	}
	if v, _ := store.Read("user.age"); v != float64(36) {
		t.Errorf("expected 36, got %v", v)
	}
}

func TestFollower_ProcessAppliesNextDocument(t *testing.T) {
	ch := make(chan []byte, 2)
	ch <- []byte(`{"draft":"one"}`)

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()
	ctx := context.Background()

	if err := follower.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if v, _ := store.Read("draft"); v != "one" {
		t.Fatalf("expected one, got %v", v)
	}

	ch <- []byte(`{"draft":"two"}`)
	if !follower.Process(ctx) {
		t.Fatal("expected Process to apply the pending document")
	}
	if v, _ := store.Read("draft"); v != "two" {
		t.Errorf("expected two, got %v", v)
	}

	// Nothing pending.
	if follower.Process(ctx) {
		t.Error("expected Process to report no document")
	}
}

func TestFollower_ProcessOnlyInSyncMode(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{"a":1}`)

	store := New()
	follower := store.Follow(NewChannelFeed(ch))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := follower.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Process should return false when not in sync mode
	if follower.Process(ctx) {
		t.Error("expected Process to return false when not in sync mode")
	}
}

func TestFollower_StartTwiceFails(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{"a":1}`)

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()
	ctx := context.Background()

	if err := follower.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := follower.Start(ctx); err == nil {
		t.Error("expected second Start to fail")
	}
}

func TestFollower_FeedClosedBeforeStart(t *testing.T) {
	ch := make(chan []byte)
	close(ch)

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()

	if err := follower.Start(context.Background()); err == nil {
		t.Error("expected error for closed feed")
	}
}

func TestFollower_TransformsApplyToFeedLeaves(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{"email":"  ADA@EXAMPLE.COM  "}`)

	store := New()
	store.Bind("email", Config{Transform: Pipe(Trim, Lower)})
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()

	if err := follower.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if v, _ := store.Read("email"); v != "ada@example.com" {
		t.Errorf("expected normalized email, got %v", v)
	}
}

func TestFollower_DecodeFailureRecordsError(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{not json}`)

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()

	err := follower.Start(context.Background())
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if !strings.Contains(err.Error(), "feed decode failed") {
		t.Errorf("unexpected error: %v", err)
	}

	var we WriteError
	if !errors.As(store.LastError(), &we) {
		t.Fatalf("expected WriteError, got %T", store.LastError())
	}
	if we.Stage != "feed" || we.Path != "" {
		t.Errorf("expected pathless feed stage, got %+v", we)
	}

	// Nothing committed.
	if snap := store.Snapshot(); len(snap) != 0 {
		t.Errorf("expected empty tree, got %v", snap)
	}
}

func TestFollower_FailingLeafKeepsOthers(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{"age":"abc","name":"ada"}`)

	store := New()
	store.Bind("age", Config{
		Transform: func(_ context.Context, v any) (any, error) {
			if _, ok := v.(string); ok {
				return nil, errors.New("not a number")
			}
			return v, nil
		},
	})
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()

	err := follower.Start(context.Background())
	if err == nil {
		t.Fatal("expected apply failure")
	}
	if !strings.Contains(err.Error(), "feed apply failed") {
		t.Errorf("unexpected error: %v", err)
	}

	// The clean leaf landed despite the rejected one.
	if v, _ := store.Read("name"); v != "ada" {
		t.Errorf("expected ada, got %v", v)
	}
	if _, ok := store.Read("age"); ok {
		t.Error("expected rejected leaf to stay absent")
	}
}

func TestFollower_NotifiesOncePerPathPerDocument(t *testing.T) {
	ch := make(chan []byte, 2)
	ch <- []byte(`{"a":1,"b":2}`)

	store := New()
	var aCount, bCount int
	store.Subscribe("a", func(any, string) { aCount++ })
	store.Subscribe("b", func(any, string) { bCount++ })

	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()
	ctx := context.Background()

	if err := follower.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if aCount != 1 || bCount != 1 {
		t.Errorf("expected one notification each, got a=%d b=%d", aCount, bCount)
	}

	ch <- []byte(`{"a":3,"b":4}`)
	follower.Process(ctx)
	if aCount != 2 || bCount != 2 {
		t.Errorf("expected one more notification each, got a=%d b=%d", aCount, bCount)
	}
}

func TestFollower_EmptyDocument(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{}`)

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()

	if err := follower.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if snap := store.Snapshot(); len(snap) != 0 {
		t.Errorf("expected empty tree, got %v", snap)
	}
}

func TestFollower_YAMLFeed(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte("user:\n  name: ada\n  age: 36\n")

	store := New().Codec(YAMLCodec{})
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()

	if err := follower.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if v, _ := store.Read("user.name"); v != "ada" {
		t.Errorf("expected ada, got %v", v)
	}
	if v, _ := store.Read("user.age"); v != float64(36) {
		t.Errorf("expected 36, got %v", v)
	}
}

func TestFollower_Debounce_CoalescesRapidChanges(t *testing.T) {
	clock := clockz.NewFakeClock()
	ch := make(chan []byte, 10)
	ch <- []byte(`{"draft":1}`) // Initial document

	var applyCount atomic.Int32
	var lastDraft atomic.Int32

	store := New().Clock(clock)
	store.Subscribe("draft", func(v any, _ string) {
		applyCount.Add(1)
		lastDraft.Store(int32(v.(float64)))
	})

	follower := store.Follow(NewChannelFeed(ch)).Debounce(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := follower.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Initial document applied immediately (no debounce on first)
	if applyCount.Load() != 1 {
		t.Errorf("expected 1 apply after start, got %d", applyCount.Load())
	}

	// Send rapid changes
	ch <- []byte(`{"draft":2}`)
	ch <- []byte(`{"draft":3}`)
	ch <- []byte(`{"draft":4}`)

	// Allow goroutine to receive changes
	time.Sleep(10 * time.Millisecond)

	// No additional applies yet - debounce timer hasn't fired
	if applyCount.Load() != 1 {
		t.Errorf("expected still 1 apply (debouncing), got %d", applyCount.Load())
	}

	// Advance clock past debounce duration
	clock.Advance(150 * time.Millisecond)
	clock.BlockUntilReady()

	// Allow goroutine to process timer
	time.Sleep(10 * time.Millisecond)

	// Should have applied only the latest document
	if applyCount.Load() != 2 {
		t.Errorf("expected 2 applies after debounce, got %d", applyCount.Load())
	}
	if lastDraft.Load() != 4 {
		t.Errorf("expected last draft 4, got %d", lastDraft.Load())
	}
}

func TestFollower_Debounce_ProcessesPendingOnClose(t *testing.T) {
	clock := clockz.NewFakeClock()
	ch := make(chan []byte, 10)
	ch <- []byte(`{"draft":1}`) // Initial document

	var applyCount atomic.Int32
	var lastDraft atomic.Int32

	store := New().Clock(clock)
	store.Subscribe("draft", func(v any, _ string) {
		applyCount.Add(1)
		lastDraft.Store(int32(v.(float64)))
	})

	follower := store.Follow(NewChannelFeed(ch)).Debounce(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := follower.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Send change
	ch <- []byte(`{"draft":99}`)
	time.Sleep(10 * time.Millisecond)

	// Close channel before debounce fires
	close(ch)
	time.Sleep(10 * time.Millisecond)

	// Pending document should be processed immediately on close
	if applyCount.Load() != 2 {
		t.Errorf("expected 2 applies after close, got %d", applyCount.Load())
	}
	if lastDraft.Load() != 99 {
		t.Errorf("expected last draft 99, got %d", lastDraft.Load())
	}
}

func TestFollower_StartupTimeout(t *testing.T) {
	clock := clockz.NewFakeClock()
	ch := make(chan []byte) // unbuffered, will block forever

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).
		SyncMode().
		StartupTimeout(100 * time.Millisecond).
		Clock(clock)

	errCh := make(chan error, 1)
	go func() {
		errCh <- follower.Start(context.Background())
	}()

	// Wait for timeout context to register with the fake clock
	time.Sleep(10 * time.Millisecond)

	// Advance clock past timeout
	clock.Advance(150 * time.Millisecond)
	clock.BlockUntilReady()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected timeout error")
		}
		if !strings.Contains(err.Error(), "startup timeout") {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after timeout")
	}
}

func TestFollower_StartupTimeout_SucceedsBeforeTimeout(t *testing.T) {
	clock := clockz.NewFakeClock()
	ch := make(chan []byte, 1)
	ch <- []byte(`{"a":1}`)

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).
		SyncMode().
		StartupTimeout(100 * time.Millisecond).
		Clock(clock)

	if err := follower.Start(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v, _ := store.Read("a"); v != float64(1) {
		t.Errorf("expected 1, got %v", v)
	}
}

func TestFollower_NoStartupTimeout_WaitsIndefinitely(t *testing.T) {
	ch := make(chan []byte) // unbuffered, will block

	store := New()
	follower := store.Follow(NewSyncChannelFeed(ch)).SyncMode()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := follower.Start(ctx)
	// Should fail via context, not startup timeout
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}
