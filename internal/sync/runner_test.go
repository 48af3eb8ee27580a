package sync

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunBothSidesToCompletion(t *testing.T) {
	ctx := context.Background()
	hostStore := newSyncStore(t)
	joinerStore := newSyncStore(t)
	putEntry(t, hostStore, "a", 10)
	putEntry(t, joinerStore, "c", 30)

	hostCh, joinerCh, hostEvents, joinerEvents := newChannelPair()

	host := NewSession(hostStore)
	host.GracePeriod = 0
	joiner := NewSession(joinerStore)
	joiner.GracePeriod = 0
	if err := host.Host(hostCh); err != nil {
		t.Fatalf("Host: %v", err)
	}
	if err := joiner.Join(joinerCh); err != nil {
		t.Fatalf("Join: %v", err)
	}

	hostEvents <- Event{Kind: EventOpened}
	joinerEvents <- Event{Kind: EventOpened}

	hostDone := make(chan error, 1)
	go func() { hostDone <- Run(ctx, host, hostEvents) }()
	if err := Run(ctx, joiner, joinerEvents); err != nil {
		t.Fatalf("joiner Run: %v", err)
	}
	select {
	case err := <-hostDone:
		if err != nil {
			t.Fatalf("host Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("host Run did not finish")
	}

	if _, err := hostStore.GetTransaction(ctx, "c"); err != nil {
		t.Fatalf("host missing joiner entry: %v", err)
	}
	if _, err := joinerStore.GetTransaction(ctx, "a"); err != nil {
		t.Fatalf("joiner missing host entry: %v", err)
	}
}

func TestRunReturnsChannelError(t *testing.T) {
	sess := NewSession(newSyncStore(t))
	if err := sess.Host(&fakeChannel{peer: make(chan Event, 1)}); err != nil {
		t.Fatalf("Host: %v", err)
	}

	events := make(chan Event, 2)
	events <- Event{Kind: EventOpened}
	events <- Event{Kind: EventError, Err: errors.New("connection reset")}

	err := Run(context.Background(), sess, events)
	if !errors.Is(err, ErrChannel) {
		t.Fatalf("expected ErrChannel, got %v", err)
	}
}

func TestRunClosedStreamBeforeCompletion(t *testing.T) {
	sess := NewSession(newSyncStore(t))
	if err := sess.Host(&fakeChannel{peer: make(chan Event, 1)}); err != nil {
		t.Fatalf("Host: %v", err)
	}

	events := make(chan Event)
	close(events)
	err := Run(context.Background(), sess, events)
	if !errors.Is(err, ErrChannel) {
		t.Fatalf("expected ErrChannel, got %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	sess := NewSession(newSyncStore(t))
	ch := &fakeChannel{peer: make(chan Event, 1)}
	if err := sess.Host(ch); err != nil {
		t.Fatalf("Host: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, sess, make(chan Event))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sess.State() != StateIdle {
		t.Fatalf("cancellation must reset the session, got %s", sess.State())
	}
	if !ch.closed {
		t.Fatalf("reset must close the channel")
	}
}
