// Package sync implements the peer-to-peer ledger exchange: a state
// machine that, over an external reliable channel, swaps full snapshots
// with a peer and merges the result in two phases so both devices end up
// with the union of records.
//
// The merge has no timestamp or version reconciliation: when both devices
// edited the same record id, the outcome depends on merge order (the
// joiner converges to the host's post-merge value), not on which edit was
// newer on the wall clock.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"monetus/internal/core"
)

// ErrChannel is the sync-transport failure kind; the session that saw one
// is recoverable only through Reset.
var ErrChannel = errors.New("sync channel failure")

// State is the session lifecycle position.
type State int

const (
	StateIdle State = iota
	StateHosting
	StateJoining
	StateConnecting
	StateSyncing
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHosting:
		return "hosting"
	case StateJoining:
		return "joining"
	case StateConnecting:
		return "connecting"
	case StateSyncing:
		return "syncing"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Role fixes which side of the protocol this device plays for the whole
// session.
type Role int

const (
	// RoleHost waits for a peer, merges first, and sends the consolidated
	// snapshot back.
	RoleHost Role = iota
	// RoleJoiner connects to a host, sends its snapshot first, and merges
	// the consolidated reply.
	RoleJoiner
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "joiner"
}

// Store is the slice of the ledger the session needs: snapshot out, merge
// in. Merges are applied as they arrive and are never rolled back.
type Store interface {
	ExportSnapshot(ctx context.Context) (core.Snapshot, error)
	MergeSnapshot(ctx context.Context, snap core.Snapshot) (int, error)
}

// Session drives one host/joiner exchange. All transitions run through
// HandleEvent; only Reset is user-driven.
type Session struct {
	mu      gosync.Mutex
	state   State
	role    Role
	store   Store
	channel Channel
	lastErr error

	// GracePeriod delays channel teardown after completion so the peer's
	// final message is not cut off mid-flight. Zero closes immediately.
	GracePeriod time.Duration
}

func NewSession(store Store) *Session {
	return &Session{
		store:       store,
		state:       StateIdle,
		GracePeriod: 2 * time.Second,
	}
}

// Host binds the session to a channel as the passive side.
func (s *Session) Host(ch Channel) error {
	return s.start(RoleHost, StateHosting, ch)
}

// Join binds the session to a channel as the active side.
func (s *Session) Join(ch Channel) error {
	return s.start(RoleJoiner, StateJoining, ch)
}

func (s *Session) start(role Role, state State, ch Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return fmt.Errorf("session already %s", s.state)
	}
	s.role = role
	s.state = state
	s.channel = ch
	return nil
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns what moved the session to the error state, nil otherwise.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Reset tears the channel down and returns to idle. Partial merges are
// not compensated.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channel != nil {
		_ = s.channel.Close()
		s.channel = nil
	}
	s.state = StateIdle
	s.lastErr = nil
}

// HandleEvent is the single entry point for channel events. Events must
// arrive in the transport's delivery order; the session serializes them.
func (s *Session) HandleEvent(ctx context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case EventOpened:
		return s.onOpened(ctx)
	case EventMessage:
		if ev.Msg == nil {
			return s.fail(fmt.Errorf("%w: empty message event", ErrChannel))
		}
		return s.onMessage(ctx, *ev.Msg)
	case EventClosed:
		if s.state == StateCompleted || s.state == StateIdle {
			return nil
		}
		return s.fail(fmt.Errorf("%w: channel closed before sync completed", ErrChannel))
	case EventError:
		if s.state == StateCompleted {
			return nil
		}
		return s.fail(fmt.Errorf("%w: %v", ErrChannel, ev.Err))
	default:
		return s.fail(fmt.Errorf("%w: unknown event kind %d", ErrChannel, ev.Kind))
	}
}

func (s *Session) onOpened(ctx context.Context) error {
	if s.state != StateHosting && s.state != StateJoining {
		return s.fail(fmt.Errorf("%w: channel opened while %s", ErrChannel, s.state))
	}
	s.state = StateConnecting
	slog.InfoContext(ctx, "Sync channel open", "role", s.role.String())

	if s.role != RoleJoiner {
		// The host waits for the joiner's snapshot.
		return nil
	}

	snap, err := s.store.ExportSnapshot(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("export snapshot: %w", err))
	}
	if err := s.channel.Send(ctx, Message{Kind: KindSyncData, Payload: &snap}); err != nil {
		return s.fail(fmt.Errorf("%w: send %s: %v", ErrChannel, KindSyncData, err))
	}
	s.state = StateSyncing

	tx, bu, ca := snap.Counts()
	slog.InfoContext(ctx, "Snapshot sent to host",
		"transactions", tx, "budgets", bu, "categories", ca)
	return nil
}

func (s *Session) onMessage(ctx context.Context, msg Message) error {
	switch msg.Kind {
	case KindSyncData:
		if s.role != RoleHost || (s.state != StateConnecting && s.state != StateSyncing) {
			return s.violation(msg.Kind)
		}
		if msg.Payload == nil {
			return s.fail(fmt.Errorf("%w: %s without payload", ErrChannel, msg.Kind))
		}
		s.state = StateSyncing

		if _, err := s.store.MergeSnapshot(ctx, *msg.Payload); err != nil {
			return s.fail(fmt.Errorf("merge peer snapshot: %w", err))
		}
		consolidated, err := s.store.ExportSnapshot(ctx)
		if err != nil {
			return s.fail(fmt.Errorf("export consolidated snapshot: %w", err))
		}
		if err := s.channel.Send(ctx, Message{Kind: KindSyncDataFinal, Payload: &consolidated}); err != nil {
			return s.fail(fmt.Errorf("%w: send %s: %v", ErrChannel, KindSyncDataFinal, err))
		}
		return nil

	case KindSyncDataFinal:
		if s.role != RoleJoiner || s.state != StateSyncing {
			return s.violation(msg.Kind)
		}
		if msg.Payload == nil {
			return s.fail(fmt.Errorf("%w: %s without payload", ErrChannel, msg.Kind))
		}

		if _, err := s.store.MergeSnapshot(ctx, *msg.Payload); err != nil {
			return s.fail(fmt.Errorf("merge consolidated snapshot: %w", err))
		}
		if err := s.channel.Send(ctx, Message{Kind: KindSyncComplete}); err != nil {
			return s.fail(fmt.Errorf("%w: send %s: %v", ErrChannel, KindSyncComplete, err))
		}
		s.complete(ctx)
		return nil

	case KindSyncComplete:
		if s.role != RoleHost || s.state != StateSyncing {
			return s.violation(msg.Kind)
		}
		s.complete(ctx)
		return nil

	default:
		return s.violation(msg.Kind)
	}
}

// complete moves to the terminal success state and schedules the channel
// teardown after the grace period.
func (s *Session) complete(ctx context.Context) {
	s.state = StateCompleted
	slog.InfoContext(ctx, "Sync session completed", "role", s.role.String())

	ch := s.channel
	if ch == nil {
		return
	}
	if s.GracePeriod <= 0 {
		_ = ch.Close()
		return
	}
	time.AfterFunc(s.GracePeriod, func() { _ = ch.Close() })
}

func (s *Session) violation(kind Kind) error {
	return s.fail(fmt.Errorf("%w: unexpected %s while %s as %s", ErrChannel, kind, s.state, s.role))
}

// fail moves to the error state. Merges already applied stay applied.
func (s *Session) fail(err error) error {
	s.state = StateError
	s.lastErr = err
	slog.Error("Sync session failed", "role", s.role.String(), "error", err)
	return err
}
