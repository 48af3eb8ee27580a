package sync

import (
	"context"
	"fmt"
)

// Run pumps transport events into the session until it reaches a terminal
// state. There is no protocol timeout: a session waits indefinitely for
// peer action unless ctx is cancelled, which tears the session down like
// a user reset.
func Run(ctx context.Context, sess *Session, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			sess.Reset()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				if sess.State() == StateCompleted {
					return nil
				}
				if err := sess.Err(); err != nil {
					return err
				}
				return fmt.Errorf("%w: event stream ended before completion", ErrChannel)
			}

			// HandleEvent's error is already captured in the session
			// state; terminal states decide the outcome.
			_ = sess.HandleEvent(ctx, ev)
			switch sess.State() {
			case StateCompleted:
				return nil
			case StateError:
				return sess.Err()
			}
		}
	}
}
