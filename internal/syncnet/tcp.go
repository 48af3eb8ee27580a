// Package syncnet provides the point-to-point channel implementations the
// sync session runs over: a direct TCP link and a broker-relayed AMQP
// pair. Both deliver messages reliably and in order and feed the session
// through the same event stream, so the protocol never sees the transport.
package syncnet

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	gosync "sync"
	"time"

	"monetus/internal/sync"
)

// maxFrameSize bounds a single wire frame; a full snapshot of a personal
// ledger fits comfortably.
const maxFrameSize = 32 << 20

// TCPChannel is one sync channel over a single TCP connection. Frames are
// a 4-byte big-endian length followed by the JSON message.
type TCPChannel struct {
	conn      net.Conn
	events    chan sync.Event
	writeMu   gosync.Mutex
	closeOnce gosync.Once
	closed    chan struct{}
}

// HostTCP listens on addr, accepts exactly one peer, and returns the
// channel for it. Cancelling ctx aborts the wait.
func HostTCP(ctx context.Context, addr string) (*TCPChannel, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	defer ln.Close()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	slog.InfoContext(ctx, "Waiting for sync peer", "addr", ln.Addr().String())
	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept peer: %w", err)
	}

	return newTCPChannel(conn), nil
}

// JoinTCP dials a host's published address.
func JoinTCP(ctx context.Context, addr string) (*TCPChannel, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return newTCPChannel(conn), nil
}

func newTCPChannel(conn net.Conn) *TCPChannel {
	c := &TCPChannel{
		conn:   conn,
		events: make(chan sync.Event, 8),
		closed: make(chan struct{}),
	}
	c.events <- sync.Event{Kind: sync.EventOpened}
	go c.readLoop()
	return c
}

// Events is the stream fed into the session. It is closed after the
// terminal EventClosed or EventError.
func (c *TCPChannel) Events() <-chan sync.Event {
	return c.events
}

func (c *TCPChannel) readLoop() {
	defer close(c.events)

	header := make([]byte, 4)
	for {
		if _, err := io.ReadFull(c.conn, header); err != nil {
			c.emitTerminal(err)
			return
		}
		size := binary.BigEndian.Uint32(header)
		if size > maxFrameSize {
			c.emitTerminal(fmt.Errorf("frame of %d bytes exceeds limit", size))
			return
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(c.conn, payload); err != nil {
			c.emitTerminal(err)
			return
		}

		msg, err := sync.DecodeMessage(payload)
		if err != nil {
			c.events <- sync.Event{Kind: sync.EventError, Err: err}
			return
		}
		c.events <- sync.Event{Kind: sync.EventMessage, Msg: &msg}
	}
}

// emitTerminal maps a read failure to a close or error event. A clean EOF
// or a local Close is a peer hangup, not a transport fault.
func (c *TCPChannel) emitTerminal(err error) {
	select {
	case <-c.closed:
		c.events <- sync.Event{Kind: sync.EventClosed}
		return
	default:
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		c.events <- sync.Event{Kind: sync.EventClosed}
		return
	}
	c.events <- sync.Event{Kind: sync.EventError, Err: err}
}

func (c *TCPChannel) Send(ctx context.Context, msg sync.Message) error {
	payload, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if len(payload) > maxFrameSize {
		return fmt.Errorf("message of %d bytes exceeds frame limit", len(payload))
	}

	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	if _, err := c.conn.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (c *TCPChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}
