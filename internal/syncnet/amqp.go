package syncnet

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"monetus/internal/sync"
)

// AMQPChannel relays the sync protocol through a broker for device pairs
// with no direct network path. Each session code maps to a queue per
// direction; queues auto-delete once both sides disconnect.
//
// A relay cannot observe the peer hanging up, so a vanished peer simply
// means no further events — the session waits until the user resets,
// which matches the protocol's no-timeout rule. Broker connection loss
// does surface, as an error event.
type AMQPChannel struct {
	conn      *amqp091.Connection
	ch        *amqp091.Channel
	sendQueue string
	recvQueue string
	events    chan sync.Event
	closeOnce gosync.Once
}

// DialAMQP connects to the broker and binds the two direction queues for
// a session code. Host and joiner pass the same code; the role picks
// which queue each side consumes.
func DialAMQP(ctx context.Context, url, code string, role sync.Role) (*AMQPChannel, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	toHost := "monetus.sync." + code + ".to-host"
	toJoiner := "monetus.sync." + code + ".to-joiner"

	c := &AMQPChannel{
		conn:   conn,
		ch:     ch,
		events: make(chan sync.Event, 8),
	}
	if role == sync.RoleHost {
		c.sendQueue, c.recvQueue = toJoiner, toHost
	} else {
		c.sendQueue, c.recvQueue = toHost, toJoiner
	}

	for _, queue := range []string{toHost, toJoiner} {
		_, err := ch.QueueDeclare(
			queue, // name
			false, // durable: a sync session does not outlive the broker
			true,  // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("declare queue %s: %w", queue, err)
		}
	}

	deliveries, err := ch.Consume(
		c.recvQueue, // queue
		"",          // consumer
		false,       // auto-ack: ack after the event is handed over
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("consume %s: %w", c.recvQueue, err)
	}

	closed := conn.NotifyClose(make(chan *amqp091.Error, 1))
	c.events <- sync.Event{Kind: sync.EventOpened}
	go c.pump(deliveries, closed)

	slog.InfoContext(ctx, "Sync relay connected",
		"role", role.String(),
		"send_queue", c.sendQueue,
		"recv_queue", c.recvQueue)
	return c, nil
}

// Events is the stream fed into the session.
func (c *AMQPChannel) Events() <-chan sync.Event {
	return c.events
}

func (c *AMQPChannel) pump(deliveries <-chan amqp091.Delivery, closed <-chan *amqp091.Error) {
	defer close(c.events)

	for {
		select {
		case amqpErr := <-closed:
			if amqpErr == nil {
				// Local Close; the session tore the channel down itself.
				c.events <- sync.Event{Kind: sync.EventClosed}
				return
			}
			c.events <- sync.Event{Kind: sync.EventError, Err: amqpErr}
			return
		case delivery, ok := <-deliveries:
			if !ok {
				c.events <- sync.Event{Kind: sync.EventClosed}
				return
			}

			msg, err := sync.DecodeMessage(delivery.Body)
			if err != nil {
				_ = delivery.Nack(false, false)
				c.events <- sync.Event{Kind: sync.EventError, Err: err}
				return
			}
			_ = delivery.Ack(false)
			c.events <- sync.Event{Kind: sync.EventMessage, Msg: &msg}
		}
	}
}

func (c *AMQPChannel) Send(ctx context.Context, msg sync.Message) error {
	body, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.ch.PublishWithContext(
		ctx,
		"",          // default exchange
		c.sendQueue, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", c.sendQueue, err)
	}
	return nil
}

func (c *AMQPChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.ch != nil {
			c.ch.Close()
		}
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}
