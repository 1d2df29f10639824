package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"mesto-api/internal/logging"
	"mesto-api/internal/model"
	"mesto-api/internal/platform/rabbitmq"
)

const (
	defaultRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 30 * time.Second
)

type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
}

type subscription struct {
	deliveries <-chan amqp.Delivery
	close      func() error
}

// ActivityWorker drains the events queue into the activities table. When
// the broker closes its delivery channel it keeps re-subscribing until
// Close is called.
type ActivityWorker struct {
	conn      *amqp.Connection
	store     ActivityStore
	queueName string
	logger    logging.Logger

	subscribe  func() (*subscription, error)
	retryDelay time.Duration
	healthy    atomic.Bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewActivityWorker(conn *amqp.Connection, store ActivityStore, queueName string, logger logging.Logger) *ActivityWorker {
	if logger == nil {
		logger = logging.Nop()
	}
	w := &ActivityWorker{
		conn:       conn,
		store:      store,
		queueName:  queueName,
		logger:     logger.With("component", "activity_worker"),
		retryDelay: defaultRetryDelay,
	}
	w.subscribe = w.openChannel
	return w
}

func (w *ActivityWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	sub, err := w.subscribe()
	if err != nil {
		return err
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.healthy.Store(true)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.healthy.Store(false)
		w.loop(workerCtx, sub)
	}()

	return nil
}

// Healthy reports whether the worker currently holds a live subscription.
func (w *ActivityWorker) Healthy() bool {
	return w.healthy.Load()
}

func (w *ActivityWorker) openChannel() (*subscription, error) {
	if w.conn == nil || w.conn.IsClosed() {
		return nil, errors.New("rabbitmq connection closed")
	}
	ch, err := w.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareEventsQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume queue failed: %w", err)
	}
	return &subscription{deliveries: deliveries, close: ch.Close}, nil
}

func (w *ActivityWorker) loop(ctx context.Context, sub *subscription) {
	for {
		w.run(ctx, sub.deliveries)
		_ = sub.close()
		if ctx.Err() != nil {
			return
		}

		w.healthy.Store(false)
		w.logger.Warn(ctx, "events delivery channel closed, re-subscribing")
		sub = w.resubscribe(ctx)
		if sub == nil {
			return
		}
		w.healthy.Store(true)
		w.logger.Info(ctx, "events consumer re-subscribed")
	}
}

// resubscribe retries with exponential backoff. It returns nil once ctx
// is done.
func (w *ActivityWorker) resubscribe(ctx context.Context) *subscription {
	delay := w.retryDelay
	for {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		sub, err := w.subscribe()
		if err == nil {
			return sub
		}
		w.logger.Warn(ctx, "re-subscribe to events failed", "error", err, "retry_in", delay*2)
		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}

func (w *ActivityWorker) run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			if err := w.handle(ctx, d.Body); err != nil {
				w.logger.Error(ctx, "drop activity event", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handle decodes and stores one event body.
func (w *ActivityWorker) handle(ctx context.Context, body []byte) error {
	var activity model.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		return fmt.Errorf("decode activity failed: %w", err)
	}
	if activity.Type == "" || activity.ActorID == "" {
		return errors.New("activity missing type or actor")
	}
	activity.ID = 0
	return w.store.Create(ctx, &activity)
}

func (w *ActivityWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
