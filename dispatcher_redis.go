package auth

import (
	"context"
	"encoding/json"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

// DefaultEmailQueue is the list the email worker drains.
const DefaultEmailQueue = "email-queue"

// QueueDispatcher enqueues confirmation messages on a Redis list. Delivery
// to the recipient is the consuming worker's problem; from the engine's
// point of view a successful push is a successful send.
type QueueDispatcher struct {
	client redis.UniversalClient
	queue  string
	logger Logger
}

var _ NotificationDispatcher = (*QueueDispatcher)(nil)

// NewQueueDispatcher returns a dispatcher pushing to DefaultEmailQueue.
func NewQueueDispatcher(client redis.UniversalClient) *QueueDispatcher {
	return &QueueDispatcher{
		client: client,
		queue:  DefaultEmailQueue,
		logger: defLogger{},
	}
}

// WithQueue overrides the queue name.
func (d *QueueDispatcher) WithQueue(name string) *QueueDispatcher {
	if name != "" {
		d.queue = name
	}
	return d
}

func (d *QueueDispatcher) WithLogger(logger Logger) *QueueDispatcher {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// Send serializes the message and pushes it onto the queue. One attempt,
// no local retry; the caller decides what a failure means.
func (d *QueueDispatcher) Send(ctx context.Context, msg ConfirmationMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode confirmation message")
	}

	if err := d.client.LPush(ctx, d.queue, payload).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to enqueue confirmation message").
			WithTextCode(TextCodeDispatchFailed)
	}

	d.logger.Debug("confirmation message queued", "queue", d.queue, "to", msg.To)

	return nil
}
