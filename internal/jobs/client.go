package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/cotowork/userservice/internal/audit"
)

// Client submits jobs to the queue. It satisfies the auth package's
// EventSink so audit writes never sit on the login path.
type Client struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{client: asynq.NewClient(redisOpts), logger: logger}
}

// Record enqueues an auth event. Enqueue failures are logged and dropped;
// the audit trail is best-effort and must not fail a login.
func (c *Client) Record(ctx context.Context, event audit.Event) {
	if c == nil || c.client == nil {
		return
	}
	task, err := NewAuthEventTask(event)
	if err != nil {
		c.logger.Error("build auth event task", slog.Any("error", err))
		return
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		c.logger.Error("enqueue auth event", slog.Any("error", err))
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
