package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/cotowork/userservice/internal/audit"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuthEvent carries one authentication audit event.
	TaskTypeAuthEvent = "audit:auth_event"
)

// NewAuthEventTask constructs an Asynq task from an audit event.
func NewAuthEventTask(event audit.Event) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuthEvent, data), nil
}
