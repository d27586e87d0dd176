package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBackupSnapshot is the task type for taking a document backup.
	TaskBackupSnapshot = "backup:snapshot"
)

// BackupPayload configures a backup run. Keep overrides the retention of the
// job when positive.
type BackupPayload struct {
	Keep int `json:"keep,omitempty"`
}

// NewBackupTask constructs an Asynq task.
func NewBackupTask(payload BackupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBackupSnapshot, data), nil
}
