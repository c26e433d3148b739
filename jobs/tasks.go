package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAlbumReady is the task type for the album delivery email.
	TaskTypeAlbumReady = "album:ready"
)

// AlbumReadyPayload describes the album delivery notification.
type AlbumReadyPayload struct {
	To         string `json:"to"`
	AlbumTitle string `json:"albumTitle"`
	ShareURL   string `json:"shareUrl"`
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewAlbumReadyTask constructs an Asynq task.
func NewAlbumReadyTask(payload AlbumReadyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAlbumReady, data), nil
}

// AlbumReadyHandler returns the handler that processes TaskTypeAlbumReady
// tasks by sending the delivery email.
func AlbumReadyHandler(mailer Mailer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AlbumReadyPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		subject := fmt.Sprintf("Your album %q is ready", payload.AlbumTitle)
		body := fmt.Sprintf("Your photo album %q is ready for viewing.\n\nView it here: %s\n", payload.AlbumTitle, payload.ShareURL)
		if err := mailer.Send(ctx, payload.To, subject, body); err != nil {
			logger.Error("album ready email failed", slog.String("to", payload.To), slog.Any("error", err))
			return err
		}
		logger.Info("album ready email sent", slog.String("to", payload.To))
		return nil
	}
}
