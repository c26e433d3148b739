package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
)

type stubMailer struct {
	sent []string
	err  error
}

func (m *stubMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAlbumReadyHandlerSendsMail(t *testing.T) {
	task, err := NewAlbumReadyTask(AlbumReadyPayload{
		To:         "client@studio.test",
		AlbumTitle: "Wedding",
		ShareURL:   "http://studio.test/shared-album/abc",
	})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}

	mailer := &stubMailer{}
	handler := AlbumReadyHandler(mailer, discardLogger())
	if err := handler(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent = %v", mailer.sent)
	}
	if got := mailer.sent[0]; got != `client@studio.test|Your album "Wedding" is ready` {
		t.Errorf("sent = %q", got)
	}
}

func TestAlbumReadyHandlerPropagatesSendFailure(t *testing.T) {
	task, err := NewAlbumReadyTask(AlbumReadyPayload{To: "x@y.test"})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	mailer := &stubMailer{err: errors.New("smtp down")}
	handler := AlbumReadyHandler(mailer, discardLogger())
	if err := handler(context.Background(), task); err == nil {
		t.Fatal("expected error so the task retries")
	}
}

func TestAlbumReadyHandlerSkipsBadPayload(t *testing.T) {
	task := asynq.NewTask(TaskTypeAlbumReady, []byte("{not json"))
	mailer := &stubMailer{}
	handler := AlbumReadyHandler(mailer, discardLogger())
	err := handler(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("mail sent for bad payload")
	}
}
