package photos

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Storage is the object-store boundary. Implementations live outside this
// subsystem; the service only needs put and delete.
type Storage interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// NewStorageKey builds an unguessable object key for an upload.
func NewStorageKey(sessionID int64, fileExt string) string {
	return fmt.Sprintf("sessions/%d/%s%s", sessionID, uuid.NewString(), fileExt)
}
