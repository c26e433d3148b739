package photos

import "time"

// Photo represents a stored photograph. It carries no owner column; ownership
// is resolved through the parent session's creator.
type Photo struct {
	ID           int64     `json:"id"`
	SessionID    int64     `json:"sessionId"`
	PhotoURL     string    `json:"photoUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty"`
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	IsFeatured   bool      `json:"isFeatured"`
	Width        *int32    `json:"width,omitempty"`
	Height       *int32    `json:"height,omitempty"`
	FileSize     *int64    `json:"fileSize,omitempty"`
	FileType     *string   `json:"fileType,omitempty"`
	StorageKey   string    `json:"-"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// PhotoUpdate carries the mutable metadata of a photo.
type PhotoUpdate struct {
	Title       *string
	Description *string
	IsFeatured  bool
}
