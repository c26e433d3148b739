package sessions

import "time"

// Session represents a photo session. CreatedBy is the owning photographer;
// photos resolve their ownership through this record.
type Session struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	SessionDate   time.Time  `json:"sessionDate"`
	Location      *string    `json:"location,omitempty"`
	CoverPhotoURL *string    `json:"coverPhotoUrl,omitempty"`
	CreatedBy     int64      `json:"createdBy"`
	IsPublished   bool       `json:"isPublished"`
	PublishDate   *time.Time `json:"publishDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// SessionInput carries the mutable fields of a session.
type SessionInput struct {
	Title       string
	Description *string
	SessionDate time.Time
	Location    *string
}
