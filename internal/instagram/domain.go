// Package instagram serves the studio's curated Instagram feed. Posts are
// persisted locally and the public feed endpoint reads through a Redis cache.
package instagram

import "time"

// Post is one feed entry.
type Post struct {
	ID        int64     `json:"id"`
	MediaURL  string    `json:"mediaUrl"`
	Permalink string    `json:"permalink"`
	Caption   *string   `json:"caption,omitempty"`
	PostedAt  time.Time `json:"postedAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostInput carries the fields of a new feed entry.
type PostInput struct {
	MediaURL  string
	Permalink string
	Caption   *string
	PostedAt  time.Time
}
