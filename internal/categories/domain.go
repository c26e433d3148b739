package categories

import (
	"regexp"
	"strings"
	"time"
)

// Category groups published work on the public portfolio.
type Category struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	CoverPhotoURL *string   `json:"coverPhotoUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CategoryInput carries the mutable fields of a category. An empty Slug
// is derived from Name.
type CategoryInput struct {
	Name          string
	Slug          string
	Description   *string
	CoverPhotoURL *string
}

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9-]+`)
	slugCollapse = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL-safe slug from a category name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
