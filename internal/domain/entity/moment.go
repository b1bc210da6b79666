package entity

import (
	"time"
)

// Media kinds accepted for moment attachments.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// DefaultMood is applied when a moment is created without an explicit mood.
const DefaultMood = "neutral"

// MediaItem references an uploaded blob (image or video) by its public URL
// and the storage object name used for deletion.
type MediaItem struct {
	Kind     string `json:"kind"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Moment is a single journal entry. Tags preserve insertion order but carry
// no ordering semantics; Views is a monotonic counter incremented only
// through the store's atomic increment operation.
type Moment struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"user_id"`
	Text      string      `json:"text"`
	Mood      string      `json:"mood"`
	Tags      []string    `json:"tags"`
	Views     int64       `json:"views"`
	Media     []MediaItem `json:"media"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
