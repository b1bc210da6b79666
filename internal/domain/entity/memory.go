package entity

import (
	"time"
)

// MemberRef is one entry of a memory's membership list. The same moment may
// appear more than once; the add path appends unconditionally (see the
// membership service for the documented duplicate policy).
type MemberRef struct {
	MomentID string    `json:"moment_id"`
	AddedAt  time.Time `json:"added_at"`
}

// Memory is a titled collection referencing zero or more moments owned by
// the same user. Deleting a memory never deletes its member moments.
type Memory struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"user_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	CoverImage  *MediaItem  `json:"cover_image,omitempty"`
	Members     []MemberRef `json:"members"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// HasMember reports whether any members entry references momentID.
func (m *Memory) HasMember(momentID string) bool {
	for _, ref := range m.Members {
		if ref.MomentID == momentID {
			return true
		}
	}
	return false
}
