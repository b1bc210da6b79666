package repository

import (
	"context"
	"time"

	"github.com/memoria-app/memoria/internal/domain/entity"
)

// MemoryPatch is a merge patch over the mutable memory fields.
type MemoryPatch struct {
	Title       *string
	Description *string
}

// IsEmpty reports whether the patch would change nothing.
func (p MemoryPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil
}

// MemorySort names the whitelisted sort columns for listings.
type MemorySort struct {
	By  string // "created_at", "updated_at" or "title"
	Asc bool
}

// MemoryRepository persists memories and their membership lists. The
// membership list is only ever mutated through the operations below.
type MemoryRepository interface {
	Create(ctx context.Context, m *entity.Memory) error

	// CreateWithMembers creates the memory seeded with the given moment ids
	// inside a single transaction: the ownership check over momentIDs and
	// the insert either both take effect or neither does. A failed check
	// yields ErrInvalidReference, a failed commit ErrTxAborted.
	CreateWithMembers(ctx context.Context, m *entity.Memory, momentIDs []string) error

	GetByID(ctx context.Context, ownerID, id string) (*entity.Memory, error)
	List(ctx context.Context, ownerID string, sort MemorySort) ([]*entity.Memory, error)
	Patch(ctx context.Context, ownerID, id string, p MemoryPatch) (*entity.Memory, error)

	// AppendMember appends unconditionally; it neither checks for an
	// existing entry nor re-validates the referenced moment.
	AppendMember(ctx context.Context, ownerID, memoryID, momentID string, addedAt time.Time) (*entity.Memory, error)

	// PullMember removes every members entry referencing momentID from one
	// memory. Removing a non-member is a no-op, not an error.
	PullMember(ctx context.Context, ownerID, memoryID, momentID string) (*entity.Memory, error)

	// PullMemberAll removes every members entry referencing momentID from
	// all memories of the owner (the deletion fan-out).
	PullMemberAll(ctx context.Context, ownerID, momentID string) error

	// SweepOrphans drops members entries whose moment no longer exists and
	// returns the number of entries removed.
	SweepOrphans(ctx context.Context, ownerID string) (int64, error)

	Delete(ctx context.Context, ownerID, id string) error
}
