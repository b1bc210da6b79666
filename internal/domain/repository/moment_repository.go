package repository

import (
	"context"

	"github.com/memoria-app/memoria/internal/domain/entity"
)

// MomentFilter narrows owner-scoped moment listings.
type MomentFilter struct {
	Mood  string
	Tag   string
	Query string // case-insensitive substring match on text
	Page  int
	Limit int
}

// MomentPatch is a merge patch: nil fields are left untouched, non-nil
// fields replace the stored value. The patch is applied atomically per
// record.
type MomentPatch struct {
	Text *string
	Mood *string
	Tags *[]string
}

// IsEmpty reports whether the patch would change nothing.
func (p MomentPatch) IsEmpty() bool {
	return p.Text == nil && p.Mood == nil && p.Tags == nil
}

// MomentRepository persists moments. Every lookup and mutation is scoped by
// owner; a mismatch surfaces as ErrNotFound.
type MomentRepository interface {
	Create(ctx context.Context, m *entity.Moment) error
	GetByID(ctx context.Context, ownerID, id string) (*entity.Moment, error)
	ListByIDs(ctx context.Context, ownerID string, ids []string) ([]*entity.Moment, error)
	List(ctx context.Context, ownerID string, f MomentFilter) ([]*entity.Moment, int64, error)
	Patch(ctx context.Context, ownerID, id string, p MomentPatch) (*entity.Moment, error)
	// IncrementViews bumps the view counter as a single conditional update
	// in the store, never a read-modify-write in application code.
	IncrementViews(ctx context.Context, ownerID, id string) (*entity.Moment, error)
	Delete(ctx context.Context, ownerID, id string) error
}
