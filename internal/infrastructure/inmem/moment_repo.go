package inmem

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memoria-app/memoria/internal/domain/entity"
	"github.com/memoria-app/memoria/internal/domain/repository"
)

type MomentRepo struct {
	s *Store
}

func (r *MomentRepo) Create(_ context.Context, m *entity.Moment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if m.Media == nil {
		m.Media = []entity.MediaItem{}
	}
	r.s.moments[m.ID] = cloneMoment(m)
	r.s.momentOrder = append(r.s.momentOrder, m.ID)
	return nil
}

func (r *MomentRepo) GetByID(_ context.Context, ownerID, id string) (*entity.Moment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.locked(ownerID, id)
}

func (r *MomentRepo) locked(ownerID, id string) (*entity.Moment, error) {
	m, ok := r.s.moments[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneMoment(m), nil
}

func (r *MomentRepo) ListByIDs(_ context.Context, ownerID string, ids []string) ([]*entity.Moment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*entity.Moment{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if m, ok := r.s.moments[id]; ok && m.OwnerID == ownerID {
			out = append(out, cloneMoment(m))
		}
	}
	return out, nil
}

func (r *MomentRepo) List(_ context.Context, ownerID string, f repository.MomentFilter) ([]*entity.Moment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := []*entity.Moment{}
	for _, id := range r.s.momentOrder {
		m, ok := r.s.moments[id]
		if !ok || m.OwnerID != ownerID {
			continue
		}
		if f.Mood != "" && m.Mood != f.Mood {
			continue
		}
		if f.Tag != "" && !containsTag(m.Tags, f.Tag) {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(m.Text), strings.ToLower(f.Query)) {
			continue
		}
		matched = append(matched, cloneMoment(m))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []*entity.Moment{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MomentRepo) Patch(_ context.Context, ownerID, id string, p repository.MomentPatch) (*entity.Moment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.moments[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	if p.Text != nil {
		m.Text = *p.Text
	}
	if p.Mood != nil {
		m.Mood = *p.Mood
	}
	if p.Tags != nil {
		m.Tags = append([]string(nil), (*p.Tags)...)
	}
	m.UpdatedAt = time.Now().UTC()
	return cloneMoment(m), nil
}

func (r *MomentRepo) IncrementViews(_ context.Context, ownerID, id string) (*entity.Moment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.moments[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	m.Views++
	m.UpdatedAt = time.Now().UTC()
	return cloneMoment(m), nil
}

func (r *MomentRepo) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.moments[id]
	if !ok || m.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.s.moments, id)
	for i, mid := range r.s.momentOrder {
		if mid == id {
			r.s.momentOrder = append(r.s.momentOrder[:i], r.s.momentOrder[i+1:]...)
			break
		}
	}
	return nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

var _ repository.MomentRepository = (*MomentRepo)(nil)
