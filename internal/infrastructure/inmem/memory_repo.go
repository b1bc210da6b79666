package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/memoria-app/memoria/internal/domain/entity"
	"github.com/memoria-app/memoria/internal/domain/repository"
)

type MemoryRepo struct {
	s *Store
}

func (r *MemoryRepo) Create(_ context.Context, m *entity.Memory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insert(m)
	return nil
}

func (r *MemoryRepo) insert(m *entity.Memory) {
	now := time.Now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Members == nil {
		m.Members = []entity.MemberRef{}
	}
	r.s.memories[m.ID] = cloneMemory(m)
	r.s.memoryOrder = append(r.s.memoryOrder, m.ID)
}

// CreateWithMembers holds the store lock across the ownership check and the
// insert, so the seeded creation is atomic: a failed reference check writes
// nothing.
func (r *MemoryRepo) CreateWithMembers(_ context.Context, m *entity.Memory, momentIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range momentIDs {
		mm, ok := r.s.moments[id]
		if !ok || mm.OwnerID != m.OwnerID {
			return repository.ErrInvalidReference
		}
	}
	r.insert(m)
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, ownerID, id string) (*entity.Memory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.memories[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return cloneMemory(m), nil
}

func (r *MemoryRepo) List(_ context.Context, ownerID string, s repository.MemorySort) ([]*entity.Memory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*entity.Memory{}
	for _, id := range r.s.memoryOrder {
		m, ok := r.s.memories[id]
		if !ok || m.OwnerID != ownerID {
			continue
		}
		out = append(out, cloneMemory(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch s.By {
		case "title":
			less = out[i].Title < out[j].Title
		case "updated_at":
			less = out[i].UpdatedAt.Before(out[j].UpdatedAt)
		default:
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if s.Asc {
			return less
		}
		return !less
	})
	return out, nil
}

func (r *MemoryRepo) Patch(_ context.Context, ownerID, id string, p repository.MemoryPatch) (*entity.Memory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.memories[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	m.UpdatedAt = time.Now().UTC()
	return cloneMemory(m), nil
}

func (r *MemoryRepo) AppendMember(_ context.Context, ownerID, memoryID, momentID string, addedAt time.Time) (*entity.Memory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.memories[memoryID]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	m.Members = append(m.Members, entity.MemberRef{MomentID: momentID, AddedAt: addedAt.UTC()})
	m.UpdatedAt = time.Now().UTC()
	return cloneMemory(m), nil
}

func (r *MemoryRepo) PullMember(_ context.Context, ownerID, memoryID, momentID string) (*entity.Memory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.memories[memoryID]
	if !ok || m.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	pull(m, momentID)
	m.UpdatedAt = time.Now().UTC()
	return cloneMemory(m), nil
}

func (r *MemoryRepo) PullMemberAll(_ context.Context, ownerID, momentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.memories {
		if m.OwnerID != ownerID {
			continue
		}
		if m.HasMember(momentID) {
			pull(m, momentID)
			m.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (r *MemoryRepo) SweepOrphans(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed int64
	for _, m := range r.s.memories {
		if m.OwnerID != ownerID {
			continue
		}
		kept := m.Members[:0]
		for _, ref := range m.Members {
			if mm, ok := r.s.moments[ref.MomentID]; ok && mm.OwnerID == ownerID {
				kept = append(kept, ref)
			} else {
				removed++
			}
		}
		if len(kept) != len(m.Members) {
			m.Members = append([]entity.MemberRef{}, kept...)
			m.UpdatedAt = time.Now().UTC()
		}
	}
	return removed, nil
}

func (r *MemoryRepo) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.memories[id]
	if !ok || m.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.s.memories, id)
	for i, mid := range r.s.memoryOrder {
		if mid == id {
			r.s.memoryOrder = append(r.s.memoryOrder[:i], r.s.memoryOrder[i+1:]...)
			break
		}
	}
	return nil
}

// pull removes every entry matching momentID, not just the first.
func pull(m *entity.Memory, momentID string) {
	kept := m.Members[:0]
	for _, ref := range m.Members {
		if ref.MomentID != momentID {
			kept = append(kept, ref)
		}
	}
	m.Members = append([]entity.MemberRef{}, kept...)
}

var _ repository.MemoryRepository = (*MemoryRepo)(nil)
