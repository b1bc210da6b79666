// Package inmem provides a mutex-guarded, in-process implementation of the
// repository interfaces. It mirrors the Postgres semantics closely enough
// to back the application-service tests without a database.
package inmem

import (
	"sync"

	"github.com/memoria-app/memoria/internal/domain/entity"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	moments  map[string]*entity.Moment
	memories map[string]*entity.Memory

	// insertion order, for stable listings and tie-breaks
	momentOrder []string
	memoryOrder []string
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*entity.User),
		moments:  make(map[string]*entity.Moment),
		memories: make(map[string]*entity.Memory),
	}
}

func (s *Store) Users() *UserRepo          { return &UserRepo{s: s} }
func (s *Store) Moments() *MomentRepo      { return &MomentRepo{s: s} }
func (s *Store) Memories() *MemoryRepo     { return &MemoryRepo{s: s} }
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

func cloneMoment(m *entity.Moment) *entity.Moment {
	c := *m
	c.Tags = append([]string(nil), m.Tags...)
	c.Media = append([]entity.MediaItem(nil), m.Media...)
	return &c
}

func cloneMemory(m *entity.Memory) *entity.Memory {
	c := *m
	c.Members = append([]entity.MemberRef(nil), m.Members...)
	if m.CoverImage != nil {
		cover := *m.CoverImage
		c.CoverImage = &cover
	}
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}
