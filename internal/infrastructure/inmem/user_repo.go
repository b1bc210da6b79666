package inmem

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memoria-app/memoria/internal/domain/entity"
	"github.com/memoria-app/memoria/internal/domain/repository"
)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.s.users {
		if existing.Email == email {
			return repository.ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

var _ repository.UserRepository = (*UserRepo)(nil)
