package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore personal en memoria.
type UserStore struct {
	mu    sync.Mutex
	items map[string]entity.User
}

// NewUserStore crea un almacén de usuarios con los datos iniciales dados.
func NewUserStore(seed ...entity.User) *UserStore {
	s := &UserStore{items: map[string]entity.User{}}
	for _, u := range seed {
		s.items[u.ID] = u
	}
	return s
}

func (s *UserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.items {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	s.items[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) Update(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	s.items[u.ID] = *u
	return nil
}

func (s *UserStore) List(_ context.Context, includeDeleted bool) ([]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.User{}
	for _, u := range s.items {
		if includeDeleted || !u.Deleted {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *UserStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items), nil
}
