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

var (
	_ repository.ProductRepository  = (*ProductStore)(nil)
	_ repository.CategoryRepository = (*CategoryStore)(nil)
	_ repository.TableRepository    = (*TableStore)(nil)
)

// ProductStore productos en memoria.
type ProductStore struct {
	mu    sync.Mutex
	items map[string]entity.Product
}

// NewProductStore crea un almacén de productos con los datos iniciales dados.
func NewProductStore(seed ...entity.Product) *ProductStore {
	s := &ProductStore{items: map[string]entity.Product{}}
	for _, p := range seed {
		s.items[p.ID] = p
	}
	return s
}

func (s *ProductStore) Create(_ context.Context, p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; ok {
		return domain.ErrDuplicate
	}
	s.items[p.ID] = *p
	return nil
}

func (s *ProductStore) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProductStore) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (s *ProductStore) Update(_ context.Context, p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	s.items[p.ID] = *p
	return nil
}

func (s *ProductStore) List(_ context.Context, categoryID string, limit, offset int) ([]*entity.Product, error) {
	s.mu.Lock()
	var all []*entity.Product
	for _, p := range s.items {
		if categoryID == "" || p.CategoryID == categoryID {
			p := p
			all = append(all, &p)
		}
	}
	s.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (s *ProductStore) CountByCategory(_ context.Context, categoryID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.items {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *ProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// CategoryStore categorías en memoria.
type CategoryStore struct {
	mu    sync.Mutex
	items map[string]entity.Category
}

// NewCategoryStore crea un almacén de categorías con los datos iniciales dados.
func NewCategoryStore(seed ...entity.Category) *CategoryStore {
	s := &CategoryStore{items: map[string]entity.Category{}}
	for _, c := range seed {
		s.items[c.ID] = c
	}
	return s
}

func (s *CategoryStore) Create(_ context.Context, c *entity.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.items {
		if strings.EqualFold(other.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	s.items[c.ID] = *c
	return nil
}

func (s *CategoryStore) GetByID(_ context.Context, id string) (*entity.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *CategoryStore) GetByName(_ context.Context, name string) (*entity.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (s *CategoryStore) Update(_ context.Context, c *entity.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; !ok {
		return domain.ErrNotFound
	}
	s.items[c.ID] = *c
	return nil
}

func (s *CategoryStore) List(_ context.Context) ([]*entity.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.Category{}
	for _, c := range s.items {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *CategoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// TableStore mesas en memoria.
type TableStore struct {
	mu    sync.Mutex
	items map[string]entity.Table
}

// NewTableStore crea un almacén de mesas con los datos iniciales dados.
func NewTableStore(seed ...entity.Table) *TableStore {
	s := &TableStore{items: map[string]entity.Table{}}
	for _, t := range seed {
		s.items[t.ID] = t
	}
	return s
}

func (s *TableStore) Create(_ context.Context, t *entity.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.items {
		if strings.EqualFold(other.Name, t.Name) {
			return domain.ErrDuplicate
		}
	}
	s.items[t.ID] = *t
	return nil
}

func (s *TableStore) GetByID(_ context.Context, id string) (*entity.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *TableStore) GetByName(_ context.Context, name string) (*entity.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.items {
		if strings.EqualFold(t.Name, name) {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (s *TableStore) Update(_ context.Context, t *entity.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[t.ID]; !ok {
		return domain.ErrNotFound
	}
	s.items[t.ID] = *t
	return nil
}

func (s *TableStore) List(_ context.Context) ([]*entity.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.Table{}
	for _, t := range s.items {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *TableStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	out := []T{}
	for i := offset; i < len(all) && (limit <= 0 || len(out) < limit); i++ {
		out = append(out, all[i])
	}
	return out
}
