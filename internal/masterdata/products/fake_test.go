package products

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

type memRepo struct {
	mu    sync.Mutex
	items map[string]Product
	seq   int
}

func newMemRepo() *memRepo { return &memRepo{items: map[string]Product{}} }

func (m *memRepo) List(ctx context.Context) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Product{}, fmt.Errorf("product %s: %w", id, shared.ErrNotFound)
	}
	return p, nil
}

func (m *memRepo) Create(ctx context.Context, p Product) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	p.ID = fmt.Sprintf("p%d", m.seq)
	p.CreatedAt = time.Now()
	m.items[p.ID] = p
	return p, nil
}

func (m *memRepo) Update(ctx context.Context, p Product) (Product, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.items[p.ID]
	if !ok {
		return Product{}, nil, fmt.Errorf("product %s: %w", p.ID, shared.ErrNotFound)
	}
	p.CreatedAt = old.CreatedAt
	m.items[p.ID] = p
	return p, old.Images, nil
}

func (m *memRepo) Delete(ctx context.Context, id string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, shared.ErrNotFound)
	}
	delete(m.items, id)
	return p.Images, nil
}

type staticCategories map[string]string

func (c staticCategories) Get(ctx context.Context, id string) (categories.Category, error) {
	name, ok := c[id]
	if !ok {
		return categories.Category{}, fmt.Errorf("category %s: %w", id, shared.ErrNotFound)
	}
	return categories.Category{ID: id, Name: name}, nil
}

type recordingRemover struct {
	removed []string
	fail    bool
}

func (r *recordingRemover) RemoveImages(ctx context.Context, urls []string) error {
	r.removed = append(r.removed, urls...)
	if r.fail {
		return errors.New("disk on fire")
	}
	return nil
}

type countingNotifier struct{ bumps int }

func (n *countingNotifier) Bump(ctx context.Context) error {
	n.bumps++
	return nil
}
