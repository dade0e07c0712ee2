package categories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

type memRepo struct {
	mu    sync.Mutex
	items []Category
	seq   int
	err   error
}

func (m *memRepo) List(ctx context.Context) ([]Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Category, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("category %s: %w", id, shared.ErrNotFound)
}

func (m *memRepo) Create(ctx context.Context, name string) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	c := Category{ID: fmt.Sprintf("c%d", m.seq), Name: name, CreatedAt: time.Now()}
	m.items = append(m.items, c)
	return c, nil
}

func (m *memRepo) Update(ctx context.Context, id, name string) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Name = name
			return m.items[i], nil
		}
	}
	return Category{}, fmt.Errorf("category %s: %w", id, shared.ErrNotFound)
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

type countingNotifier struct{ bumps int }

func (n *countingNotifier) Bump(ctx context.Context) error {
	n.bumps++
	return nil
}
