package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/products"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

type memRepo struct {
	entries []Entry
	seq     int
}

func (m *memRepo) List(ctx context.Context, period shared.DateRange) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range m.entries {
		if !period.IsZero() && (e.Date == nil || !period.Contains(*e.Date)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memRepo) Create(ctx context.Context, e Entry) (Entry, error) {
	m.seq++
	e.ID = fmt.Sprintf("e%d", m.seq)
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	return nil
}

type productTable map[string]products.Product

func (t productTable) Get(ctx context.Context, id string) (products.Product, error) {
	p, ok := t[id]
	if !ok {
		return products.Product{}, fmt.Errorf("product %s: %w", id, shared.ErrNotFound)
	}
	return p, nil
}

type categoryTable map[string]string

func (t categoryTable) Get(ctx context.Context, id string) (categories.Category, error) {
	name, ok := t[id]
	if !ok {
		return categories.Category{}, fmt.Errorf("category %s: %w", id, shared.ErrNotFound)
	}
	return categories.Category{ID: id, Name: name}, nil
}

type countingNotifier struct{ bumps int }

func (n *countingNotifier) Bump(ctx context.Context) error {
	n.bumps++
	return nil
}

func fixtures() (productTable, categoryTable) {
	drinks := "c1"
	return productTable{
			"p1": {ID: "p1", Name: "Cola", Price: decimal.RequireFromString("2"), CategoryID: &drinks, Category: &products.CategoryRef{ID: "c1", Name: "Drinks"}},
			"p2": {ID: "p2", Name: "Loose", Price: decimal.RequireFromString("1.10")},
		}, categoryTable{
			"c1": "Drinks",
			"c2": "Snacks",
		}
}

func newService(kind Kind, repo *memRepo, notifier shared.ChangeNotifier) *Service {
	prods, cats := fixtures()
	svc := NewService(kind, repo, prods, cats, notifier, nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateSnapshotsTotalPriceAndProductCategory(t *testing.T) {
	repo := &memRepo{}
	notifier := &countingNotifier{}
	svc := newService(KindSale, repo, notifier)

	entry, err := svc.Create(context.Background(), CreateInput{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)
	assert.True(t, entry.TotalPrice.Equal(decimal.NewFromInt(6)))
	require.NotNil(t, entry.CategoryID)
	assert.Equal(t, "c1", *entry.CategoryID)
	assert.Equal(t, "Drinks", entry.CategoryName)
	require.NotNil(t, entry.Date)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), *entry.Date)
	assert.Equal(t, 1, notifier.bumps)
}

func TestCreateExplicitCategoryOverridesProduct(t *testing.T) {
	svc := newService(KindExpense, &memRepo{}, nil)

	entry, err := svc.Create(context.Background(), CreateInput{ProductID: "p1", Quantity: 1, CategoryID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "c2", *entry.CategoryID)
	assert.Equal(t, KindExpense, entry.Kind)
}

func TestCreateUncategorizedProduct(t *testing.T) {
	svc := newService(KindSale, &memRepo{}, nil)

	entry, err := svc.Create(context.Background(), CreateInput{ProductID: "p2", Quantity: 2})
	require.NoError(t, err)
	assert.Nil(t, entry.CategoryID)
	assert.Equal(t, "2.2", entry.TotalPrice.String())
}

func TestCreateFailuresWriteNothing(t *testing.T) {
	repo := &memRepo{}
	notifier := &countingNotifier{}
	svc := newService(KindSale, repo, notifier)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ProductID: "p1", Quantity: 0})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Quantity: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{ProductID: "ghost", Quantity: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Create(ctx, CreateInput{ProductID: "p1", Quantity: 1, CategoryID: "ghost"})
	require.ErrorIs(t, err, shared.ErrNotFound)

	assert.Empty(t, repo.entries)
	assert.Zero(t, notifier.bumps)
}

func TestDeleteRequiresID(t *testing.T) {
	svc := newService(KindSale, &memRepo{}, nil)
	require.ErrorIs(t, svc.Delete(context.Background(), " "), shared.ErrValidation)
}

func newRouter(repo *memRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Route("/sales", NewHandler(logger, newService(KindSale, repo, nil), time.UTC).MountRoutes)
	return r
}

func TestHandlerCreateStatusCodes(t *testing.T) {
	router := newRouter(&memRepo{})
	cases := []struct {
		body string
		want int
	}{
		{`{"productId":"p1","quantity":3}`, http.StatusCreated},
		{`{"productId":"p1","quantity":-1}`, http.StatusBadRequest},
		{`{"productId":"ghost","quantity":1}`, http.StatusNotFound},
		{`{"productId":"p1","quantity":1,"categoryId":"ghost"}`, http.StatusNotFound},
		{`not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(tc.body)))
		assert.Equal(t, tc.want, rr.Code, tc.body)
	}
}

func TestHandlerListFiltersByRange(t *testing.T) {
	repo := &memRepo{}
	router := newRouter(repo)
	day := func(d int) *time.Time {
		v := time.Date(2025, 1, d, 12, 0, 0, 0, time.UTC)
		return &v
	}
	repo.entries = []Entry{
		{ID: "a", Kind: KindSale, Date: day(1)},
		{ID: "b", Kind: KindSale, Date: day(5)},
		{ID: "c", Kind: KindSale},
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sales?from=2025-01-01&to=2025-01-02", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"a"`)
	assert.NotContains(t, rr.Body.String(), `"id":"b"`)
	assert.NotContains(t, rr.Body.String(), `"id":"c"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sales", nil))
	assert.Contains(t, rr.Body.String(), `"id":"c"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sales?from=bad&to=2025-01-02", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
