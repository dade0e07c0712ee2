package products

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestImageListAcceptsStringOrArray(t *testing.T) {
	var form ProductForm
	require.NoError(t, json.Unmarshal([]byte(`{"images":"/uploads/a.png"}`), &form))
	assert.Equal(t, ImageList{"/uploads/a.png"}, form.Images)

	form = ProductForm{}
	require.NoError(t, json.Unmarshal([]byte(`{"images":["/uploads/a.png","/uploads/b.png"]}`), &form))
	assert.Equal(t, ImageList{"/uploads/a.png", "/uploads/b.png"}, form.Images)

	form = ProductForm{}
	require.NoError(t, json.Unmarshal([]byte(`{"images":null}`), &form))
	assert.Empty(t, form.Images)

	require.Error(t, json.Unmarshal([]byte(`{"images":42}`), &form))
}

func TestServiceCreateResolvesCategory(t *testing.T) {
	repo := newMemRepo()
	notifier := &countingNotifier{}
	svc := NewService(repo, staticCategories{"c1": "Drinks"}, nil, notifier, nil)

	created, err := svc.Create(context.Background(), ProductForm{
		Name: "Cola", Price: price("2"), Images: ImageList{" /uploads/cola.png ", ""}, CategoryID: "c1",
	})
	require.NoError(t, err)
	require.NotNil(t, created.Category)
	assert.Equal(t, "Drinks", created.Category.Name)
	assert.Equal(t, []string{"/uploads/cola.png"}, created.Images)
	assert.Equal(t, 1, notifier.bumps)
}

func TestServiceCreateRejectsUnknownCategory(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, staticCategories{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), ProductForm{Name: "Cola", Price: price("2"), CategoryID: "missing"})
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, repo.items)
}

func TestServiceCreateValidation(t *testing.T) {
	svc := NewService(newMemRepo(), staticCategories{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), ProductForm{Name: "Cola"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), ProductForm{Name: "Cola", Price: price("-1")})
	require.ErrorIs(t, err, shared.ErrValidation)

	created, err := svc.Create(context.Background(), ProductForm{Name: "Water", Price: price("0")})
	require.NoError(t, err)
	assert.Nil(t, created.Category)
}

func TestServiceUpdateRemovesDroppedImages(t *testing.T) {
	repo := newMemRepo()
	remover := &recordingRemover{}
	svc := NewService(repo, staticCategories{}, remover, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductForm{Name: "Cola", Price: price("2"), Images: ImageList{"/uploads/a.png", "/uploads/b.png"}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, ProductForm{ID: created.ID, Name: "Cola", Price: price("2.5"), Images: ImageList{"/uploads/b.png", "/uploads/c.png"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png"}, remover.removed)
}

func TestServiceUpdateRequiresID(t *testing.T) {
	svc := NewService(newMemRepo(), staticCategories{}, nil, nil, nil)
	_, err := svc.Update(context.Background(), ProductForm{Name: "Cola", Price: price("1")})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Update(context.Background(), ProductForm{ID: "nope", Name: "Cola", Price: price("1")})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceDeleteIgnoresImageFailures(t *testing.T) {
	repo := newMemRepo()
	remover := &recordingRemover{fail: true}
	notifier := &countingNotifier{}
	svc := NewService(repo, staticCategories{}, remover, notifier, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductForm{Name: "Cola", Price: price("2"), Images: ImageList{"/uploads/a.png"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, []string{"/uploads/a.png"}, remover.removed)
	assert.Empty(t, repo.items)
	assert.Equal(t, 2, notifier.bumps)

	require.ErrorIs(t, svc.Delete(ctx, created.ID), shared.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, ""), shared.ErrValidation)
}

func TestDroppedImages(t *testing.T) {
	assert.Nil(t, droppedImages(nil, []string{"a"}))
	assert.Equal(t, []string{"a", "c"}, droppedImages([]string{"a", "b", "c"}, []string{"b"}))
}
