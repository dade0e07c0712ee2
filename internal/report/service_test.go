package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

type fakeSource struct {
	mu    sync.Mutex
	data  Dataset
	calls map[string]int
	err   error
}

func newFakeSource(data Dataset) *fakeSource {
	return &fakeSource{data: data, calls: map[string]int{}}
}

func (f *fakeSource) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeSource) Categories(ctx context.Context) ([]Category, error) {
	f.count("categories")
	return f.data.Categories, f.err
}

func (f *fakeSource) Products(ctx context.Context) ([]Product, error) {
	f.count("products")
	return f.data.Products, f.err
}

func (f *fakeSource) Sales(ctx context.Context, period shared.DateRange) ([]Record, error) {
	f.count("sales")
	return f.data.Sales, f.err
}

func (f *fakeSource) Expenses(ctx context.Context, period shared.DateRange) ([]Record, error) {
	f.count("expenses")
	return f.data.Expenses, f.err
}

type observer struct {
	mu   sync.Mutex
	hits map[bool]int
}

func (o *observer) CacheResult(report string, hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.hits == nil {
		o.hits = map[bool]int{}
	}
	o.hits[hit]++
}

func newTestService(t *testing.T, src Source, obs CacheObserver) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(src, NewCache(client, time.Minute), Options{Observer: obs}), mr
}

func TestCategoryRollupIsCachedUntilBump(t *testing.T) {
	src := newFakeSource(colaDataset())
	obs := &observer{}
	svc, _ := newTestService(t, src, obs)
	ctx := context.Background()

	first, err := svc.CategoryRollup(ctx)
	require.NoError(t, err)
	second, err := svc.CategoryRollup(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, first[0].Profit.Equal(second[0].Profit))
	assert.Equal(t, 1, src.calls["sales"])
	assert.Equal(t, 1, obs.hits[true])
	assert.Equal(t, 1, obs.hits[false])

	src.data.Sales = append(src.data.Sales, Record{ProductID: "cola", TotalPrice: dec("2")})
	require.NoError(t, svc.Bump(ctx))

	third, err := svc.CategoryRollup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls["sales"])
	assert.True(t, third[0].Sales.Equal(dec("8")))
}

func TestServiceWorksWithoutCache(t *testing.T) {
	src := newFakeSource(colaDataset())
	svc := NewService(src, nil, Options{})

	rows, err := svc.ProductDetail(context.Background(), "drinks")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, svc.Bump(context.Background()))
}

func TestServiceFallsBackWhenRedisIsDown(t *testing.T) {
	src := newFakeSource(colaDataset())
	svc, mr := newTestService(t, src, nil)
	mr.Close()

	rows, err := svc.CategoryRollup(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestProductDetailRequiresCategory(t *testing.T) {
	svc := NewService(newFakeSource(colaDataset()), nil, Options{})
	_, err := svc.ProductDetail(context.Background(), " ")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestTimeSeriesWithoutRangeIsEmpty(t *testing.T) {
	src := newFakeSource(colaDataset())
	svc := NewService(src, nil, Options{})

	rows, err := svc.TimeSeries(context.Background(), shared.DateRange{})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Zero(t, src.calls["sales"])
}

func TestTimeSeriesFiltersToPeriod(t *testing.T) {
	data := colaDataset()
	data.Sales = append(data.Sales, Record{ProductID: "cola", TotalPrice: dec("2"), Date: at(2025, 2, 1, 0)})
	svc, _ := newTestService(t, newFakeSource(data), nil)

	period, ok, err := shared.ParseDateRange("2025-01-01", "2025-01-31", time.UTC)
	require.NoError(t, err)
	require.True(t, ok)

	rows, err := svc.TimeSeries(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-01-01", rows[0].Date)
	assert.True(t, rows[0].Profit.Equal(dec("4.5")))
}

func TestSummaryForViews(t *testing.T) {
	svc := NewService(newFakeSource(colaDataset()), nil, Options{})
	ctx := context.Background()

	all, err := svc.SummaryFor(ctx, "categories")
	require.NoError(t, err)
	assert.True(t, all.TotalProfit.Equal(dec("4.5")))

	one, err := svc.SummaryFor(ctx, "drinks")
	require.NoError(t, err)
	assert.True(t, all.TotalSales.Equal(one.TotalSales))
	assert.True(t, all.TotalExpenses.Equal(one.TotalExpenses))

	none, err := svc.SummaryFor(ctx, "unknown")
	require.NoError(t, err)
	assert.True(t, none.TotalSales.IsZero())
}

func TestServicePropagatesStoreFailure(t *testing.T) {
	src := newFakeSource(colaDataset())
	src.err = errors.New("connection refused")
	svc, _ := newTestService(t, src, nil)

	_, err := svc.CategoryRollup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCategoryName(t *testing.T) {
	svc := NewService(newFakeSource(colaDataset()), nil, Options{})
	ctx := context.Background()

	name, err := svc.CategoryName(ctx, "drinks")
	require.NoError(t, err)
	assert.Equal(t, "Drinks", name)

	name, err = svc.CategoryName(ctx, UncategorizedID)
	require.NoError(t, err)
	assert.Equal(t, UncategorizedName, name)
}

func TestCacheSubscribeReceivesBumps(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan int64, 1)
	require.NoError(t, cache.Subscribe(ctx, func(v int64) { got <- v }))

	_, err := cache.Version(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))

	select {
	case v := <-got:
		assert.Equal(t, int64(2), v)
	case <-time.After(2 * time.Second):
		t.Fatal("bump not delivered")
	}
}

type blockingSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSource) Sales(ctx context.Context, period shared.DateRange) ([]Record, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
		return b.fakeSource.Sales(ctx, period)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestSharedBuildSurvivesCancelledCaller(t *testing.T) {
	src := &blockingSource{
		fakeSource: newFakeSource(colaDataset()),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc, _ := newTestService(t, src, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.CategoryRollup(firstCtx)
		firstErr <- err
	}()
	<-src.started

	secondCtx, cancelSecond := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelSecond()
	type result struct {
		rows []CategoryRow
		err  error
	}
	second := make(chan result, 1)
	go func() {
		rows, err := svc.CategoryRollup(secondCtx)
		second <- result{rows, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(src.release)
	got := <-second
	require.NoError(t, got.err)
	require.Len(t, got.rows, 1)
	assert.True(t, got.rows[0].Profit.Equal(dec("4.5")))
}

func TestSharedBuildIsBoundedByBuildTimeout(t *testing.T) {
	src := &blockingSource{
		fakeSource: newFakeSource(colaDataset()),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc := NewService(src, nil, Options{BuildTimeout: 20 * time.Millisecond})

	_, err := svc.CategoryRollup(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
