package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// Source reads the reference data and ledgers a report is built from.
type Source interface {
	Categories(ctx context.Context) ([]Category, error)
	Products(ctx context.Context) ([]Product, error)
	Sales(ctx context.Context, period shared.DateRange) ([]Record, error)
	Expenses(ctx context.Context, period shared.DateRange) ([]Record, error)
}

// CacheObserver is notified of cache hits and misses.
type CacheObserver interface {
	CacheResult(report string, hit bool)
}

// DefaultBuildTimeout bounds a shared report build once it no longer follows any caller.
const DefaultBuildTimeout = 30 * time.Second

// Options tunes a Service.
type Options struct {
	Location     *time.Location
	Logger       *slog.Logger
	Observer     CacheObserver
	BuildTimeout time.Duration
}

// Service loads datasets concurrently and serves reports through the versioned cache.
type Service struct {
	source       Source
	cache        *Cache
	loc          *time.Location
	logger       *slog.Logger
	observer     CacheObserver
	buildTimeout time.Duration
	flight       singleflight.Group
}

// NewService wires a Source with an optional Cache.
func NewService(source Source, cache *Cache, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BuildTimeout <= 0 {
		opts.BuildTimeout = DefaultBuildTimeout
	}
	return &Service{
		source:       source,
		cache:        cache,
		loc:          opts.Location,
		logger:       opts.Logger,
		observer:     opts.Observer,
		buildTimeout: opts.BuildTimeout,
	}
}

// Location is the zone used for day buckets and date parameters.
func (s *Service) Location() *time.Location { return s.loc }

// Bump invalidates cached reports. It satisfies shared.ChangeNotifier.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

type loadSpec struct {
	categories bool
	products   bool
	sales      bool
	expenses   bool
	period     shared.DateRange
}

func (s *Service) load(ctx context.Context, spec loadSpec) (Dataset, error) {
	var data Dataset
	g, ctx := errgroup.WithContext(ctx)
	if spec.categories {
		g.Go(func() error {
			var err error
			data.Categories, err = s.source.Categories(ctx)
			return wrapLoad("categories", err)
		})
	}
	if spec.products {
		g.Go(func() error {
			var err error
			data.Products, err = s.source.Products(ctx)
			return wrapLoad("products", err)
		})
	}
	if spec.sales {
		g.Go(func() error {
			var err error
			data.Sales, err = s.source.Sales(ctx, spec.period)
			return wrapLoad("sales", err)
		})
	}
	if spec.expenses {
		g.Go(func() error {
			var err error
			data.Expenses, err = s.source.Expenses(ctx, spec.period)
			return wrapLoad("expenses", err)
		})
	}
	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}
	return data, nil
}

func wrapLoad(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("report: load %s: %w", what, err)
}

// CategoryRollup reports every category over all sales and expenses.
func (s *Service) CategoryRollup(ctx context.Context) ([]CategoryRow, error) {
	return cached(ctx, s, "category-rollup", nil, func(ctx context.Context) ([]CategoryRow, error) {
		data, err := s.load(ctx, loadSpec{categories: true, products: true, sales: true, expenses: true})
		if err != nil {
			return nil, err
		}
		return CategoryRollup(data), nil
	})
}

// ProductDetail reports the products of one category. Unknown ids yield no rows.
func (s *Service) ProductDetail(ctx context.Context, categoryID string) ([]ProductRow, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, shared.NewValidationError("category", "is required")
	}
	return cached(ctx, s, "product-detail", []string{categoryID}, func(ctx context.Context) ([]ProductRow, error) {
		data, err := s.load(ctx, loadSpec{products: true, sales: true, expenses: true})
		if err != nil {
			return nil, err
		}
		return ProductDetail(categoryID, data), nil
	})
}

// TimeSeries reports daily totals inside period. An unset period yields no rows.
func (s *Service) TimeSeries(ctx context.Context, period shared.DateRange) ([]DayRow, error) {
	if period.IsZero() {
		return []DayRow{}, nil
	}
	return cached(ctx, s, "timeseries", periodKey(period, s.loc), func(ctx context.Context) ([]DayRow, error) {
		data, err := s.load(ctx, loadSpec{sales: true, expenses: true, period: period})
		if err != nil {
			return nil, err
		}
		return TimeSeries(inPeriod(data.Sales, period), inPeriod(data.Expenses, period), s.loc), nil
	})
}

// SalesLines reports individual sales with their margin inside period.
func (s *Service) SalesLines(ctx context.Context, period shared.DateRange) ([]LineRow, error) {
	if period.IsZero() {
		return []LineRow{}, nil
	}
	return cached(ctx, s, "sales-lines", periodKey(period, s.loc), func(ctx context.Context) ([]LineRow, error) {
		data, err := s.load(ctx, loadSpec{products: true, sales: true, period: period})
		if err != nil {
			return nil, err
		}
		return SalesLines(data.Products, inPeriod(data.Sales, period), s.loc), nil
	})
}

// SummaryFor totals the category rollup ("categories" or empty) or one category's detail.
func (s *Service) SummaryFor(ctx context.Context, view string) (Summary, error) {
	view = strings.TrimSpace(view)
	if view == "" || view == "categories" || view == "all" {
		rows, err := s.CategoryRollup(ctx)
		if err != nil {
			return Summary{}, err
		}
		return Summarize(rows), nil
	}
	rows, err := s.ProductDetail(ctx, view)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(rows), nil
}

// CategoryName resolves a category id for titles. Unknown ids resolve to themselves.
func (s *Service) CategoryName(ctx context.Context, id string) (string, error) {
	if id == UncategorizedID {
		return UncategorizedName, nil
	}
	categories, err := s.source.Categories(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.ID == id {
			return c.Name, nil
		}
	}
	return id, nil
}

// Warmup builds the category rollup so the first dashboard load hits the cache.
func (s *Service) Warmup(ctx context.Context) error {
	_, err := s.CategoryRollup(ctx)
	return err
}

// cached serves name from the cache, coalescing concurrent builds of the same key. The shared
// build ignores the starting caller's cancellation and is bounded by buildTimeout. Each caller
// stops waiting when its own ctx ends.
func cached[T any](ctx context.Context, s *Service, name string, parts []string, build func(context.Context) (T, error)) (T, error) {
	var zero T
	key, err := s.cache.BuildKey(ctx, append([]string{"report", name}, parts...)...)
	if err != nil {
		s.logger.Warn("report cache unavailable", slog.String("report", name), slog.Any("error", err))
		return build(ctx)
	}
	ch := s.flight.DoChan(key, func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.buildTimeout)
		defer cancel()
		var out T
		hit, err := s.cache.FetchJSON(buildCtx, key, &out, func(ctx context.Context) (any, error) {
			return build(ctx)
		})
		if err != nil {
			return nil, err
		}
		if s.observer != nil {
			s.observer.CacheResult(name, hit)
		}
		return out, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func periodKey(period shared.DateRange, loc *time.Location) []string {
	return []string{period.From.Format(shared.DateLayout), period.To.Format(shared.DateLayout), loc.String()}
}

func inPeriod(records []Record, period shared.DateRange) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Date != nil && period.Contains(*r.Date) {
			out = append(out, r)
		}
	}
	return out
}
