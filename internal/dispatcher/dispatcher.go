// Package dispatcher maps operation names onto scraper capabilities.
package dispatcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/gplay-api/internal/metrics"
	"github.com/JakeFAU/gplay-api/internal/playstore"
)

// Scraper is the capability set the dispatcher fronts. *playstore.Client
// implements it.
type Scraper interface {
	App(ctx context.Context, params playstore.Params) (*playstore.App, error)
	List(ctx context.Context, params playstore.Params) ([]playstore.App, error)
	Search(ctx context.Context, params playstore.Params) ([]playstore.App, error)
	Developer(ctx context.Context, params playstore.Params) ([]playstore.App, error)
	Suggest(ctx context.Context, params playstore.Params) ([]string, error)
	Reviews(ctx context.Context, params playstore.Params) (*playstore.Reviews, error)
	Similar(ctx context.Context, params playstore.Params) ([]playstore.App, error)
	Permissions(ctx context.Context, params playstore.Params) (any, error)
	DataSafety(ctx context.Context, params playstore.Params) (*playstore.DataSafety, error)
	Categories(ctx context.Context) ([]string, error)
}

var _ Scraper = (*playstore.Client)(nil)

// Capability is one entry of the dispatch table.
type Capability func(ctx context.Context, params playstore.Params) (any, error)

// Dispatcher routes an operation name to its capability. The table is fixed
// at construction and never mutated, so a Dispatcher is safe for concurrent use.
type Dispatcher struct {
	table  map[Operation]Capability
	logger *zap.Logger
}

// New builds the dispatch table over s.
func New(s Scraper, logger *zap.Logger) *Dispatcher {
	metrics.Init()
	if logger == nil {
		logger = zap.NewNop()
	}
	table := map[Operation]Capability{
		OpApp:         adapt(s.App),
		OpList:        adapt(s.List),
		OpSearch:      adapt(s.Search),
		OpDeveloper:   adapt(s.Developer),
		OpSuggest:     adapt(s.Suggest),
		OpReviews:     adapt(s.Reviews),
		OpSimilar:     adapt(s.Similar),
		OpPermissions: adapt(s.Permissions),
		OpDataSafety:  adapt(s.DataSafety),
		OpCategories: func(ctx context.Context, _ playstore.Params) (any, error) {
			return s.Categories(ctx)
		},
	}
	return &Dispatcher{table: table, logger: logger.Named("dispatcher")}
}

func adapt[T any](fn func(context.Context, playstore.Params) (T, error)) Capability {
	return func(ctx context.Context, params playstore.Params) (any, error) {
		return fn(ctx, params)
	}
}

// Dispatch validates name and invokes exactly one capability with params.
// Unknown names fail with *UnsupportedOperationError before any capability
// runs. Capability results and errors are returned unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, params playstore.Params) (any, error) {
	op, err := ParseOperation(name)
	if err != nil {
		metrics.ObserveDispatch(name, metrics.OutcomeUnsupported, 0)
		d.logger.Info("unsupported operation", zap.String("operation", name))
		return nil, err
	}
	if params == nil {
		params = playstore.Params{}
	}

	start := time.Now()
	result, err := d.table[op](ctx, params)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveDispatch(string(op), metrics.OutcomeError, elapsed)
		d.logger.Warn("operation failed",
			zap.String("operation", string(op)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.ObserveDispatch(string(op), metrics.OutcomeOK, elapsed)
	d.logger.Debug("operation completed",
		zap.String("operation", string(op)),
		zap.Duration("duration", elapsed),
	)
	return result, nil
}
