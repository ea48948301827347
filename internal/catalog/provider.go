package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Snapshot pairs a fully built index with the pricing configuration that was
// active when it was built.
type Snapshot struct {
	Index   *Index
	Pricing PricingConfig
}

// Provider caches a Snapshot and rebuilds it on demand. Rebuilds construct a
// complete new snapshot before swapping the pointer, so concurrent readers
// always see either the old or the new index, never a partial one.
type Provider struct {
	store  Store
	logger *zap.Logger

	current atomic.Pointer[Snapshot]
	rebuild sync.Mutex
}

func NewProvider(store Store, logger *zap.Logger) *Provider {
	return &Provider{
		store:  store,
		logger: logger,
	}
}

// Snapshot returns the cached snapshot, building one if none is cached.
func (p *Provider) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := p.current.Load(); snap != nil {
		return snap, nil
	}
	return p.Rebuild(ctx)
}

// Invalidate drops the cached snapshot. The next calculation request
// rebuilds from the store.
func (p *Provider) Invalidate() {
	p.current.Store(nil)
}

// Rebuild loads the four catalogs and the active pricing configuration and
// atomically swaps in a freshly built snapshot.
func (p *Provider) Rebuild(ctx context.Context) (*Snapshot, error) {
	p.rebuild.Lock()
	defer p.rebuild.Unlock()

	// Another request may have rebuilt while this one waited on the lock.
	if snap := p.current.Load(); snap != nil {
		return snap, nil
	}

	materials, err := p.store.ListActiveMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	edges, err := p.store.ListActiveEdgeBanding(ctx)
	if err != nil {
		return nil, fmt.Errorf("list edge banding: %w", err)
	}
	cncOps, err := p.store.ListActiveCNCOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cnc operations: %w", err)
	}
	fittings, err := p.store.ListActiveFittings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fittings: %w", err)
	}
	pricing, err := p.store.GetActivePricingConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing configuration: %w", err)
	}
	if !pricing.Valid() {
		return nil, fmt.Errorf("pricing configuration %q has tier fractions outside [0,1]", pricing.Name)
	}

	index := NewIndex(materials, edges, cncOps, fittings)
	for _, w := range index.Warnings() {
		p.logger.Warn("catalog index warning", zap.String("detail", w))
	}

	snap := &Snapshot{Index: index, Pricing: *pricing}
	p.current.Store(snap)

	p.logger.Info("catalog index rebuilt",
		zap.Int("materials", len(materials)),
		zap.Int("edge_banding", len(edges)),
		zap.Int("cnc_operations", len(cncOps)),
		zap.Int("fittings", len(fittings)),
		zap.String("pricing_config", pricing.Name))

	return snap, nil
}
