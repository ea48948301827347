package catalog

import (
	"context"
	"errors"
)

// ErrNoActiveConfig is returned when no active pricing configuration exists.
// Without one no waterfall can be computed, so calculation requests fail.
var ErrNoActiveConfig = errors.New("no active pricing configuration")

// Store is the minimal contract the engine needs from the catalog backend:
// active entries per catalog type and the single active pricing config.
// Catalog CRUD and validation belong to the admin surface, not here.
type Store interface {
	ListActiveMaterials(ctx context.Context) ([]Material, error)
	ListActiveEdgeBanding(ctx context.Context) ([]EdgeBanding, error)
	ListActiveCNCOperations(ctx context.Context) ([]CNCOperation, error)
	ListActiveFittings(ctx context.Context) ([]Fitting, error)
	GetActivePricingConfig(ctx context.Context) (*PricingConfig, error)
}
