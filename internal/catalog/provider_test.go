package catalog

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeStore struct {
	materials []Material
	pricing   *PricingConfig
	listCalls int
	err       error
}

func (f *fakeStore) ListActiveMaterials(ctx context.Context) ([]Material, error) {
	f.listCalls++
	return f.materials, f.err
}

func (f *fakeStore) ListActiveEdgeBanding(ctx context.Context) ([]EdgeBanding, error) {
	return nil, f.err
}

func (f *fakeStore) ListActiveCNCOperations(ctx context.Context) ([]CNCOperation, error) {
	return nil, f.err
}

func (f *fakeStore) ListActiveFittings(ctx context.Context) ([]Fitting, error) {
	return nil, f.err
}

func (f *fakeStore) GetActivePricingConfig(ctx context.Context) (*PricingConfig, error) {
	if f.pricing == nil {
		return nil, ErrNoActiveConfig
	}
	return f.pricing, nil
}

func validPricing() *PricingConfig {
	return &PricingConfig{Name: "default", Overhead1: 0.25, Overhead2: 0.04, Overhead3: 0.02, Overhead4: 0.02, Contingency: 0.025, ProfitMargin: 0.22, Active: true}
}

func TestProviderCachesSnapshot(t *testing.T) {
	store := &fakeStore{
		materials: []Material{{Code: "MAT001", Description: "MDF 16mm", Active: true}},
		pricing:   validPricing(),
	}
	p := NewProvider(store, zap.NewNop())

	snap1, err := p.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	snap2, err := p.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if snap1 != snap2 {
		t.Error("second Snapshot call should return the cached snapshot")
	}
	if store.listCalls != 1 {
		t.Errorf("store queried %d times, want 1", store.listCalls)
	}

	p.Invalidate()
	if _, err := p.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot after Invalidate: %v", err)
	}
	if store.listCalls != 2 {
		t.Errorf("store queried %d times after invalidation, want 2", store.listCalls)
	}
}

func TestProviderMissingPricingConfig(t *testing.T) {
	store := &fakeStore{}
	p := NewProvider(store, zap.NewNop())

	_, err := p.Snapshot(context.Background())
	if !errors.Is(err, ErrNoActiveConfig) {
		t.Fatalf("Snapshot error = %v, want ErrNoActiveConfig", err)
	}
}

func TestProviderRejectsOutOfRangeFractions(t *testing.T) {
	pricing := validPricing()
	pricing.ProfitMargin = 1.5
	store := &fakeStore{pricing: pricing}
	p := NewProvider(store, zap.NewNop())

	if _, err := p.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error for tier fraction outside [0,1]")
	}
}
