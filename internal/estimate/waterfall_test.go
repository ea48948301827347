package estimate

import (
	"testing"

	"woodcost/internal/catalog"
)

func TestWaterfallIdentityWithZeroTiers(t *testing.T) {
	w := applyWaterfall(1234.56, catalog.PricingConfig{})

	// Strict identity, not approximate: every tier multiplies by exactly 1.
	if w.FinalPrice != 1234.56 {
		t.Fatalf("FinalPrice = %v, want exactly 1234.56", w.FinalPrice)
	}
	for _, step := range w.Steps {
		if step.Amount != 0 || step.Running != 1234.56 {
			t.Errorf("step %s: amount %v running %v", step.Name, step.Amount, step.Running)
		}
	}
}

func TestWaterfallCompoundingOrder(t *testing.T) {
	cfg := catalog.PricingConfig{
		Overhead1:    0.25,
		Overhead2:    0.04,
		Overhead3:    0.02,
		Overhead4:    0.02,
		Contingency:  0.025,
		ProfitMargin: 0.22,
	}

	w := applyWaterfall(1000, cfg)

	closedForm := 1000 * 1.25 * 1.04 * 1.02 * 1.02 * 1.025 * 1.22
	nearlyEqual(t, "FinalPrice", w.FinalPrice, closedForm)

	if len(w.Steps) != 6 {
		t.Fatalf("got %d steps, want 6", len(w.Steps))
	}
	wantOrder := []string{"overhead1", "overhead2", "overhead3", "overhead4", "contingency", "profit_margin"}
	running := 1000.0
	for i, step := range w.Steps {
		if step.Name != wantOrder[i] {
			t.Errorf("step %d is %s, want %s", i, step.Name, wantOrder[i])
		}
		running *= 1 + step.Rate
		nearlyEqual(t, "running after "+step.Name, step.Running, running)
	}
	nearlyEqual(t, "last step running equals final", w.Steps[5].Running, w.FinalPrice)
}

func TestWaterfallMonotonicInEachTier(t *testing.T) {
	base := catalog.PricingConfig{
		Overhead1:    0.1,
		Overhead2:    0.1,
		Overhead3:    0.1,
		Overhead4:    0.1,
		Contingency:  0.1,
		ProfitMargin: 0.1,
	}
	baseline := applyWaterfall(1000, base).FinalPrice

	bumps := []func(*catalog.PricingConfig){
		func(c *catalog.PricingConfig) { c.Overhead1 += 0.05 },
		func(c *catalog.PricingConfig) { c.Overhead2 += 0.05 },
		func(c *catalog.PricingConfig) { c.Overhead3 += 0.05 },
		func(c *catalog.PricingConfig) { c.Overhead4 += 0.05 },
		func(c *catalog.PricingConfig) { c.Contingency += 0.05 },
		func(c *catalog.PricingConfig) { c.ProfitMargin += 0.05 },
	}
	for i, bump := range bumps {
		cfg := base
		bump(&cfg)
		if got := applyWaterfall(1000, cfg).FinalPrice; got <= baseline {
			t.Errorf("raising tier %d decreased the final price: %v <= %v", i, got, baseline)
		}
	}
}
