package estimate

import "woodcost/internal/catalog"

// WaterfallStep records one applied markup tier.
type WaterfallStep struct {
	Name string `json:"name"`
	// Rate is the tier fraction as configured.
	Rate float64 `json:"rate"`
	// Amount is the markup added by this tier on the running total so far.
	Amount float64 `json:"amount"`
	// Running is the total after this tier.
	Running float64 `json:"running_total"`
}

// Waterfall is the tier-by-tier trace from subtotal to final sell price.
type Waterfall struct {
	Subtotal   float64         `json:"subtotal"`
	Steps      []WaterfallStep `json:"steps"`
	FinalPrice float64         `json:"final_price"`
}

var tierNames = []string{"overhead1", "overhead2", "overhead3", "overhead4", "contingency", "profit_margin"}

// applyWaterfall layers the six configured tiers onto the subtotal as
// compounding cost-plus markups: each tier applies to the total accumulated
// after the previous tiers. With all tiers at zero the transform is a strict
// identity, finalPrice == subtotal.
func applyWaterfall(subtotal float64, cfg catalog.PricingConfig) Waterfall {
	w := Waterfall{
		Subtotal: subtotal,
		Steps:    make([]WaterfallStep, 0, len(tierNames)),
	}

	running := subtotal
	for i, rate := range cfg.Rates() {
		amount := running * rate
		running += amount
		w.Steps = append(w.Steps, WaterfallStep{
			Name:    tierNames[i],
			Rate:    rate,
			Amount:  amount,
			Running: running,
		})
	}

	w.FinalPrice = running
	return w
}
