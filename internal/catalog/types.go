// Package catalog holds the priced reference entries the estimate engine
// resolves free-text part references against: sheet materials, edge banding
// tapes, CNC operations and fittings, plus the active pricing configuration.
package catalog

// Material is a priced sheet material, sold per square meter.
// Aliases carry alternate names for the same board, typically the Persian
// names used in spreadsheet exports, so a translated or transliterated
// material reference still resolves to the canonical code.
type Material struct {
	Code        string   `json:"code" db:"code"`
	Description string   `json:"description" db:"description"`
	Unit        string   `json:"unit" db:"unit"`
	UnitPrice   float64  `json:"unit_price" db:"unit_price"`
	Category    string   `json:"category" db:"category"`
	Aliases     []string `json:"aliases" db:"-"`
	Active      bool     `json:"is_active" db:"is_active"`
}

// EdgeBanding is a priced banding tape, sold per running meter.
type EdgeBanding struct {
	Code        string  `json:"code" db:"code"`
	Description string  `json:"description" db:"description"`
	Unit        string  `json:"unit" db:"unit"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Active      bool    `json:"is_active" db:"is_active"`
}

// CNCOperation is a priced machining operation, billed per occurrence.
type CNCOperation struct {
	Code        string  `json:"code" db:"code"`
	Description string  `json:"description" db:"description"`
	Unit        string  `json:"unit" db:"unit"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Active      bool    `json:"is_active" db:"is_active"`
}

// Fitting is a priced hardware item. QtyPerFitting is the number of physical
// units one fitting reference consumes (a hinge set is 2 hinges per door).
type Fitting struct {
	Code          string  `json:"code" db:"code"`
	Name          string  `json:"name" db:"name"`
	Unit          string  `json:"unit" db:"unit"`
	UnitPrice     float64 `json:"unit_price" db:"unit_price"`
	QtyPerFitting float64 `json:"qty_per_fitting" db:"qty_per_fitting"`
	Active        bool    `json:"is_active" db:"is_active"`
}

// PricingConfig is the layered cost-plus markup configuration. All six values
// are fractions in [0,1]; exactly one named configuration is active at a time.
type PricingConfig struct {
	Name         string  `json:"name" db:"name"`
	Overhead1    float64 `json:"overhead1" db:"overhead1"`
	Overhead2    float64 `json:"overhead2" db:"overhead2"`
	Overhead3    float64 `json:"overhead3" db:"overhead3"`
	Overhead4    float64 `json:"overhead4" db:"overhead4"`
	Contingency  float64 `json:"contingency" db:"contingency"`
	ProfitMargin float64 `json:"profit_margin" db:"profit_margin"`
	Active       bool    `json:"is_active" db:"is_active"`
}

// Rates returns the six tier fractions in waterfall application order.
func (c PricingConfig) Rates() []float64 {
	return []float64{c.Overhead1, c.Overhead2, c.Overhead3, c.Overhead4, c.Contingency, c.ProfitMargin}
}

// Valid reports whether every tier fraction is inside [0,1]. Validation
// happens at the catalog boundary; the engine assumes valid fractions.
func (c PricingConfig) Valid() bool {
	for _, r := range c.Rates() {
		if r < 0 || r > 1 {
			return false
		}
	}
	return true
}
