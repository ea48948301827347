package estimate

import (
	"fmt"

	"woodcost/internal/catalog"
)

// Category tags a cost line item with the catalog it was priced from.
type Category string

const (
	CategoryMaterial Category = "material"
	CategoryEdge     Category = "edge"
	CategoryCNC      Category = "cnc"
	CategoryFitting  Category = "fitting"
)

// CostLineItem is one priced (or warned) reference of one component.
type CostLineItem struct {
	Component   string   `json:"component"`
	Category    Category `json:"category"`
	Code        string   `json:"code,omitempty"`
	Description string   `json:"description,omitempty"`
	// Side is set on edge lines only: ymin, ymax, xmin or xmax.
	Side       string  `json:"side,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   float64 `json:"quantity"`
	LineCost   float64 `json:"line_cost"`
	MatchedVia string  `json:"matched_via"`
	Warning    string  `json:"warning,omitempty"`
}

// Warning names a catalog reference that could not be priced, and the
// component it came from.
type Warning struct {
	Component string   `json:"component"`
	Category  Category `json:"category"`
	Raw       string   `json:"raw"`
}

// CategoryTotals holds the per-category cost subtotals.
type CategoryTotals struct {
	Material float64 `json:"material"`
	Edge     float64 `json:"edge"`
	CNC      float64 `json:"cnc"`
	Fitting  float64 `json:"fitting"`
}

// Sum returns the grand subtotal before the pricing waterfall.
func (t CategoryTotals) Sum() float64 {
	return t.Material + t.Edge + t.CNC + t.Fitting
}

type edgeSide struct {
	name string
	ref  func(Component) string
	// sideMM returns the physical length of the banded side: ymin/ymax run
	// across the component width, xmin/xmax along its length.
	sideMM func(Component) float64
}

var edgeSides = []edgeSide{
	{"ymin", func(c Component) string { return c.EdgeYMin }, func(c Component) float64 { return c.WidthMM }},
	{"ymax", func(c Component) string { return c.EdgeYMax }, func(c Component) float64 { return c.WidthMM }},
	{"xmin", func(c Component) string { return c.EdgeXMin }, func(c Component) float64 { return c.LengthMM }},
	{"xmax", func(c Component) string { return c.EdgeXMax }, func(c Component) float64 { return c.LengthMM }},
}

// costComponents resolves every catalog reference, derives billable
// quantities and accumulates per-category totals in one linear pass.
// Unmatched references become zero-cost warned lines; they never abort the
// pipeline.
func costComponents(ix *catalog.Index, comps []Component, waste float64) ([]CostLineItem, CategoryTotals, []Warning) {
	var (
		items    []CostLineItem
		totals   CategoryTotals
		warnings []Warning
	)

	for _, c := range comps {
		count := float64(c.Count)

		// Material: billed area with waste applied. Waste never touches the
		// other categories.
		item := CostLineItem{
			Component: c.Label(),
			Category:  CategoryMaterial,
			Quantity:  c.AreaM2 * count * (1 + waste),
		}
		if m, kind := ix.Material(c.Material); m != nil {
			item.Code = m.Code
			item.Description = m.Description
			item.Unit = m.Unit
			item.UnitPrice = m.UnitPrice
			item.MatchedVia = kind.String()
		} else {
			item.MatchedVia = catalog.MatchNone.String()
			item.Warning = fmt.Sprintf("material %q not found in catalog", c.Material)
			warnings = append(warnings, Warning{Component: c.Label(), Category: CategoryMaterial, Raw: c.Material})
		}
		item.LineCost = item.UnitPrice * item.Quantity
		totals.Material += item.LineCost
		items = append(items, item)

		// Edge banding: one independent line per banded side, billed by
		// running meters.
		for _, side := range edgeSides {
			raw := side.ref(c)
			if raw == "" {
				continue
			}
			item := CostLineItem{
				Component: c.Label(),
				Category:  CategoryEdge,
				Side:      side.name,
				Quantity:  side.sideMM(c) / 1000 * count,
			}
			if e, kind := ix.EdgeBanding(raw); e != nil {
				item.Code = e.Code
				item.Description = e.Description
				item.Unit = e.Unit
				item.UnitPrice = e.UnitPrice
				item.MatchedVia = kind.String()
			} else {
				item.MatchedVia = catalog.MatchNone.String()
				item.Warning = fmt.Sprintf("edge banding %q not found in catalog", raw)
				warnings = append(warnings, Warning{Component: c.Label(), Category: CategoryEdge, Raw: raw})
			}
			item.LineCost = item.UnitPrice * item.Quantity
			totals.Edge += item.LineCost
			items = append(items, item)
		}

		// CNC operations: one unit per part per occurrence.
		for _, ref := range c.CNCOps {
			item := CostLineItem{
				Component: c.Label(),
				Category:  CategoryCNC,
				Quantity:  count,
			}
			if op, kind := ix.CNCOperation(ref); op != nil {
				item.Code = op.Code
				item.Description = op.Description
				item.Unit = op.Unit
				item.UnitPrice = op.UnitPrice
				item.MatchedVia = kind.String()
			} else {
				item.MatchedVia = catalog.MatchNone.String()
				item.Warning = fmt.Sprintf("cnc operation %q not found in catalog", ref)
				warnings = append(warnings, Warning{Component: c.Label(), Category: CategoryCNC, Raw: ref})
			}
			item.LineCost = item.UnitPrice * item.Quantity
			totals.CNC += item.LineCost
			items = append(items, item)
		}

		// Fittings: part count times the per-fitting unit multiplier.
		for _, ref := range c.Fittings {
			item := CostLineItem{
				Component: c.Label(),
				Category:  CategoryFitting,
				Quantity:  count,
			}
			if f, kind := ix.Fitting(ref); f != nil {
				qtyPer := f.QtyPerFitting
				if qtyPer == 0 {
					qtyPer = 1
				}
				item.Quantity = count * qtyPer
				item.Code = f.Code
				item.Description = f.Name
				item.Unit = f.Unit
				item.UnitPrice = f.UnitPrice
				item.MatchedVia = kind.String()
			} else {
				item.MatchedVia = catalog.MatchNone.String()
				item.Warning = fmt.Sprintf("fitting %q not found in catalog", ref)
				warnings = append(warnings, Warning{Component: c.Label(), Category: CategoryFitting, Raw: ref})
			}
			item.LineCost = item.UnitPrice * item.Quantity
			totals.Fitting += item.LineCost
			items = append(items, item)
		}
	}

	return items, totals, warnings
}
