// Package estimate implements the cost calculation pipeline: input
// normalization, catalog resolution, quantity derivation, cost aggregation
// and the pricing waterfall.
package estimate

import "fmt"

// Component is one physical part to be costed, in canonical form: millimeter
// dimensions, square-meter area, free-text catalog references.
type Component struct {
	Number      string  `json:"number"`
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	LengthMM    float64 `json:"cutting_length"`
	WidthMM     float64 `json:"cutting_width"`
	ThicknessMM float64 `json:"cutting_thickness,omitempty"`
	Material    string  `json:"material_name"`
	// EntityNames is kept for display only and never used in matching.
	EntityNames string  `json:"entity_names,omitempty"`
	EdgeYMin    string  `json:"edge_ymin,omitempty"`
	EdgeYMax    string  `json:"edge_ymax,omitempty"`
	EdgeXMin    string  `json:"edge_xmin,omitempty"`
	EdgeXMax    string  `json:"edge_xmax,omitempty"`
	AreaM2      float64 `json:"final_area"`
	// Operation and fitting codes referenced alongside the part. Only the
	// structured and direct input shapes carry these; spreadsheet rows never do.
	CNCOps   []string `json:"cnc_operations,omitempty"`
	Fittings []string `json:"fittings,omitempty"`
}

// Label identifies the component in warnings and line items.
func (c Component) Label() string {
	if c.Number != "" {
		return c.Number
	}
	return c.Name
}

// DirectPart is the payload produced by the CAD plugin, which already knows
// exact geometry in millimeters, the material name and the edge banding
// applied per side.
type DirectPart struct {
	Number      string   `json:"number"`
	Name        string   `json:"name"`
	Count       int      `json:"count"`
	CuttingLen  float64  `json:"cutting_length"`
	CuttingWid  float64  `json:"cutting_width"`
	CuttingThk  float64  `json:"cutting_thickness"`
	Material    string   `json:"material_name"`
	EntityNames string   `json:"entity_names"`
	EdgeYMin    string   `json:"edge_ymin"`
	EdgeYMax    string   `json:"edge_ymax"`
	EdgeXMin    string   `json:"edge_xmin"`
	EdgeXMax    string   `json:"edge_xmax"`
	FinalArea   float64  `json:"final_area"`
	CNCOps      []string `json:"cnc_operations,omitempty"`
	Fittings    []string `json:"fittings,omitempty"`
}

// TabularRow is one pre-parsed spreadsheet row: raw header -> raw cell text.
// Column naming and units vary between export presets; the normalizer sorts
// that out.
type TabularRow map[string]string

// ProjectMetadata describes the project an estimate belongs to.
type ProjectMetadata struct {
	ProjectName  string            `json:"project_name"`
	ClientName   string            `json:"client_name"`
	ContractDate string            `json:"contract_date"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
	// WastePercentage is a fraction (0.15 = 15%) applied to material
	// quantities only.
	WastePercentage float64 `json:"waste_percentage"`
}

// RowError reports a single rejected input record. Rejections never abort
// the batch; valid records proceed.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}
