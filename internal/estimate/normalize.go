package estimate

import (
	"strconv"
	"strings"

	"woodcost/internal/catalog"
)

// The normalizer converts each accepted input shape into the canonical
// Component sequence. Whatever the shape, every component leaving this stage
// has non-negative millimeter dimensions, a square-meter area and count >= 1.

// NormalizeComponents validates an already structured component list. Rows
// failing validation are dropped and reported; valid rows proceed.
func NormalizeComponents(comps []Component) ([]Component, []RowError) {
	out := make([]Component, 0, len(comps))
	var errs []RowError

	for i, c := range comps {
		rowErrs := validateComponent(i+1, &c)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		out = append(out, c)
	}

	return out, errs
}

// NormalizeDirect maps CAD plugin parts field-for-field. Geometry arrives
// already converted to millimeters and square meters.
func NormalizeDirect(parts []DirectPart) ([]Component, []RowError) {
	comps := make([]Component, 0, len(parts))
	for _, p := range parts {
		comps = append(comps, Component{
			Number:      p.Number,
			Name:        p.Name,
			Count:       p.Count,
			LengthMM:    p.CuttingLen,
			WidthMM:     p.CuttingWid,
			ThicknessMM: p.CuttingThk,
			Material:    p.Material,
			EntityNames: p.EntityNames,
			EdgeYMin:    strings.TrimSpace(p.EdgeYMin),
			EdgeYMax:    strings.TrimSpace(p.EdgeYMax),
			EdgeXMin:    strings.TrimSpace(p.EdgeXMin),
			EdgeXMax:    strings.TrimSpace(p.EdgeXMax),
			AreaM2:      p.FinalArea,
			CNCOps:      p.CNCOps,
			Fittings:    p.Fittings,
		})
	}
	return NormalizeComponents(comps)
}

// Spreadsheet column names per export preset. The optimized preset carries
// millimeter dimensions under "Cutting length"/"Cutting width"; the legacy
// preset carries centimeters under "Length - raw"/"Width - raw" and an
// "Area - final" text cell with an embedded unit suffix.
var tabularColumns = map[string][]string{
	"number":   {"Number", "Designation"},
	"name":     {"Name", "Description"},
	"count":    {"Count", "Quantity", "Qty"},
	"length":   {"Cutting length"},
	"width":    {"Cutting width"},
	"thick":    {"Cutting thickness"},
	"lengthCm": {"Length - raw", "Length"},
	"widthCm":  {"Width - raw", "Width"},
	"material": {"Material name", "Material"},
	"entities": {"Entity names", "Instance names"},
	"edgeYMin": {"Edge ymin", "Edge Length 1"},
	"edgeYMax": {"Edge ymax", "Edge Length 2"},
	"edgeXMin": {"Edge xmin", "Edge Width 1"},
	"edgeXMax": {"Edge xmax", "Edge Width 2"},
	"area":     {"Final area", "Area - final", "Area"},
}

// NormalizeTabular converts loosely named spreadsheet rows into components.
// Centimeter inputs are scaled to millimeters, unit suffixes are stripped
// from numeric cells, and a missing area is derived from length x width.
func NormalizeTabular(rows []TabularRow) ([]Component, []RowError) {
	comps := make([]Component, 0, len(rows))
	var errs []RowError

	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}

		c := Component{
			Number:      cell(row, "number"),
			Name:        cell(row, "name"),
			Count:       int(parseNumber(cell(row, "count"))),
			Material:    cell(row, "material"),
			EntityNames: cell(row, "entities"),
			EdgeYMin:    cell(row, "edgeYMin"),
			EdgeYMax:    cell(row, "edgeYMax"),
			EdgeXMin:    cell(row, "edgeXMin"),
			EdgeXMax:    cell(row, "edgeXMax"),
			ThicknessMM: parseNumber(cell(row, "thick")),
			AreaM2:      parseNumber(cell(row, "area")),
		}
		if c.Name == "" {
			c.Name = c.Number
		}

		// Millimeter columns win when present; otherwise fall back to the
		// legacy centimeter columns.
		if v := cell(row, "length"); v != "" {
			c.LengthMM = parseNumber(v)
			c.WidthMM = parseNumber(cell(row, "width"))
		} else {
			c.LengthMM = parseNumber(cell(row, "lengthCm")) * 10
			c.WidthMM = parseNumber(cell(row, "widthCm")) * 10
		}

		rowErrs := validateComponent(i+1, &c)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		comps = append(comps, c)
	}

	return comps, errs
}

// validateComponent enforces the component invariants and derives the area
// when it was not supplied. Mutates c in place.
func validateComponent(row int, c *Component) []RowError {
	var errs []RowError

	if c.Count < 1 {
		errs = append(errs, RowError{Row: row, Field: "count", Reason: "quantity must be at least 1"})
	}
	if strings.TrimSpace(c.Material) == "" {
		errs = append(errs, RowError{Row: row, Field: "material_name", Reason: "material name is required"})
	}
	if c.LengthMM < 0 {
		errs = append(errs, RowError{Row: row, Field: "cutting_length", Reason: "length must not be negative"})
	}
	if c.WidthMM < 0 {
		errs = append(errs, RowError{Row: row, Field: "cutting_width", Reason: "width must not be negative"})
	}
	if c.AreaM2 < 0 {
		errs = append(errs, RowError{Row: row, Field: "final_area", Reason: "area must not be negative"})
	}
	if c.LengthMM == 0 && c.WidthMM == 0 && c.AreaM2 == 0 {
		errs = append(errs, RowError{Row: row, Reason: "component has no dimensions"})
	}
	if len(errs) > 0 {
		return errs
	}

	if c.AreaM2 == 0 {
		c.AreaM2 = c.LengthMM * c.WidthMM / 1_000_000
	}

	return nil
}

func isEmptyRow(row TabularRow) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cell looks a logical column up in a raw row, tolerating case and
// space/dash/underscore differences between export presets.
func cell(row TabularRow, column string) string {
	for _, name := range tabularColumns[column] {
		if v, ok := row[name]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	for _, name := range tabularColumns[column] {
		want := collapseKey(name)
		for k, v := range row {
			if collapseKey(k) == want && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func collapseKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// parseNumber extracts a decimal from a raw cell, dropping embedded unit
// suffixes such as "m²" or "mm". Persian and Arabic-Indic digits are folded
// to ASCII first. Returns 0 for non-numeric cells.
func parseNumber(value string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, catalog.FoldDigits(value))

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}
