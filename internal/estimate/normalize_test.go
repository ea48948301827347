package estimate

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestNormalizeTabularLegacyCentimeters(t *testing.T) {
	rows := []TabularRow{{
		"Designation":   "D-01",
		"Description":   "Side panel",
		"Quantity":      "2",
		"Length - raw":  "60",
		"Width - raw":   "20",
		"Material name": "MDF 16mm",
	}}

	comps, errs := NormalizeTabular(rows)
	if len(errs) != 0 {
		t.Fatalf("unexpected row errors: %v", errs)
	}
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}

	c := comps[0]
	nearlyEqual(t, "LengthMM", c.LengthMM, 600)
	nearlyEqual(t, "WidthMM", c.WidthMM, 200)
	nearlyEqual(t, "AreaM2", c.AreaM2, 0.12)
	if c.Count != 2 || c.Number != "D-01" || c.Material != "MDF 16mm" {
		t.Errorf("unexpected component: %+v", c)
	}
}

func TestNormalizeTabularAreaUnitSuffix(t *testing.T) {
	rows := []TabularRow{{
		"Name":          "Shelf",
		"Count":         "1",
		"Length - raw":  "50",
		"Width - raw":   "30",
		"Material name": "Melamine",
		"Area - final":  "0.12 m²",
	}}

	comps, errs := NormalizeTabular(rows)
	if len(errs) != 0 {
		t.Fatalf("unexpected row errors: %v", errs)
	}
	// The supplied area wins over the derived one.
	nearlyEqual(t, "AreaM2", comps[0].AreaM2, 0.12)
}

func TestNormalizeTabularOptimizedMillimeters(t *testing.T) {
	rows := []TabularRow{{
		"Number":         "1.1",
		"Name":           "Door",
		"Count":          "3",
		"Cutting length": "600",
		"Cutting width":  "400",
		"Material name":  "MDF 16mm",
		"Edge ymin":      "PVC 1mm",
		"Final area":     "0.24 m²",
	}}

	comps, errs := NormalizeTabular(rows)
	if len(errs) != 0 {
		t.Fatalf("unexpected row errors: %v", errs)
	}

	c := comps[0]
	nearlyEqual(t, "LengthMM", c.LengthMM, 600)
	nearlyEqual(t, "WidthMM", c.WidthMM, 400)
	nearlyEqual(t, "AreaM2", c.AreaM2, 0.24)
	if c.EdgeYMin != "PVC 1mm" {
		t.Errorf("EdgeYMin = %q", c.EdgeYMin)
	}
}

func TestNormalizeTabularRejectsBadRowsKeepsGood(t *testing.T) {
	rows := []TabularRow{
		{"Name": "Good", "Count": "1", "Length - raw": "60", "Width - raw": "20", "Material name": "MDF"},
		{"Name": "No material", "Count": "1", "Length - raw": "60", "Width - raw": "20"},
		{"Name": "No quantity", "Length - raw": "60", "Width - raw": "20", "Material name": "MDF"},
		{"Name": "No dimensions", "Count": "2", "Material name": "MDF"},
		{}, // fully empty rows are skipped silently
	}

	comps, errs := NormalizeTabular(rows)
	if len(comps) != 1 || comps[0].Name != "Good" {
		t.Fatalf("got %d valid components, want only the good row: %+v", len(comps), comps)
	}
	if len(errs) != 3 {
		t.Fatalf("got %d row errors, want 3: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Row < 2 || e.Row > 4 {
			t.Errorf("row error points at row %d: %v", e.Row, e)
		}
	}
}

func TestNormalizeDirectFieldForField(t *testing.T) {
	parts := []DirectPart{{
		Number:      "2.4",
		Name:        "Drawer front",
		Count:       2,
		CuttingLen:  450,
		CuttingWid:  150,
		CuttingThk:  18,
		Material:    "MDF 16mm",
		EntityNames: "Drawer, Front",
		EdgeYMin:    " PVC 1mm ",
		FinalArea:   0.0675,
		CNCOps:      []string{"CNC001"},
		Fittings:    []string{"FITTING-1"},
	}}

	comps, errs := NormalizeDirect(parts)
	if len(errs) != 0 {
		t.Fatalf("unexpected row errors: %v", errs)
	}

	c := comps[0]
	if c.Number != "2.4" || c.Count != 2 || c.Material != "MDF 16mm" {
		t.Errorf("unexpected component: %+v", c)
	}
	if c.EdgeYMin != "PVC 1mm" {
		t.Errorf("edge reference not trimmed: %q", c.EdgeYMin)
	}
	nearlyEqual(t, "AreaM2", c.AreaM2, 0.0675)
	if len(c.CNCOps) != 1 || len(c.Fittings) != 1 {
		t.Errorf("operation references lost: %+v", c)
	}
}

func TestNormalizeComponentsDerivesArea(t *testing.T) {
	comps, errs := NormalizeComponents([]Component{
		{Name: "Panel", Count: 1, LengthMM: 600, WidthMM: 400, Material: "MDF"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected row errors: %v", errs)
	}
	nearlyEqual(t, "AreaM2", comps[0].AreaM2, 0.24)
}

func TestNormalizeComponentsRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		comp Component
	}{
		{"zero count", Component{Name: "A", Count: 0, LengthMM: 10, WidthMM: 10, Material: "MDF"}},
		{"negative length", Component{Name: "B", Count: 1, LengthMM: -5, WidthMM: 10, Material: "MDF"}},
		{"missing material", Component{Name: "C", Count: 1, LengthMM: 10, WidthMM: 10}},
		{"negative area", Component{Name: "D", Count: 1, LengthMM: 10, WidthMM: 10, Material: "MDF", AreaM2: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comps, errs := NormalizeComponents([]Component{tc.comp})
			if len(comps) != 0 {
				t.Errorf("invalid component accepted: %+v", comps)
			}
			if len(errs) == 0 {
				t.Error("expected a row error")
			}
		})
	}
}

func TestParseNumberStripsUnits(t *testing.T) {
	cases := map[string]float64{
		"0.12 m²": 0.12,
		"600mm":   600,
		"60":      60,
		"۶۰":      60,
		"abc":     0,
		"":        0,
	}
	for in, want := range cases {
		if got := parseNumber(in); got != want {
			t.Errorf("parseNumber(%q) = %v, want %v", in, got, want)
		}
	}
}
