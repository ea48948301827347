package catalog

import (
	"strings"
	"testing"
)

func testMaterials() []Material {
	return []Material{
		{Code: "MAT001", Description: "MDF 16mm", Unit: "m²", UnitPrice: 125000, Aliases: []string{"MDF", "ام دی اف ۱۶"}, Active: true},
		{Code: "MAT002", Description: "Melamine 18mm", Unit: "m²", UnitPrice: 98000, Active: true},
		{Code: "MAT099", Description: "Discontinued Board", Unit: "m²", UnitPrice: 1, Active: false},
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  MDF  16mm ", "mdf 16mm"},
		{"MDF\t16mm", "mdf 16mm"},
		{"ام دی اف ۱۶", "ام دی اف 16"},
		{"٣ ميل", "3 ميل"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIndexMaterialAliasMatching(t *testing.T) {
	ix := NewIndex(testMaterials(), nil, nil, nil)

	// The same alias must match regardless of case and padding.
	for _, raw := range []string{"MDF", "mdf", " MDF ", "Mdf"} {
		m, kind := ix.Material(raw)
		if m == nil || m.Code != "MAT001" {
			t.Fatalf("Material(%q) = %v, want MAT001", raw, m)
		}
		if kind != MatchAlias {
			t.Errorf("Material(%q) matched via %s, want alias", raw, kind)
		}
	}

	// Persian alias with Persian digits.
	m, kind := ix.Material("ام دی اف ۱۶")
	if m == nil || m.Code != "MAT001" || kind != MatchAlias {
		t.Errorf("persian alias resolved to %v via %v", m, kind)
	}

	// Exact code and description match as exact, not alias.
	if m, kind := ix.Material("MAT001"); m == nil || kind != MatchExact {
		t.Errorf("code lookup = %v via %v, want exact", m, kind)
	}
	if m, kind := ix.Material("mdf 16MM"); m == nil || m.Code != "MAT001" || kind != MatchExact {
		t.Errorf("description lookup = %v via %v, want MAT001 exact", m, kind)
	}
}

func TestIndexInactiveEntriesInvisible(t *testing.T) {
	ix := NewIndex(testMaterials(), nil, nil, nil)

	if m, kind := ix.Material("MAT099"); m != nil || kind != MatchNone {
		t.Errorf("inactive material resolved: %v via %v", m, kind)
	}
	if m, _ := ix.Material("Discontinued Board"); m != nil {
		t.Errorf("inactive material resolved by description: %v", m)
	}
}

func TestIndexUnmatchedReference(t *testing.T) {
	ix := NewIndex(testMaterials(), nil, nil, nil)

	m, kind := ix.Material("Solid Walnut")
	if m != nil || kind != MatchNone {
		t.Errorf("Material(Solid Walnut) = %v via %v, want none", m, kind)
	}
}

func TestIndexAliasCollisionKeepsFirst(t *testing.T) {
	materials := testMaterials()
	materials = append(materials, Material{
		Code: "MAT003", Description: "White MDF", Aliases: []string{"mdf"}, Active: true,
	})

	ix := NewIndex(materials, nil, nil, nil)

	m, _ := ix.Material("MDF")
	if m == nil || m.Code != "MAT001" {
		t.Fatalf("collision did not keep first registered material, got %v", m)
	}

	if len(ix.Warnings()) == 0 {
		t.Fatal("expected a configuration-quality warning for the alias collision")
	}
	if !strings.Contains(ix.Warnings()[0], "MAT001") {
		t.Errorf("warning should name the kept owner: %q", ix.Warnings()[0])
	}
}

func TestIndexEdgeCNCFittingLookup(t *testing.T) {
	edges := []EdgeBanding{{Code: "EDGE001", Description: "PVC 1mm", Unit: "m", UnitPrice: 3500, Active: true}}
	cncOps := []CNCOperation{{Code: "CNC001", Description: "Drilling", Unit: "piece", UnitPrice: 5000, Active: true}}
	fittings := []Fitting{{Code: "FITTING-1", Name: "Concealed hinge", Unit: "piece", UnitPrice: 200000, QtyPerFitting: 2, Active: true}}

	ix := NewIndex(nil, edges, cncOps, fittings)

	if e, kind := ix.EdgeBanding("pvc 1MM"); e == nil || e.Code != "EDGE001" || kind != MatchExact {
		t.Errorf("EdgeBanding description lookup failed: %v via %v", e, kind)
	}
	if op, kind := ix.CNCOperation("CNC001"); op == nil || kind != MatchExact {
		t.Errorf("CNCOperation code lookup failed: %v via %v", op, kind)
	}
	if f, kind := ix.Fitting("concealed HINGE"); f == nil || f.Code != "FITTING-1" || kind != MatchExact {
		t.Errorf("Fitting name lookup failed: %v via %v", f, kind)
	}
	if e, kind := ix.EdgeBanding("ABS 2mm"); e != nil || kind != MatchNone {
		t.Errorf("unknown edge banding resolved: %v via %v", e, kind)
	}
}
