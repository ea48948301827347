package catalog

import (
	"fmt"
)

// MatchKind records how a free-text reference resolved against the index.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchAlias
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchAlias:
		return "alias"
	default:
		return "none"
	}
}

// Index provides O(1) lookup over the four catalogs. Only active entries are
// indexed; inactive entries are invisible to matching even when their code is
// referenced. An Index is immutable after construction and safe for
// concurrent readers.
type Index struct {
	materials map[string]*Material
	edges     map[string]*EdgeBanding
	cncOps    map[string]*CNCOperation
	fittings  map[string]*Fitting

	// normalized code/description -> code, matched as "exact"
	materialNames map[string]string
	edgeNames     map[string]string
	cncNames      map[string]string
	fittingNames  map[string]string

	// normalized alternate name -> material code, matched as "alias"
	materialAliases map[string]string

	warnings []string
}

// NewIndex builds the lookup structures from flat catalog lists. It never
// fails: duplicate normalized names keep the first registered entry and are
// reported as configuration-quality warnings.
func NewIndex(materials []Material, edges []EdgeBanding, cncOps []CNCOperation, fittings []Fitting) *Index {
	ix := &Index{
		materials:       make(map[string]*Material),
		edges:           make(map[string]*EdgeBanding),
		cncOps:          make(map[string]*CNCOperation),
		fittings:        make(map[string]*Fitting),
		materialNames:   make(map[string]string),
		edgeNames:       make(map[string]string),
		cncNames:        make(map[string]string),
		fittingNames:    make(map[string]string),
		materialAliases: make(map[string]string),
	}

	for i := range materials {
		m := &materials[i]
		if !m.Active {
			continue
		}
		ix.materials[m.Code] = m
		ix.register(ix.materialNames, "material", m.Code, m.Code, m.Description)
		for _, alias := range m.Aliases {
			ix.register(ix.materialAliases, "material alias", m.Code, alias)
		}
	}
	for i := range edges {
		e := &edges[i]
		if !e.Active {
			continue
		}
		ix.edges[e.Code] = e
		ix.register(ix.edgeNames, "edge banding", e.Code, e.Code, e.Description)
	}
	for i := range cncOps {
		op := &cncOps[i]
		if !op.Active {
			continue
		}
		ix.cncOps[op.Code] = op
		ix.register(ix.cncNames, "cnc operation", op.Code, op.Code, op.Description)
	}
	for i := range fittings {
		f := &fittings[i]
		if !f.Active {
			continue
		}
		ix.fittings[f.Code] = f
		ix.register(ix.fittingNames, "fitting", f.Code, f.Code, f.Name)
	}

	return ix
}

func (ix *Index) register(m map[string]string, kind, code string, names ...string) {
	for _, name := range names {
		key := Normalize(name)
		if key == "" {
			continue
		}
		if owner, ok := m[key]; ok {
			if owner != code {
				ix.warnings = append(ix.warnings, fmt.Sprintf(
					"%s name %q is claimed by both %s and %s; keeping %s", kind, name, owner, code, owner))
			}
			continue
		}
		m[key] = code
	}
}

// Warnings lists configuration-quality problems found while building the
// index, such as two materials sharing a normalized alias.
func (ix *Index) Warnings() []string {
	return ix.warnings
}

// Material resolves a free-text material reference: exact code first, then
// normalized code/description, then the alias index.
func (ix *Index) Material(raw string) (*Material, MatchKind) {
	if m, ok := ix.materials[raw]; ok {
		return m, MatchExact
	}
	key := Normalize(raw)
	if code, ok := ix.materialNames[key]; ok {
		return ix.materials[code], MatchExact
	}
	if code, ok := ix.materialAliases[key]; ok {
		return ix.materials[code], MatchAlias
	}
	return nil, MatchNone
}

// EdgeBanding resolves an edge banding reference by code or description.
// Banding entries carry no alias list.
func (ix *Index) EdgeBanding(raw string) (*EdgeBanding, MatchKind) {
	if e, ok := ix.edges[raw]; ok {
		return e, MatchExact
	}
	if code, ok := ix.edgeNames[Normalize(raw)]; ok {
		return ix.edges[code], MatchExact
	}
	return nil, MatchNone
}

// CNCOperation resolves a machining operation reference by code or description.
func (ix *Index) CNCOperation(raw string) (*CNCOperation, MatchKind) {
	if op, ok := ix.cncOps[raw]; ok {
		return op, MatchExact
	}
	if code, ok := ix.cncNames[Normalize(raw)]; ok {
		return ix.cncOps[code], MatchExact
	}
	return nil, MatchNone
}

// Fitting resolves a hardware reference by code or name.
func (ix *Index) Fitting(raw string) (*Fitting, MatchKind) {
	if f, ok := ix.fittings[raw]; ok {
		return f, MatchExact
	}
	if code, ok := ix.fittingNames[Normalize(raw)]; ok {
		return ix.fittings[code], MatchExact
	}
	return nil, MatchNone
}
