package proc

import "fmt"

// Component describes a single material tracked by a Stream.
// Particulate components report entirely to the solids-rich outlet of the
// moisture-targeting units; everything else follows the liquid split.
type Component struct {
	ID          string
	Particulate bool
	Density     float64 // intrinsic density [kg/m3]
	CODContent  float64 // oxygen demand per unit mass [g-COD/g]
}

// Components is an ordered registry of Component definitions. The order is
// the canonical flow-vector order used by Stream.
type Components struct {
	list  []Component
	index map[string]int
}

// NewComponents builds a registry from the given definitions.
// Duplicate IDs and non-positive densities are configuration errors.
func NewComponents(defs ...Component) (*Components, error) {
	cs := &Components{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("component with empty ID")
		}
		if _, dup := cs.index[d.ID]; dup {
			return nil, fmt.Errorf("duplicate component %q", d.ID)
		}
		if d.Density <= 0 {
			return nil, fmt.Errorf("component %q: density must be positive, got %v", d.ID, d.Density)
		}
		cs.index[d.ID] = len(cs.list)
		cs.list = append(cs.list, d)
	}
	if _, ok := cs.index[Water]; !ok {
		return nil, fmt.Errorf("component set must include %q", Water)
	}
	return cs, nil
}

// Water is the component ID every registry must carry; the water-balance
// closure and moisture targeting are defined on it.
const Water = "H2O"

// Component IDs with special roles in the categorical split rules.
const (
	CompOtherSS = "OtherSS" // target of the TS rule
	CompNH3     = "NH3"     // ammoniacal nitrogen
	CompNonNH3  = "NonNH3"  // organic/other nitrogen
)

// Len returns the number of registered components.
func (cs *Components) Len() int { return len(cs.list) }

// Has reports whether id is registered.
func (cs *Components) Has(id string) bool {
	_, ok := cs.index[id]
	return ok
}

// Get returns the definition for id.
func (cs *Components) Get(id string) (Component, bool) {
	i, ok := cs.index[id]
	if !ok {
		return Component{}, false
	}
	return cs.list[i], true
}

// IDs returns all component IDs in registry order.
func (cs *Components) IDs() []string {
	ids := make([]string, len(cs.list))
	for i, c := range cs.list {
		ids[i] = c.ID
	}
	return ids
}

// Solids returns the IDs of the particulate components.
func (cs *Components) Solids() []string {
	var ids []string
	for _, c := range cs.list {
		if c.Particulate {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Solubles returns the IDs of everything not in solids, preserving registry
// order. Water counts as soluble.
func (cs *Components) Solubles(solids []string) []string {
	skip := make(map[string]bool, len(solids))
	for _, id := range solids {
		skip[id] = true
	}
	var ids []string
	for _, c := range cs.list {
		if !skip[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// DefaultComponents returns the wastewater component set used throughout the
// package: water, other suspended solids, the two nitrogen pools, dissolved
// P and K, and the dry-toilet additives tissue and wood ash.
//
// COD contents follow the usual 1.42 g-COD/g-VS equivalence for organic
// solids; inorganics carry none.
func DefaultComponents() *Components {
	cs, err := NewComponents(
		Component{ID: Water, Density: 1000},
		Component{ID: CompOtherSS, Particulate: true, Density: 1100, CODContent: 1.42},
		Component{ID: CompNH3, Density: 1000},
		Component{ID: CompNonNH3, Density: 1000, CODContent: 1.14},
		Component{ID: "P", Density: 1000},
		Component{ID: "K", Density: 1000},
		Component{ID: "Tissue", Particulate: true, Density: 1100, CODContent: 1.42},
		Component{ID: "WoodAsh", Particulate: true, Density: 2000},
	)
	if err != nil {
		panic(err) // static table, cannot fail
	}
	return cs
}
