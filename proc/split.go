package proc

import "fmt"

// Split category keys understood by SludgeSeparator beyond literal component
// IDs.
const (
	CategoryTS  = "TS"  // other suspended solids proxy
	CategoryCOD = "COD" // oxygen demand
	CategoryN   = "N"   // total nitrogen (NH3 + NonNH3)
)

// SplitKind discriminates the two split specification shapes.
type SplitKind int

const (
	// SplitUniform applies one fraction to every component's mass.
	SplitUniform SplitKind = iota
	// SplitCategorical applies per-category retention rules.
	SplitCategorical
)

// Split is the retention specification for a SludgeSeparator: the fraction
// of material reporting to the settled-solids outlet. It is resolved to one
// of two shapes when set, so Run never re-inspects the raw value.
type Split struct {
	kind       SplitKind
	fraction   float64
	byCategory map[string]float64
}

// Kind returns the resolved shape of the split.
func (sp Split) Kind() SplitKind { return sp.kind }

// Fraction returns the uniform retention fraction. Only meaningful for
// SplitUniform.
func (sp Split) Fraction() float64 { return sp.fraction }

// ByCategory returns the category→fraction map. Only meaningful for
// SplitCategorical.
func (sp Split) ByCategory() map[string]float64 { return sp.byCategory }

func checkFraction(key string, f float64) error {
	if f < 0 || f > 1 {
		return fmt.Errorf("split fraction for %q must be in [0,1], got %v", key, f)
	}
	return nil
}

// UniformSplit builds a split retaining the same fraction of every
// component.
func UniformSplit(fraction float64) (Split, error) {
	if err := checkFraction("*", fraction); err != nil {
		return Split{}, err
	}
	return Split{kind: SplitUniform, fraction: fraction}, nil
}

// CategoricalSplit builds a split from category (or literal component ID)
// keys to retention fractions. Keys outside the TS/COD/N vocabulary must
// name a component registered in cs. Validation happens here, not at run
// time.
func CategoricalSplit(m map[string]float64, cs *Components) (Split, error) {
	if len(m) == 0 {
		return Split{}, fmt.Errorf("categorical split must not be empty")
	}
	byCat := make(map[string]float64, len(m))
	for key, f := range m {
		switch key {
		case CategoryTS:
			if !cs.Has(CompOtherSS) {
				return Split{}, fmt.Errorf("split key %q requires component %q", key, CompOtherSS)
			}
		case CategoryN:
			if !cs.Has(CompNH3) || !cs.Has(CompNonNH3) {
				return Split{}, fmt.Errorf("split key %q requires components %q and %q", key, CompNH3, CompNonNH3)
			}
		case CategoryCOD:
		default:
			if !cs.Has(key) {
				return Split{}, fmt.Errorf("unknown split key %q: not a category (TS, COD, N) or a registered component", key)
			}
			if key == Water {
				return Split{}, fmt.Errorf("split key %q not allowed: water is set by the settled-fraction balance", Water)
			}
		}
		if err := checkFraction(key, f); err != nil {
			return Split{}, err
		}
		byCat[key] = f
	}
	return Split{kind: SplitCategorical, byCategory: byCat}, nil
}

// ParseSplit resolves a raw value, typically decoded from YAML, into a
// Split. Accepted shapes: a number, or a mapping from category/component
// key to fraction. Anything else is a configuration error.
func ParseSplit(v any, cs *Components) (Split, error) {
	switch x := v.(type) {
	case float64:
		return UniformSplit(x)
	case int:
		return UniformSplit(float64(x))
	case map[string]float64:
		return CategoricalSplit(x, cs)
	case map[string]any:
		m := make(map[string]float64, len(x))
		for k, raw := range x {
			switch f := raw.(type) {
			case float64:
				m[k] = f
			case int:
				m[k] = float64(f)
			default:
				return Split{}, fmt.Errorf("split fraction for %q: expected number, got %T", k, raw)
			}
		}
		return CategoricalSplit(m, cs)
	default:
		return Split{}, fmt.Errorf("split must be a number or a mapping, got %T", v)
	}
}
