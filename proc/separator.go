package proc

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SludgeSeparator partitions a waste stream into a liquid outlet and a
// settled-solids outlet according to a retention split, then closes the
// water balance so the solids outlet carries settledFrac of the influent's
// total mass.
//
// With a uniform split every component is retained at the same fraction.
// With a categorical split the TS, COD, N and literal-component rules apply
// and every unmentioned non-water component reports entirely to the liquid.
type SludgeSeparator struct {
	id          string
	In          *Stream
	Liquid      *Stream
	Solids      *Stream
	split       Split
	settledFrac float64
}

// SeparatorConfig carries optional overrides for NewSludgeSeparator. A nil
// field means the default-parameter table supplies the value.
type SeparatorConfig struct {
	Split       *Split
	SettledFrac *float64
}

// NewSludgeSeparator wires a separator to its streams. All three streams
// must share the influent's component registry.
func NewSludgeSeparator(id string, in, liquid, solids *Stream, cfg SeparatorConfig) (*SludgeSeparator, error) {
	u := &SludgeSeparator{id: id, In: in, Liquid: liquid, Solids: solids}
	in.sameBasis(liquid)
	in.sameBasis(solids)

	if cfg.Split != nil {
		u.split = *cfg.Split
	} else {
		def, err := LoadSeparatorDefaults()
		if err != nil {
			return nil, fmt.Errorf("separator %s: %w", id, err)
		}
		sp, err := ParseSplit(def.Split, in.Components())
		if err != nil {
			return nil, fmt.Errorf("separator %s: default split: %w", id, err)
		}
		u.split = sp
	}
	sf := 0.0
	if cfg.SettledFrac != nil {
		sf = *cfg.SettledFrac
	} else {
		def, err := LoadSeparatorDefaults()
		if err != nil {
			return nil, fmt.Errorf("separator %s: %w", id, err)
		}
		sf = def.SettledFrac
	}
	if err := u.SetSettledFrac(sf); err != nil {
		return nil, fmt.Errorf("separator %s: %w", id, err)
	}
	return u, nil
}

// ID returns the unit identifier.
func (u *SludgeSeparator) ID() string { return u.id }

// Split returns the current retention specification.
func (u *SludgeSeparator) Split() Split { return u.split }

// SetSplit replaces the retention specification.
func (u *SludgeSeparator) SetSplit(sp Split) { u.split = sp }

// SettledFrac returns the fraction of influent mass reporting to the solids
// outlet.
func (u *SludgeSeparator) SettledFrac() float64 { return u.settledFrac }

// SetSettledFrac sets the settled fraction; it must lie in [0,1].
func (u *SludgeSeparator) SetSettledFrac(f float64) error {
	if f < 0 || f > 1 {
		return fmt.Errorf("settled fraction must be in [0,1], got %v", f)
	}
	u.settledFrac = f
	return nil
}

// allocateNRemoval distributes a total nitrogen removal between the two
// nitrogen pools, drawing the preferred pool down first. Both returned
// masses are non-negative and bounded by their pools whenever
// totalRemoved <= preferred + other.
func allocateNRemoval(totalRemoved, preferred float64) (preferredRemoved, otherRemoved float64) {
	if preferred <= 0 {
		return 0, totalRemoved
	}
	if preferred > totalRemoved {
		return totalRemoved, 0
	}
	return preferred, totalRemoved - preferred
}

// Run recomputes both outlets from the influent.
func (u *SludgeSeparator) Run() error {
	waste, liq, sol := u.In, u.Liquid, u.Solids
	liq.T = waste.T
	sol.T = waste.T

	var solCODLoad, liqCODLoad float64
	codSplit := false

	switch u.split.kind {
	case SplitUniform:
		liq.CopyLike(waste)
		sol.CopyLike(waste)
		sol.ScaleFlow(u.split.fraction)
		for i := range liq.flow {
			liq.flow[i] -= sol.flow[i]
		}
	case SplitCategorical:
		sol.Empty()
		liq.Empty()
		for key, f := range u.split.byCategory {
			switch key {
			case CategoryTS:
				sol.SetMass(CompOtherSS, f*waste.Mass(CompOtherSS))
			case CategoryCOD:
				load := waste.COD() * waste.FVol()
				solCODLoad = f * load
				liqCODLoad = load - solCODLoad
				codSplit = true
			case CategoryN:
				nRemoved := f * (waste.Mass(CompNH3) + waste.Mass(CompNonNH3))
				nonNH3, nh3 := allocateNRemoval(nRemoved, waste.Mass(CompNonNH3))
				sol.SetMass(CompNonNH3, nonNH3)
				sol.SetMass(CompNH3, nh3)
			default:
				sol.SetMass(key, f*waste.Mass(key))
			}
		}
		for i := range liq.flow {
			liq.flow[i] = waste.flow[i] - sol.flow[i]
		}
	default:
		return fmt.Errorf("unresolved split specification")
	}

	u.adjustSolidWater(waste, liq, sol)

	// Intensive COD follows the absolute loads only after the water balance
	// fixed each outlet's volumetric flow.
	if codSplit {
		sol.SetCOD(intensiveCOD(solCODLoad, sol.FVol()))
		liq.SetCOD(intensiveCOD(liqCODLoad, liq.FVol()))
	}
	return nil
}

func intensiveCOD(load, vol float64) float64 {
	if vol == 0 {
		return 0
	}
	return load / vol
}

// adjustSolidWater sets the water flow of both outlets so the solids outlet
// totals settledFrac of the influent mass. Infeasible targets clamp and
// warn: the split stands, the settled fraction is missed.
func (u *SludgeSeparator) adjustSolidWater(influent, liq, sol *Stream) {
	sol.SetMass(Water, 0)
	w := influent.FMass()*u.settledFrac - sol.FMass()
	if w < 0 {
		w = 0
		logrus.Warnf("separator %s: negative water content calculated for settled solids, try a smaller split or larger settled fraction", u.id)
	}
	if avail := influent.Mass(Water); w > avail {
		w = avail
		logrus.Warnf("separator %s: settled fraction exceeds available water, solids outlet takes all influent water", u.id)
	}
	sol.SetMass(Water, w)
	liq.SetMass(Water, influent.Mass(Water)-w)
}
