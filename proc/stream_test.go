package proc

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const massTol = 1e-9

func TestStream_MassAggregates(t *testing.T) {
	cs := DefaultComponents()
	s := NewStream("in", cs)
	s.SetMass(Water, 900)
	s.SetMass(CompOtherSS, 50)
	s.SetMass(CompNH3, 10)
	s.SetMass(CompNonNH3, 40)

	if got := s.FMass(); !scalar.EqualWithinAbs(got, 1000, massTol) {
		t.Errorf("FMass: got %v, want 1000", got)
	}
	if got := s.MassOf(CompNH3, CompNonNH3); !scalar.EqualWithinAbs(got, 50, massTol) {
		t.Errorf("MassOf(N species): got %v, want 50", got)
	}
	// volumetric flow from intrinsic densities
	want := 900.0/1000 + 50.0/1100 + 10.0/1000 + 40.0/1000
	if got := s.FVol(); !scalar.EqualWithinAbs(got, want, massTol) {
		t.Errorf("FVol: got %v, want %v", got, want)
	}
}

func TestStream_MixFrom_MassWeightedTemperature(t *testing.T) {
	cs := DefaultComponents()
	a := NewStream("a", cs)
	a.SetMass(Water, 100)
	a.T = 300
	b := NewStream("b", cs)
	b.SetMass(Water, 300)
	b.SetMass(CompOtherSS, 100)
	b.T = 350

	m := NewStream("mix", cs)
	m.MixFrom(a, b)

	if got := m.Mass(Water); got != 400 {
		t.Errorf("mixed water: got %v, want 400", got)
	}
	wantT := (100*300.0 + 400*350.0) / 500
	if !scalar.EqualWithinAbs(m.T, wantT, 1e-9) {
		t.Errorf("mixed T: got %v, want %v", m.T, wantT)
	}
}

func TestStream_CopyFlow_SubsetAndRemove(t *testing.T) {
	cs := DefaultComponents()
	src := NewStream("src", cs)
	src.SetMass(Water, 500)
	src.SetMass(CompOtherSS, 40)
	src.SetMass("Tissue", 10)

	dst := NewStream("dst", cs)
	dst.SetMass(CompNH3, 99) // stale flow, must be zeroed
	dst.CopyFlow(src, []string{CompOtherSS, "Tissue"}, true)

	if got := dst.Mass(CompOtherSS); got != 40 {
		t.Errorf("dst OtherSS: got %v, want 40", got)
	}
	if got := dst.Mass(CompNH3); got != 0 {
		t.Errorf("dst NH3 not zeroed: got %v", got)
	}
	if got := src.Mass(CompOtherSS); got != 0 {
		t.Errorf("src OtherSS not removed: got %v", got)
	}
	if got := src.Mass(Water); got != 500 {
		t.Errorf("src water must be untouched: got %v", got)
	}
}

func TestStream_COD_StoredOverridesDerived(t *testing.T) {
	cs := DefaultComponents()
	s := NewStream("s", cs)
	s.SetMass(Water, 1000)
	s.SetMass(CompOtherSS, 10) // 1.42 g-COD/g

	derived := s.COD()
	wantLoad := 10 * 1.42 // kg-COD/h
	if got := derived * s.FVol() / 1000; !scalar.EqualWithinAbs(got, wantLoad, 1e-9) {
		t.Errorf("derived COD load: got %v, want %v", got, wantLoad)
	}

	s.SetCOD(1234)
	if got := s.COD(); got != 1234 {
		t.Errorf("stored COD: got %v, want 1234", got)
	}
	s.ClearCOD()
	if got := s.COD(); !scalar.EqualWithinAbs(got, derived, 1e-9) {
		t.Errorf("after ClearCOD: got %v, want derived %v", got, derived)
	}
}

func TestStream_EmptyStreamHasZeroCOD(t *testing.T) {
	s := NewStream("empty", DefaultComponents())
	if got := s.COD(); got != 0 {
		t.Errorf("empty stream COD: got %v, want 0", got)
	}
}
