package proc

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestPump_HydraulicPower(t *testing.T) {
	cs := DefaultComponents()
	in := NewStream("in", cs)
	in.SetMass(Water, 3600) // 3.6 m3/h = 0.001 m3/s of water

	p := NewPump("P1", in)
	p.Simulate()

	// rho*g*Q*H/eta = 1000 * 9.81 * 0.001 * 10 / 0.6 W
	want := 1000 * 9.81 * 0.001 * 10 / 0.6 / 1000
	if !scalar.EqualWithinAbs(p.Costing.PowerKW, want, 1e-9) {
		t.Errorf("pump power: got %v kW, want %v kW", p.Costing.PowerKW, want)
	}
	if got := p.Costing.DesignResults["Flow rate"]; !scalar.EqualWithinAbs(got, 3.6, 1e-9) {
		t.Errorf("recorded flow rate: got %v, want 3.6", got)
	}
}

func TestPump_EmptyStreamDrawsNothing(t *testing.T) {
	p := NewPump("P1", NewStream("in", DefaultComponents()))
	p.Simulate()
	if p.Costing.PowerKW != 0 {
		t.Errorf("empty stream pump power: got %v, want 0", p.Costing.PowerKW)
	}
}

func TestPump_SimulateResetsPriorRecords(t *testing.T) {
	cs := DefaultComponents()
	in := NewStream("in", cs)
	in.SetMass(Water, 3600)
	p := NewPump("P1", in)
	p.Simulate()
	first := p.Costing.PowerKW

	in.SetMass(Water, 7200)
	p.Simulate()
	if !scalar.EqualWithinAbs(p.Costing.PowerKW, 2*first, 1e-9) {
		t.Errorf("doubled flow: got %v, want %v", p.Costing.PowerKW, 2*first)
	}
}
