package proc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// relaxUnit halves the distance between a stream's water flow and a target
// on every Run, a stand-in for a recycle loop converging to a fixed point.
type relaxUnit struct {
	id     string
	stream *Stream
	target float64
	runs   int
	fail   error
}

func (u *relaxUnit) ID() string { return u.id }

func (u *relaxUnit) Run() error {
	if u.fail != nil {
		return u.fail
	}
	u.runs++
	w := u.stream.Mass(Water)
	u.stream.SetMass(Water, w+(u.target-w)/2)
	return nil
}

func TestSystem_SingleSweepWithoutTears(t *testing.T) {
	cs := DefaultComponents()
	s := NewStream("s", cs)
	u := &relaxUnit{id: "U1", stream: s, target: 100}
	sys := NewSystem("sys")
	sys.Register(u)

	if err := sys.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if u.runs != 1 {
		t.Errorf("sweeps without tear streams: got %d, want 1", u.runs)
	}
}

func TestSystem_ConvergesTearStream(t *testing.T) {
	cs := DefaultComponents()
	s := NewStream("s", cs)
	u := &relaxUnit{id: "U1", stream: s, target: 100}
	sys := NewSystem("sys")
	sys.Register(u)
	sys.Track(s)

	if err := sys.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := s.Mass(Water); got < 99.99 {
		t.Errorf("tear stream did not converge: water=%v", got)
	}
	if u.runs >= sys.MaxSweeps {
		t.Errorf("convergence took all %d sweeps", u.runs)
	}
}

func TestSystem_SweepBudgetExceeded(t *testing.T) {
	cs := DefaultComponents()
	s := NewStream("s", cs)
	u := &relaxUnit{id: "U1", stream: s, target: 100}
	sys := NewSystem("sys")
	sys.MaxSweeps = 3
	sys.Tol = 1e-15
	sys.Register(u)
	sys.Track(s)

	err := sys.Run()
	if err == nil || !strings.Contains(err.Error(), "did not converge") {
		t.Fatalf("Run: got %v, want non-convergence error", err)
	}
}

func TestSystem_UnitErrorPropagatesWithID(t *testing.T) {
	boom := errors.New("boom")
	u := &relaxUnit{id: "U7", stream: NewStream("s", DefaultComponents()), fail: boom}
	sys := NewSystem("sys")
	sys.Register(u)

	err := sys.Run()
	if !errors.Is(err, boom) {
		t.Fatalf("Run: got %v, want wrapped unit error", err)
	}
	if !strings.Contains(err.Error(), "U7") {
		t.Errorf("error %q does not name the failing unit", err)
	}
}

func TestSystem_SimulateRunsDesignAndCost(t *testing.T) {
	cs := DefaultComponents()
	in := NewStream("in", cs)
	in.SetMass(Water, 250000)
	in.SetMass(CompOtherSS, 500)
	eff := NewStream("eff", cs)
	sludge := NewStream("sludge", cs)
	u, err := NewBeltThickener("GBT1", []*Stream{in}, eff, sludge, 0, nil)
	if err != nil {
		t.Fatalf("NewBeltThickener: %v", err)
	}
	sys := NewSystem("sys")
	sys.Register(u)

	if err := sys.Simulate(); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if u.NThickeners() == 0 {
		t.Error("Design did not run")
	}
	if u.Costing.PowerKW == 0 {
		t.Error("Cost did not run")
	}
}

func TestCosting_InstalledCostDefaultsFactorOne(t *testing.T) {
	c := NewCosting()
	c.PurchaseCosts["A"] = 100
	c.PurchaseCosts["B"] = 50
	c.BareModule["A"] = 2
	assert.Equal(t, 250.0, c.InstalledCost())

	c.Reset()
	assert.Empty(t, c.PurchaseCosts)
	assert.Equal(t, 0.0, c.InstalledCost())
}
