package proc

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Unit is a flowsheet node: Run recomputes its outlet streams from its
// inlet streams. Units are single-threaded; the surrounding System
// guarantees no other unit touches the same streams during Run.
type Unit interface {
	ID() string
	Run() error
}

// Designer is implemented by units with equipment sizing.
type Designer interface {
	Design() error
}

// Coster is implemented by units with purchase-cost and power accounting.
// Cost runs after Run and Design.
type Coster interface {
	Cost() error
}

// CostingReporter exposes a unit's cost records for reporting.
type CostingReporter interface {
	CostRecords() *Costing
}

// Costing accumulates a unit's sizing and cost records: design results in
// whatever unit each key documents, baseline purchase costs in USD,
// bare-module (installation) factors, and electric power draw.
type Costing struct {
	DesignResults map[string]float64
	PurchaseCosts map[string]float64
	BareModule    map[string]float64
	PowerKW       float64
}

// NewCosting returns an empty Costing with allocated maps.
func NewCosting() Costing {
	return Costing{
		DesignResults: make(map[string]float64),
		PurchaseCosts: make(map[string]float64),
		BareModule:    make(map[string]float64),
	}
}

// Reset clears all records so a unit can be re-costed.
func (c *Costing) Reset() {
	for k := range c.DesignResults {
		delete(c.DesignResults, k)
	}
	for k := range c.PurchaseCosts {
		delete(c.PurchaseCosts, k)
	}
	for k := range c.BareModule {
		delete(c.BareModule, k)
	}
	c.PowerKW = 0
}

// InstalledCost returns the total purchase cost with bare-module factors
// applied. Items without a recorded factor count at factor 1.
func (c *Costing) InstalledCost() float64 {
	total := 0.0
	for item, cost := range c.PurchaseCosts {
		bm := c.BareModule[item]
		if bm == 0 {
			bm = 1
		}
		total += cost * bm
	}
	return total
}

// System runs an ordered list of units. Flowsheets with recycles converge by
// repeated sweeps over tracked tear streams; acyclic flowsheets run a single
// sweep.
type System struct {
	id    string
	units []Unit
	tears []*Stream

	MaxSweeps int     // default 100
	Tol       float64 // relative flow change tolerance, default 1e-6
}

// NewSystem creates an empty system.
func NewSystem(id string) *System {
	return &System{id: id, MaxSweeps: 100, Tol: 1e-6}
}

// ID returns the system identifier.
func (sys *System) ID() string { return sys.id }

// Register appends units to the execution order.
func (sys *System) Register(units ...Unit) {
	sys.units = append(sys.units, units...)
}

// Units returns the execution order.
func (sys *System) Units() []Unit { return sys.units }

// Track marks a stream as a tear stream: sweeps repeat until its flows stop
// changing. With no tracked streams Run performs exactly one sweep.
func (sys *System) Track(streams ...*Stream) {
	sys.tears = append(sys.tears, streams...)
}

func (sys *System) sweep() error {
	for _, u := range sys.units {
		if err := u.Run(); err != nil {
			return fmt.Errorf("unit %s: %w", u.ID(), err)
		}
	}
	return nil
}

// Run executes the flowsheet to convergence.
func (sys *System) Run() error {
	if len(sys.tears) == 0 {
		return sys.sweep()
	}
	prev := sys.snapshot()
	for sweep := 1; sweep <= sys.MaxSweeps; sweep++ {
		if err := sys.sweep(); err != nil {
			return err
		}
		cur := sys.snapshot()
		change := maxRelChange(prev, cur)
		logrus.Debugf("system %s: sweep %d, max tear-stream change %.3g", sys.id, sweep, change)
		if change <= sys.Tol {
			return nil
		}
		prev = cur
	}
	return fmt.Errorf("system %s: tear streams did not converge within %d sweeps", sys.id, sys.MaxSweeps)
}

// Simulate runs the flowsheet, then the design and cost hooks of every unit
// that has them.
func (sys *System) Simulate() error {
	if err := sys.Run(); err != nil {
		return err
	}
	for _, u := range sys.units {
		if d, ok := u.(Designer); ok {
			if err := d.Design(); err != nil {
				return fmt.Errorf("unit %s design: %w", u.ID(), err)
			}
		}
	}
	for _, u := range sys.units {
		if c, ok := u.(Coster); ok {
			if err := c.Cost(); err != nil {
				return fmt.Errorf("unit %s cost: %w", u.ID(), err)
			}
		}
	}
	return nil
}

func (sys *System) snapshot() [][]float64 {
	snap := make([][]float64, len(sys.tears))
	for i, s := range sys.tears {
		snap[i] = append([]float64(nil), s.flow...)
	}
	return snap
}

func maxRelChange(prev, cur [][]float64) float64 {
	worst := 0.0
	for i := range cur {
		for j := range cur[i] {
			d := math.Abs(cur[i][j] - prev[i][j])
			if d == 0 {
				continue
			}
			scale := math.Max(math.Abs(prev[i][j]), math.Abs(cur[i][j]))
			worst = math.Max(worst, d/scale)
		}
	}
	return worst
}
