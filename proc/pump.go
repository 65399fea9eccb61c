package proc

// Pump estimates the hydraulic power needed to move its inlet stream. It is
// an auxiliary unit: it does not transform the stream, it only accounts for
// power draw in its Costing.
type Pump struct {
	id string
	In *Stream

	Head       float64 // design head [m]
	Efficiency float64 // overall pump efficiency

	Costing Costing
}

const (
	defaultPumpHead       = 10.0
	defaultPumpEfficiency = 0.6
	gravity               = 9.81 // m/s2
)

// NewPump creates a pump on the given stream with default head and
// efficiency.
func NewPump(id string, in *Stream) *Pump {
	return &Pump{
		id:         id,
		In:         in,
		Head:       defaultPumpHead,
		Efficiency: defaultPumpEfficiency,
		Costing:    NewCosting(),
	}
}

// ID returns the unit identifier.
func (p *Pump) ID() string { return p.id }

// CostRecords exposes the pump's cost bookkeeping.
func (p *Pump) CostRecords() *Costing { return &p.Costing }

// Simulate recomputes the pump's power draw from the current inlet flows.
func (p *Pump) Simulate() {
	p.Costing.Reset()
	vol := p.In.FVol() // m3/h
	if vol <= 0 {
		return
	}
	rho := p.In.FMass() / vol
	p.Costing.PowerKW = rho * gravity * (vol / 3600) * p.Head / p.Efficiency / 1000
	p.Costing.DesignResults["Flow rate"] = vol
	p.Costing.DesignResults["Head"] = p.Head
}
