package proc

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Stream holds the mass flows of a process stream, one entry per registered
// component, plus temperature and an optional stored intensive COD value.
// Flows are in kg/h, temperature in K, COD in mg/L.
//
// Streams are mutated in place by units; exactly one unit may write a given
// stream during a flowsheet sweep.
type Stream struct {
	ID string
	T  float64

	components *Components
	flow       []float64
	cod        float64
	hasCOD     bool
}

// NewStream creates an empty stream over the given component set at 298.15 K.
func NewStream(id string, cs *Components) *Stream {
	return &Stream{
		ID:         id,
		T:          298.15,
		components: cs,
		flow:       make([]float64, cs.Len()),
	}
}

// Components returns the component registry this stream is defined over.
func (s *Stream) Components() *Components { return s.components }

func (s *Stream) idx(id string) int {
	i, ok := s.components.index[id]
	if !ok {
		panic(fmt.Sprintf("stream %s: unknown component %q", s.ID, id))
	}
	return i
}

// Mass returns the mass flow of a single component [kg/h].
func (s *Stream) Mass(id string) float64 { return s.flow[s.idx(id)] }

// SetMass sets the mass flow of a single component [kg/h].
func (s *Stream) SetMass(id string, v float64) { s.flow[s.idx(id)] = v }

// MassOf returns the summed mass flow of a subset of components [kg/h].
func (s *Stream) MassOf(ids ...string) float64 {
	total := 0.0
	for _, id := range ids {
		total += s.flow[s.idx(id)]
	}
	return total
}

// FMass returns the total mass flow [kg/h].
func (s *Stream) FMass() float64 { return floats.Sum(s.flow) }

// FVol returns the volumetric flow [m3/h] from component intrinsic densities.
func (s *Stream) FVol() float64 {
	total := 0.0
	for i, c := range s.components.list {
		total += s.flow[i] / c.Density
	}
	return total
}

// COD returns the stream's intensive oxygen demand [mg/L]: the stored value
// if one has been set, otherwise a value derived from component COD contents.
func (s *Stream) COD() float64 {
	if s.hasCOD {
		return s.cod
	}
	vol := s.FVol()
	if vol == 0 {
		return 0
	}
	load := 0.0 // kg-COD/h
	for i, c := range s.components.list {
		load += s.flow[i] * c.CODContent
	}
	return load / vol * 1000
}

// SetCOD stores an intensive oxygen demand value [mg/L], overriding the
// derived one.
func (s *Stream) SetCOD(v float64) {
	s.cod = v
	s.hasCOD = true
}

// ClearCOD drops any stored COD so the derived value is reported again.
func (s *Stream) ClearCOD() {
	s.cod = 0
	s.hasCOD = false
}

// HasStoredCOD reports whether a stored COD value is set.
func (s *Stream) HasStoredCOD() bool { return s.hasCOD }

func (s *Stream) sameBasis(o *Stream) {
	if s.components != o.components {
		panic(fmt.Sprintf("streams %s and %s use different component sets", s.ID, o.ID))
	}
}

// Empty zeroes all flows and drops any stored COD.
func (s *Stream) Empty() {
	for i := range s.flow {
		s.flow[i] = 0
	}
	s.ClearCOD()
}

// CopyLike makes this stream a flow-and-state copy of src.
func (s *Stream) CopyLike(src *Stream) {
	s.sameBasis(src)
	copy(s.flow, src.flow)
	s.T = src.T
	s.cod = src.cod
	s.hasCOD = src.hasCOD
}

// CopyFlow copies the flows of the listed components from src and zeroes
// every other component in this stream. When remove is true the copied flows
// are zeroed in src as well.
func (s *Stream) CopyFlow(src *Stream, ids []string, remove bool) {
	s.sameBasis(src)
	for i := range s.flow {
		s.flow[i] = 0
	}
	for _, id := range ids {
		i := s.idx(id)
		s.flow[i] = src.flow[i]
		if remove {
			src.flow[i] = 0
		}
	}
}

// ScaleFlow multiplies every component flow by k.
func (s *Stream) ScaleFlow(k float64) {
	floats.Scale(k, s.flow)
}

// MixFrom overwrites this stream with the sum of the given streams.
// Temperature is the mass-weighted average; any stored COD is dropped in
// favor of the derived value of the mixture.
func (s *Stream) MixFrom(srcs ...*Stream) {
	for i := range s.flow {
		s.flow[i] = 0
	}
	totalMass := 0.0
	weightedT := 0.0
	for _, src := range srcs {
		s.sameBasis(src)
		floats.Add(s.flow, src.flow)
		m := src.FMass()
		totalMass += m
		weightedT += m * src.T
	}
	if totalMass > 0 {
		s.T = weightedT / totalMass
	}
	s.ClearCOD()
}

func (s *Stream) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (T=%.2f K):", s.ID, s.T)
	for i, c := range s.components.list {
		if s.flow[i] != 0 {
			fmt.Fprintf(&sb, " %s=%.4g", c.ID, s.flow[i])
		}
	}
	return sb.String()
}
