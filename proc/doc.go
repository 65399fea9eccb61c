// Package proc provides steady-state unit operations for wastewater sludge
// handling: mass balance, equipment sizing, and power/cost bookkeeping for
// thickening, centrifugation, and solid-liquid separation.
//
// # Reading Guide
//
// Start with these three files to understand the package:
//   - stream.go: the Stream mass-flow container and its mix/copy primitives
//   - separator.go: the categorical retention split and water-balance closure
//   - handling.go: the moisture-targeting split and the thickener/centrifuge
//     equipment built on it
//
// # Architecture
//
// Units are plain structs wired to their inlet and outlet Streams at
// construction. Run recomputes the outlets from the inlets; Design and Cost
// (where implemented) fill in equipment sizing and purchase-cost records.
// The System type runs an ordered unit list, optionally sweeping to a fixed
// point when the flowsheet has recycles.
//
// A unit never allocates its outlet streams: inlets and outlets are owned by
// the caller, and exactly one unit writes a given stream during a sweep.
package proc
