// Package kernel implements the data-parallel NPT integration kernels:
// the two half-step updates, the box rescale, and the blockwise 2K/virial
// reductions.
//
// Per-step sequence: StepOne, external force/virial evaluation, BoxRescale,
// StepTwo, then the reductions whose partial sums feed the thermostat and
// barostat update. Kernels read inputs through pre-launch snapshots and
// write results directly, so no launch ever observes another worker's
// in-flight write.
package kernel
