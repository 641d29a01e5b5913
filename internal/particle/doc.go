// Package particle holds the particle data containers shared by every
// kernel: the struct-of-arrays [Store], the validated integration [Group],
// and the periodic [Box].
//
// Ownership rules: the simulation orchestrator creates and destroys the
// Store and Groups; kernels only ever mutate array contents in place.
// Box values are immutable; rescaling produces a new value.
package particle
