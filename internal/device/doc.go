// Package device provides the kernel launch driver: execution grids,
// read-only array bindings, and fault reporting.
//
// The scheduling model is one lightweight worker per grid slot. Workers in
// a launch run concurrently with no ordering guarantee between blocks;
// within a block the reduction path sees its scratch buffer in program
// order, which stands in for the barrier-separated halving steps of the
// hardware original.
//
// Error handling follows a strict taxonomy: binding failures and grid
// configuration failures abort before any worker executes, while in-kernel
// faults are latched and surface either from the offending launch (checked
// mode) or from the next Synchronize (unchecked mode). A launch never
// partially dispatches its grid.
package device
