// Package flcram exposes the three RAM-resident flash primitives under
// their fixed external names: a 32-bit aligned read, a 128-bit aligned
// write, and a page erase.  They are the hardened face of the flash engine:
// every precondition violation halts, nothing is ever reported back, and
// the whole call path executes from the .ramfuncs section staged by
// boot/ramload.
//
// Callers reach these through the exported symbols, so no handle can be
// threaded in; each entry steals the register surface for the duration of
// the call.  The contract is that whoever links against these symbols
// already owns the peripherals and that boot/ramload.Load has run.
package flcram
