//go:build !(tinygo && baremetal)

package max78000

// Hosted builds have no memory mapped registers.  The blocks come back with
// nil accessors; host code that actually drives the protocol does it through
// the simulated controller in sim/flcsim, which builds the register structs
// itself.
func newPeripherals() *Peripherals {
	return &Peripherals{}
}
