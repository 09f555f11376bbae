// Package flc is the flash write/erase engine for the MAX78000 flash
// controller.
//
// Mutating the flash array is a sequenced protocol, not a register poke:
// the instruction cache has to come down, stale error flags get cleared,
// the controller's internal 1 MHz clock divisor is re-derived, write
// protection is unlocked, and only then does the physical program or erase
// run.  Afterwards the controller is re-locked, the line-fill buffer is
// flushed with real read cycles, and the cache is invalidated and brought
// back.  Every exported operation here carries that whole envelope; there
// is no way to get half of it.
//
// The engine has two postures, chosen when the handle is built.  Recoverable
// returns typed errors for precondition violations.  Hardened never returns
// a failure: any violated precondition diverts to the halt handler, because
// in the fault-injection threat model the caller that would receive the
// error is exactly what the attacker controls.
package flc

import (
	"tenacity/hardware/max78000"
	"tenacity/hardware/mmio"
	"tenacity/lib/halt"
)

// Posture selects what the engine does when a precondition check fails.
// It is fixed at construction: a per-call flag would itself be a bypassable
// check.
type Posture int

const (
	// Recoverable surfaces violations as FlashError values.
	Recoverable Posture = iota
	// Hardened diverts every violation to the halt handler.
	Hardened
)

// fatal is what the hardened posture jumps to.  Package tests swap it for a
// panic so a halt can be observed; nothing else touches it.
var fatal = halt.Forever

// Controller is the live handle on the flash controller.  It owns the FLC
// register block for its lifetime and holds shared references to ICC0 and
// GCR, which it only writes inside the guard envelope.  Handle uniqueness
// comes from max78000.TakePeripherals handing out the register surface
// once.
type Controller struct {
	flc     *max78000.FLC
	icc     *max78000.ICC0
	gcr     *max78000.GCR
	mem     mmio.Memory
	posture Posture
}

// New builds a controller handle over the given register blocks and flash
// window.  The FLC clock domain must already be enabled through
// drivers/power; a gated domain is a fatal precondition under Hardened and
// ErrPowerGated under Recoverable.
func New(f *max78000.FLC, icc *max78000.ICC0, gcr *max78000.GCR, mem mmio.Memory, posture Posture) (*Controller, error) {
	c := &Controller{flc: f, icc: icc, gcr: gcr, mem: mem, posture: posture}
	if gcr.Pclkdis0.HasBits(max78000.GCRPclkdis0FLC) {
		return nil, c.fail(ErrPowerGated)
	}
	return c, nil
}

// fail resolves a violated precondition according to the posture.  Under
// Hardened it does not return.
func (c *Controller) fail(err FlashError) error {
	if c.posture == Hardened {
		fatal()
	}
	return err
}
