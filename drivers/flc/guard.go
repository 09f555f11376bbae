package flc

import "tenacity/hardware/max78000"

// waitUntilReady busy-loops until the FLC has no operation in flight.
//
// This runs before every FLC register write except clearing interrupts.
// There is no timeout anywhere in this file: a pending bit that never
// clears is a hardware or power fault, and the only defined exit is the
// external watchdog.
func (c *Controller) waitUntilReady() {
	for c.flc.Ctrl.HasBits(max78000.FLCCtrlPending) {
	}
}

// clearStaleErrors drops any access-fail flag left over from an earlier
// operation so the one about to run reports only its own outcome.  Safe to
// call without waiting for ready.
func (c *Controller) clearStaleErrors() {
	c.flc.Intr.ClearBits(max78000.FLCIntrAccessFail)
}

// unlockWriteProtection writes the magic unlock value into the protection
// field.  The FLC must be observed ready.
func (c *Controller) unlockWriteProtection() {
	v := c.flc.Ctrl.Get()
	c.flc.Ctrl.Set((v &^ max78000.FLCCtrlUnlockMask) | max78000.FLCCtrlUnlockValue)
}

// lockWriteProtection clears the protection field.  Any value other than
// the magic one locks.  The FLC must be observed ready.
func (c *Controller) lockWriteProtection() {
	c.flc.Ctrl.ClearBits(max78000.FLCCtrlUnlockMask)
}

// writeGuard runs op inside the full mutating-operation envelope, in this
// exact order: wait ready, cache down, clear stale errors, set clock
// divisor, unlock, op, wait ready, lock, flush line buffer, cache up.
//
// The clock check is the one precondition that can still fail here.  Under
// Hardened it halts inside setClockDivisor.  Under Recoverable the cache is
// brought back before returning the error; nothing has touched the array at
// that point, so the controller is still locked and consistent.  Past
// unlock there is no unwinding in either posture.
func (c *Controller) writeGuard(sysClkFreq uint32, op func()) error {
	c.waitUntilReady()
	c.disableICC()
	c.clearStaleErrors()

	if err := c.setClockDivisor(sysClkFreq); err != nil {
		c.enableICC()
		return err
	}

	c.unlockWriteProtection()

	op()

	c.waitUntilReady()
	c.lockWriteProtection()
	c.flushLineBuffer()
	c.enableICC()
	return nil
}
