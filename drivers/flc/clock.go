package flc

import "tenacity/hardware/max78000"

// setClockDivisor programs FLC_CLKDIV so the controller's internal clock is
// 1 MHz.  sysClkFreq must be the effective system clock (source divided by
// divider) and must be an exact multiple of 1 MHz: a non-integral divisor
// makes the controller's program/erase timing undefined, which is a fatal
// precondition, not a tuning problem.
//
// This runs inside every guard envelope, immediately before unlock.  There
// is no "already correct" fast path; the divisor is re-asserted every time.
//
// The FLC must be observed ready.
func (c *Controller) setClockDivisor(sysClkFreq uint32) error {
	if sysClkFreq%1_000_000 != 0 {
		return c.fail(ErrBadClock)
	}
	div := sysClkFreq / 1_000_000

	v := c.flc.Clkdiv.Get()
	c.flc.Clkdiv.Set((v &^ max78000.FLCClkdivMask) | div)
	return nil
}
