package flc

import "tenacity/hardware/max78000"

// PageErase erases the 8 KiB page containing address, setting every bit in
// it back to 1.  The controller ignores address bits [12:0], so any address
// inside the page works and no alignment check is needed; only bounds are
// validated.  Erasing a page that is already erased leaves it all-ones.
func (c *Controller) PageErase(address uint32, sysClkFreq uint32) error {
	if !CheckBounds(address, address+1) {
		return c.fail(ErrPtrBounds)
	}

	return c.writeGuard(sysClkFreq, func() {
		c.flc.Addr.Set(address)

		v := c.flc.Ctrl.Get()
		c.flc.Ctrl.Set((v &^ max78000.FLCCtrlEraseCodeMask) | max78000.FLCCtrlEraseCodePage)
		c.flc.Ctrl.SetBits(max78000.FLCCtrlPageErase)

		for c.flc.Ctrl.HasBits(max78000.FLCCtrlPageErase) {
		}
	})
}
