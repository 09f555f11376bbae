package flc

import "tenacity/hardware/max78000"

// disableICC clears the instruction cache enable bit.
//
// This runs before any non-read flash controller operation.
func (c *Controller) disableICC() {
	c.icc.CacheCtrl.ClearBits(max78000.ICCCtrlEnable)
}

// enableICC brings the instruction cache back after a mutating operation.
// It forces a disable first: enabling a cache that still holds lines from
// before the write/erase would serve corrupted instructions.  Then it
// invalidates everything, waits for ready, enables, and waits for ready
// again.
func (c *Controller) enableICC() {
	c.disableICC()

	c.icc.Invalidate.Set(1)
	for !c.icc.CacheCtrl.HasBits(max78000.ICCCtrlReady) {
	}

	c.icc.CacheCtrl.SetBits(max78000.ICCCtrlEnable)
	for !c.icc.CacheCtrl.HasBits(max78000.ICCCtrlReady) {
	}
}

// flushLineBuffer flushes the instruction cache through the GCR and then
// evicts the flash line-fill buffer.  The fill buffer can hold prefetched
// data from a page that was just erased or written, and no flush command
// reaches it; only actual read cycles do.  So after the GCR flush completes
// we issue two throwaway aligned reads, one in each of the first two flash
// pages.  The reads go through the mmio window, which is volatile on
// hardware, so they cannot be elided.
//
// This runs after every write/erase, before the cache comes back.
func (c *Controller) flushLineBuffer() {
	c.gcr.Sysctrl.SetBits(max78000.GCRSysctrlICC0Flush)
	for c.gcr.Sysctrl.HasBits(max78000.GCRSysctrlICC0Flush) {
	}

	_ = c.mem.Read32(FlashMemBase)
	_ = c.mem.Read32(FlashMemBase + FlashPageSize)
}
