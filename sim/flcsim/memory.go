package flcsim

import "tenacity/hardware/max78000"

// Read32 models a bus read of the flash array.  Reads of the first word of
// either of the first two pages are counted separately: those are the
// line-fill eviction reads the cache guard issues, and tests assert they
// happened.
func (d *Device) Read32(addr uint32) uint32 {
	if addr == max78000.FlashMemBase || addr == max78000.FlashMemBase+max78000.FlashPageSize {
		d.fillReads++
	}
	off := addr - max78000.FlashMemBase
	return uint32(d.cells[off]) | uint32(d.cells[off+1])<<8 |
		uint32(d.cells[off+2])<<16 | uint32(d.cells[off+3])<<24
}

func (d *Device) Read8(addr uint32) uint8 {
	return d.cells[addr-max78000.FlashMemBase]
}

// Peek copies raw cell contents out for assertions, without going through
// the bus model.
func (d *Device) Peek(addr uint32, buf []byte) {
	copy(buf, d.cells[addr-max78000.FlashMemBase:])
}

// WordWrites is the number of 128-bit program operations performed.
func (d *Device) WordWrites() int {
	return d.wordWrites
}

// PageErases is the number of page erase operations performed.
func (d *Device) PageErases() int {
	return d.pageErases
}

// FillReads is the number of line-fill eviction reads seen (reads of the
// first word of page 0 or page 1).
func (d *Device) FillReads() int {
	return d.fillReads
}

// Violations is the number of byte programs that asked for a 0 bit to
// become 1.
func (d *Device) Violations() int {
	return d.violations
}

// AccessFailed reports whether the controller has flagged a write or erase
// attempted while locked or out of range.
func (d *Device) AccessFailed() bool {
	return d.flcIntr.val&max78000.FLCIntrAccessFail != 0
}

// Unlocked reports whether write protection is currently off.  After any
// engine operation returns this must be false.
func (d *Device) Unlocked() bool {
	return d.flcCtrl.val&max78000.FLCCtrlUnlockMask == max78000.FLCCtrlUnlockValue
}

// CacheEnabled reports whether the instruction cache is on.
func (d *Device) CacheEnabled() bool {
	return d.iccCtrl.val&max78000.ICCCtrlEnable != 0
}
