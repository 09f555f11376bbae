//go:build tinygo && baremetal

package flcram

import (
	"tenacity/boot/ramload"
	"tenacity/drivers/flc"
	"tenacity/hardware/max78000"
	"tenacity/hardware/mmio"
	"tenacity/lib/halt"
)

// controller builds the hardened engine over the stolen register surface.
// Construction halts if the FLC clock domain is gated.
func controller() *flc.Controller {
	p := max78000.StealPeripherals()
	c, _ := flc.New(&p.FLC, &p.ICC0, &p.GCR, mmio.BusMemory(), flc.Hardened)
	return c
}

// Read32 reads the little-endian word at address.  Before the RAM section
// is staged the primitive is not runnable; it answers with the poison value
// so the condition shows up in bring-up instead of executing out of a
// half-copied section.
//
//export flc_read32_primitive
func Read32(address uint32) uint32 {
	if !ramload.Loaded() {
		return ramload.Poison
	}
	v, _ := controller().Read32(address)
	return v
}

// Write128 programs one 128-bit flash word at the (16-byte aligned)
// address.  sysClkFreq must be the effective system clock frequency and a
// multiple of 1 MHz; the word at address must be erased.
//
//export flc_write128_primitive
func Write128(address uint32, data *[4]uint32, sysClkFreq uint32) {
	if !ramload.Loaded() {
		halt.Forever()
	}
	_ = controller().WriteWord(address, flc.FlashWord(*data), sysClkFreq)
}

// PageErase erases the page containing address.
//
//export flc_page_erase_primitive
func PageErase(address uint32, sysClkFreq uint32) {
	if !ramload.Loaded() {
		halt.Forever()
	}
	_ = controller().PageErase(address, sysClkFreq)
}
