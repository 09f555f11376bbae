// Package mmio is the register access layer shared by every peripheral
// driver in this tree.  Drivers are written against these two interfaces so
// that the exact same protocol code runs over the real memory mapped
// registers on the chip and over the simulated controller used by the host
// tests.
package mmio

// Reg32 is one 32-bit control/status register.
type Reg32 interface {
	Get() uint32
	Set(v uint32)
	SetBits(mask uint32)
	ClearBits(mask uint32)
	HasBits(mask uint32) bool
}

// Memory is a window onto a byte addressable memory array, such as the
// flash array itself.  Reads through it are real bus cycles, never cached
// or elided, which matters because the flash line-fill buffer is only
// evicted by actual read traffic.
type Memory interface {
	// Read32 returns the little-endian word at addr.  addr must be
	// 4-byte aligned.
	Read32(addr uint32) uint32
	// Read8 returns the byte at addr.
	Read8(addr uint32) uint8
}
