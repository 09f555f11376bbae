//go:build tinygo && baremetal

package ramload

import (
	"unsafe"

	"tenacity/lib/halt"
)

// Section boundaries provided by the linker script.  The .ramfuncs section
// runs at __ramfuncs_start but is stored in flash at __ramfuncs_load.

//go:extern __ramfuncs_start
var ramfuncsStart [0]byte

//go:extern __ramfuncs_end
var ramfuncsEnd [0]byte

//go:extern __ramfuncs_load
var ramfuncsLoad [0]byte

// Load copies the RAM-resident section from its flash load address to its
// RAM run address and arms the marker.  Runs once at startup, before
// anything can reach the flash primitives.  A corrupted copy is not
// something to continue past.
func Load() {
	size := uintptr(unsafe.Pointer(&ramfuncsEnd)) - uintptr(unsafe.Pointer(&ramfuncsStart))
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&ramfuncsStart)), size)
	src := unsafe.Slice((*byte)(unsafe.Pointer(&ramfuncsLoad)), size)

	if !copySection(dst, src) {
		halt.Forever()
	}
	marker = readyMagic
}
