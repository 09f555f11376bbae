// Package ramload stages the RAM-resident flash code.  The hardened flash
// primitives and the halt handler must execute from RAM: while a program or
// erase is in flight, instruction fetches from the flash array are
// unreliable, including a fetch of the halt target itself.  The linker
// keeps a load copy of that section in flash; Load moves it into its RAM
// run address at startup and arms a marker.  Until the marker is armed the
// entry points are not callable: the read primitive answers with Poison and
// the mutating primitives halt.
package ramload

// Poison is what the RAM-resident read primitive returns when it is called
// before Load has run.  It is not a value flash can plausibly hold after an
// erase (that would be all-ones) and tests key on it.
const Poison uint32 = 0xDEAD_D00D

// readyMagic arms the marker.  Anything else, including the zero a cold
// RAM word holds, means not loaded.
const readyMagic uint32 = 0x600D_C0DE

var marker uint32

// Loaded reports whether the RAM-resident section has been copied in.
func Loaded() bool {
	return marker == readyMagic
}

// copySection moves the section image and verifies the copy landed intact.
// A mismatch means the copy was corrupted in flight, and the caller must
// not arm the marker.
func copySection(dst, src []byte) bool {
	copy(dst, src)
	for i := range src {
		if dst[i] != src[i] {
			return false
		}
	}
	return true
}
