//go:build tinygo && baremetal

package halt

import "device/arm"

// Forever never returns.  The body is a run of unconditional branches that
// all target the same label: an attacker glitching the clock or supply can
// skip one instruction, but the skipped-to instruction is another branch
// back to the same spot.  A plain single-branch loop would be a one
// instruction target.
//
// The linker script pins this package's text into .ramfuncs alongside the
// flash primitives.  While a program or erase is in flight, reads of the
// flash array are unreliable, and that includes instruction fetches of the
// halt target itself.
//
//go:section .ramfuncs
func Forever() {
	for {
		arm.Asm(`
		2:
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
			b 2b
		`)
	}
}
