//go:build tinygo && baremetal

package max78000

import "tenacity/hardware/mmio"

const flcBase = 0x40029000
const icc0Base = 0x4002A000
const gcrBase = 0x40000000

func newPeripherals() *Peripherals {
	return &Peripherals{
		FLC: FLC{
			Addr:   mmio.RegAt(flcBase + 0x00),
			Clkdiv: mmio.RegAt(flcBase + 0x04),
			Ctrl:   mmio.RegAt(flcBase + 0x08),
			Intr:   mmio.RegAt(flcBase + 0x24),
			Data: [4]mmio.Reg32{
				mmio.RegAt(flcBase + 0x30),
				mmio.RegAt(flcBase + 0x34),
				mmio.RegAt(flcBase + 0x38),
				mmio.RegAt(flcBase + 0x3C),
			},
		},
		ICC0: ICC0{
			CacheCtrl:  mmio.RegAt(icc0Base + 0x100),
			Invalidate: mmio.RegAt(icc0Base + 0x700),
		},
		GCR: GCR{
			Sysctrl:  mmio.RegAt(gcrBase + 0x00),
			Rst0:     mmio.RegAt(gcrBase + 0x04),
			Pclkdis0: mmio.RegAt(gcrBase + 0x24),
		},
	}
}

// StealPeripherals bypasses the one-shot guard.  It exists for exactly one
// caller: the RAM-resident flash primitives, which are entered through their
// exported symbols and cannot thread a handle through that boundary.  The
// contract from the exported entry points is that the caller already holds
// the peripherals.
func StealPeripherals() *Peripherals {
	return newPeripherals()
}
