// Package max78000 declares the register surfaces of the MAX78000 on-chip
// peripherals this tree drives: the flash controller (FLC), the instruction
// cache controller (ICC0), and the global control register block (GCR).
//
// The blocks are plain structs of mmio.Reg32 accessors.  On the chip they
// are placed over the real register addresses; the host tests hand the same
// structs registers backed by the simulated controller.
package max78000

import "tenacity/hardware/mmio"

// Flash array geometry.
const (
	FlashMemBase   uint32 = 0x1000_0000 // first byte of the flash array
	FlashMemSize   uint32 = 0x0008_0000 // 512 KiB
	FlashPageSize  uint32 = 0x2000      // erase granularity, 8 KiB
	FlashWordBytes uint32 = 16          // program granularity, one 128-bit word
)

// FLC is the flash controller register block.
type FLC struct {
	Addr   mmio.Reg32    // 0x00 target address for write/erase
	Clkdiv mmio.Reg32    // 0x04 peripheral clock divisor
	Ctrl   mmio.Reg32    // 0x08 control/status
	Intr   mmio.Reg32    // 0x24 interrupt flags
	Data   [4]mmio.Reg32 // 0x30..0x3C the four 32-bit write lanes
}

// ICC0 is the instruction cache controller register block.
type ICC0 struct {
	CacheCtrl  mmio.Reg32 // 0x100 enable + ready
	Invalidate mmio.Reg32 // 0x700 write any value to invalidate all
}

// GCR is the global control register block.  Shared with every other
// peripheral on the chip; this tree only touches the bits named below.
type GCR struct {
	Sysctrl  mmio.Reg32 // 0x00 system control, has the icc0 flush bit
	Rst0     mmio.Reg32 // 0x04 peripheral reset
	Pclkdis0 mmio.Reg32 // 0x24 peripheral clock disable
}

// FLC_CTRL fields
const (
	FLCCtrlWrite         = 1 << 0    // start word write, clears when complete
	FLCCtrlMassErase     = 1 << 1    // start mass erase (unused here)
	FLCCtrlPageErase     = 1 << 2    // start page erase, clears when complete
	FLCCtrlEraseCodeMask = 0xFF << 8 // erase operation select
	FLCCtrlEraseCodePage = 0x55 << 8 // erase_code value for page erase
	FLCCtrlPending       = 1 << 24   // an operation is in flight
	FLCCtrlUnlockMask    = 0xF << 28 // write protection field
	FLCCtrlUnlockValue   = 0x2 << 28 // the only value that unlocks
)

// FLC_CLKDIV fields
const (
	FLCClkdivMask = 0xFF // divisor, sys_clk_freq / 1 MHz
)

// FLC_INTR fields
const (
	FLCIntrDone       = 1 << 0 // operation complete
	FLCIntrAccessFail = 1 << 1 // write/erase attempted while locked or out of range
)

// ICC0_CACHE_CTRL fields
const (
	ICCCtrlEnable = 1 << 0
	ICCCtrlReady  = 1 << 16
)

// GCR_SYSCTRL fields
const (
	GCRSysctrlICC0Flush = 1 << 6 // flush the instruction cache, clears when done
)

// GCR_RST0 fields
const (
	GCRRst0FLC = 1 << 11
)

// GCR_PCLKDIS0 fields
const (
	GCRPclkdis0FLC = 1 << 3
)

// Peripherals is the set of register blocks this HAL owns.
type Peripherals struct {
	FLC  FLC
	ICC0 ICC0
	GCR  GCR
}
