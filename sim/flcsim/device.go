// Package flcsim is an in-memory model of the MAX78000 flash controller,
// instruction cache controller, and the GCR bits the flash engine touches.
// The host tests drive the real engine in drivers/flc against this model.
//
// The flash cells behave like flash: erase sets a whole page to 0xFF, and
// program can only clear bits.  A program that asks for a 0 bit to become 1
// silently fails on silicon; here it is recorded so tests can assert the
// engine never asks.
package flcsim

import "tenacity/hardware/max78000"

// Device is the simulated chip.  FLC/ICC/GCR are register blocks wired to
// the device's behavior; Mem is the flash array window.
type Device struct {
	FLC  max78000.FLC
	ICC0 max78000.ICC0
	GCR  max78000.GCR

	cells []byte

	flcAddr   *reg
	flcClkdiv *reg
	flcCtrl   *reg
	flcIntr   *reg
	flcData   [4]*reg
	iccCtrl   *reg
	gcrPclk   *reg

	wordWrites int
	pageErases int
	fillReads  int
	violations int
}

// New returns a device with the whole array erased, the cache enabled, and
// the FLC clock domain gated, which is how the chip comes out of reset.
func New() *Device {
	d := &Device{cells: make([]byte, max78000.FlashMemSize)}
	for i := range d.cells {
		d.cells[i] = 0xFF
	}

	d.flcAddr = &reg{}
	d.flcClkdiv = &reg{}
	d.flcCtrl = &reg{onWrite: d.ctrlWrite}
	d.flcIntr = &reg{}
	for i := range d.flcData {
		d.flcData[i] = &reg{}
	}
	d.iccCtrl = &reg{val: max78000.ICCCtrlEnable | max78000.ICCCtrlReady, onWrite: cacheCtrlWrite}
	d.gcrPclk = &reg{val: max78000.GCRPclkdis0FLC}

	d.FLC = max78000.FLC{
		Addr:   d.flcAddr,
		Clkdiv: d.flcClkdiv,
		Ctrl:   d.flcCtrl,
		Intr:   d.flcIntr,
	}
	for i := range d.flcData {
		d.FLC.Data[i] = d.flcData[i]
	}
	d.ICC0 = max78000.ICC0{
		CacheCtrl:  d.iccCtrl,
		Invalidate: &reg{},
	}
	d.GCR = max78000.GCR{
		Sysctrl:  &reg{onWrite: sysctrlWrite},
		Rst0:     &reg{onWrite: rst0Write},
		Pclkdis0: d.gcrPclk,
	}
	return d
}

// ctrlWrite is the FLC_CTRL behavior.  Start bits complete synchronously:
// the operation happens (or faults) during the write and the start bit
// never reads back set.
func (d *Device) ctrlWrite(old, v uint32) uint32 {
	unlocked := v&max78000.FLCCtrlUnlockMask == max78000.FLCCtrlUnlockValue

	if v&max78000.FLCCtrlWrite != 0 && old&max78000.FLCCtrlWrite == 0 {
		if unlocked {
			d.programWord()
		} else {
			d.flcIntr.val |= max78000.FLCIntrAccessFail
		}
		v &^= max78000.FLCCtrlWrite
	}

	if v&max78000.FLCCtrlPageErase != 0 && old&max78000.FLCCtrlPageErase == 0 {
		if unlocked && v&max78000.FLCCtrlEraseCodeMask == max78000.FLCCtrlEraseCodePage {
			d.erasePage()
		} else {
			d.flcIntr.val |= max78000.FLCIntrAccessFail
		}
		v &^= max78000.FLCCtrlPageErase
	}

	return v
}

// programWord ANDs the four data lanes into the word containing FLC_ADDR.
// Requested 0 to 1 transitions cannot happen; they are counted instead.
func (d *Device) programWord() {
	addr := d.flcAddr.val &^ (max78000.FlashWordBytes - 1)
	if addr < max78000.FlashMemBase || addr+max78000.FlashWordBytes > max78000.FlashMemBase+max78000.FlashMemSize {
		d.flcIntr.val |= max78000.FLCIntrAccessFail
		return
	}
	off := addr - max78000.FlashMemBase

	for lane := 0; lane < 4; lane++ {
		w := d.flcData[lane].val
		for i := uint32(0); i < 4; i++ {
			b := byte(w >> (8 * i))
			cur := d.cells[off+uint32(lane)*4+i]
			if b&^cur != 0 {
				d.violations++
			}
			d.cells[off+uint32(lane)*4+i] = cur & b
		}
	}
	d.flcIntr.val |= max78000.FLCIntrDone
	d.wordWrites++
}

// erasePage sets every byte of the page containing FLC_ADDR to 0xFF.  The
// low 13 address bits are ignored, as on silicon.
func (d *Device) erasePage() {
	addr := d.flcAddr.val &^ (max78000.FlashPageSize - 1)
	if addr < max78000.FlashMemBase || addr+max78000.FlashPageSize > max78000.FlashMemBase+max78000.FlashMemSize {
		d.flcIntr.val |= max78000.FLCIntrAccessFail
		return
	}
	off := addr - max78000.FlashMemBase
	for i := uint32(0); i < max78000.FlashPageSize; i++ {
		d.cells[off+i] = 0xFF
	}
	d.flcIntr.val |= max78000.FLCIntrDone
	d.pageErases++
}

// cacheCtrlWrite keeps the ready bit set: the simulated cache invalidates
// and enables instantly.
func cacheCtrlWrite(_, v uint32) uint32 {
	return v | max78000.ICCCtrlReady
}

// sysctrlWrite completes an icc0 flush instantly.
func sysctrlWrite(_, v uint32) uint32 {
	return v &^ max78000.GCRSysctrlICC0Flush
}

// rst0Write releases peripheral resets instantly.
func rst0Write(_, v uint32) uint32 {
	return v &^ max78000.GCRRst0FLC
}
