package flc

import "tenacity/hardware/max78000"

// FlashWord is the controller's atomic program granule: four 32-bit
// little-endian lanes, sixteen bytes.
type FlashWord [4]uint32

// wordFromBytes packs 16 bytes into the four little-endian lanes.
func wordFromBytes(b []byte) FlashWord {
	var w FlashWord
	for i := 0; i < 4; i++ {
		w[i] = uint32(b[i*4]) | uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
	}
	return w
}

// WriteWord programs one 128-bit flash word.  address must be 16-byte
// aligned and the whole word must be inside flash.  The word must be in the
// erased state: flash cells only go from 1 to 0 under program, and the
// controller will not put back bits this write leaves out.
//
// Inside the guard the sequence is: load address, load the four lanes, set
// the write bit, busy-wait for it to clear.  A write bit that never clears
// hangs forever; see waitUntilReady for why.
func (c *Controller) WriteWord(address uint32, data FlashWord, sysClkFreq uint32) error {
	if !CheckBounds(address, address+FlashWordBytes) {
		return c.fail(ErrPtrBounds)
	}
	if address%FlashWordBytes != 0 {
		return c.fail(ErrNotAligned128)
	}

	return c.writeGuard(sysClkFreq, func() {
		c.flc.Addr.Set(address)
		c.flc.Data[0].Set(data[0])
		c.flc.Data[1].Set(data[1])
		c.flc.Data[2].Set(data[2])
		c.flc.Data[3].Set(data[3])

		c.flc.Ctrl.SetBits(max78000.FLCCtrlWrite)
		for c.flc.Ctrl.HasBits(max78000.FLCCtrlWrite) {
		}
	})
}

// Write programs an arbitrary byte range.  The controller can only program
// whole 16-byte words, so an unaligned head or short tail is handled by
// reading the containing word, splicing the new bytes in, and writing the
// merged word back; the middle goes down as full aligned words.  Bytes the
// caller does not supply keep their current value.
func (c *Controller) Write(address uint32, data []byte, sysClkFreq uint32) error {
	if !CheckBounds(address, address+uint32(len(data))) {
		return c.fail(ErrPtrBounds)
	}

	head := 0
	if address%FlashWordBytes != 0 {
		head = int(FlashWordBytes - address%FlashWordBytes)
		if head > len(data) {
			head = len(data)
		}
		if err := c.writeWordMerged(address, data[:head], sysClkFreq); err != nil {
			return err
		}
		address += uint32(head)
	}

	rest := data[head:]
	for len(rest) >= int(FlashWordBytes) {
		if err := c.WriteWord(address, wordFromBytes(rest[:FlashWordBytes]), sysClkFreq); err != nil {
			return err
		}
		address += FlashWordBytes
		rest = rest[FlashWordBytes:]
	}

	if len(rest) > 0 {
		return c.writeWordMerged(address, rest, sysClkFreq)
	}
	return nil
}

// writeWordMerged programs fewer than 16 bytes by merging them into the
// current contents of the containing aligned word.  data must fit within
// one flash word.
func (c *Controller) writeWordMerged(address uint32, data []byte, sysClkFreq uint32) error {
	aligned := address &^ (FlashWordBytes - 1)
	idx := int(address & (FlashWordBytes - 1))

	var current [16]byte
	if err := c.ReadBytes(aligned, current[:]); err != nil {
		return err
	}
	copy(current[idx:idx+len(data)], data)

	return c.WriteWord(aligned, wordFromBytes(current[:]), sysClkFreq)
}
