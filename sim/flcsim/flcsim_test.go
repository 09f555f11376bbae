package flcsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenacity/hardware/max78000"
)

func TestResetState(t *testing.T) {
	d := New()
	assert.True(t, d.CacheEnabled())
	assert.False(t, d.Unlocked())
	assert.True(t, d.GCR.Pclkdis0.HasBits(max78000.GCRPclkdis0FLC), "clock domain gated out of reset")

	buf := make([]byte, 16)
	d.Peek(max78000.FlashMemBase, buf)
	for _, b := range buf {
		require.EqualValues(t, 0xFF, b)
	}
}

func TestWriteWhileLockedFaults(t *testing.T) {
	d := New()
	d.FLC.Addr.Set(max78000.FlashMemBase)
	d.FLC.Data[0].Set(0x1234_5678)
	d.FLC.Ctrl.SetBits(max78000.FLCCtrlWrite)

	assert.True(t, d.AccessFailed())
	assert.Zero(t, d.WordWrites())
	assert.False(t, d.FLC.Ctrl.HasBits(max78000.FLCCtrlWrite), "start bit self-clears")
	assert.EqualValues(t, 0xFF, d.Read8(max78000.FlashMemBase), "cell untouched")
}

func TestEraseNeedsCodeAndUnlock(t *testing.T) {
	d := New()
	unlock := func() {
		v := d.FLC.Ctrl.Get()
		d.FLC.Ctrl.Set((v &^ max78000.FLCCtrlUnlockMask) | max78000.FLCCtrlUnlockValue)
	}

	// unlocked but no erase code
	unlock()
	d.FLC.Addr.Set(max78000.FlashMemBase)
	d.FLC.Ctrl.SetBits(max78000.FLCCtrlPageErase)
	assert.True(t, d.AccessFailed())
	assert.Zero(t, d.PageErases())

	// unlocked with the erase code
	d.FLC.Intr.ClearBits(max78000.FLCIntrAccessFail)
	unlock()
	v := d.FLC.Ctrl.Get()
	d.FLC.Ctrl.Set((v &^ max78000.FLCCtrlEraseCodeMask) | max78000.FLCCtrlEraseCodePage)
	d.FLC.Ctrl.SetBits(max78000.FLCCtrlPageErase)
	assert.False(t, d.AccessFailed())
	assert.Equal(t, 1, d.PageErases())
}

func TestProgramOnlyClearsBits(t *testing.T) {
	d := New()
	program := func(lane0 uint32) {
		v := d.FLC.Ctrl.Get()
		d.FLC.Ctrl.Set((v &^ max78000.FLCCtrlUnlockMask) | max78000.FLCCtrlUnlockValue)
		d.FLC.Addr.Set(max78000.FlashMemBase)
		d.FLC.Data[0].Set(lane0)
		for i := 1; i < 4; i++ {
			d.FLC.Data[i].Set(0xFFFF_FFFF)
		}
		d.FLC.Ctrl.SetBits(max78000.FLCCtrlWrite)
	}

	program(0x0000_00F0)
	assert.EqualValues(t, 0xF0, d.Read8(max78000.FlashMemBase))
	assert.Zero(t, d.Violations())

	// asking a programmed 0 to become 1 is recorded, and the cell stays 0
	program(0x0000_000F)
	assert.EqualValues(t, 0x00, d.Read8(max78000.FlashMemBase))
	assert.NotZero(t, d.Violations())
}

func TestFlushAndResetCompleteInstantly(t *testing.T) {
	d := New()
	d.GCR.Sysctrl.SetBits(max78000.GCRSysctrlICC0Flush)
	assert.False(t, d.GCR.Sysctrl.HasBits(max78000.GCRSysctrlICC0Flush))

	d.GCR.Rst0.SetBits(max78000.GCRRst0FLC)
	assert.False(t, d.GCR.Rst0.HasBits(max78000.GCRRst0FLC))
}

func TestFillReadAccounting(t *testing.T) {
	d := New()
	_ = d.Read32(max78000.FlashMemBase)
	_ = d.Read32(max78000.FlashMemBase + max78000.FlashPageSize)
	_ = d.Read32(max78000.FlashMemBase + 64) //ordinary read, not counted
	assert.Equal(t, 2, d.FillReads())
}
