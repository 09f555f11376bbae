package anticipation

import (
	"tenacity/drivers/flc"
	"tenacity/drivers/oscillator"
	"tenacity/lib/trust"
)

// flashBuster is the interface for writing a received image into flash.
// The protocol layer does not care whether the bytes land in real flash or
// a test double, only that a failed write or erase is reported so the line
// can be refused.
type flashBuster interface {
	WriteBytes(addr uint32, data []byte) bool
	ErasePage(addr uint32) bool
	SetBaseAddr(addr uint32)
	SetEntryPoint(addr uint32)
	BaseAddress() uint32
	EntryPoint() uint32
	EntryPointIsSet() bool
}

// fakeFlashBuster is for testing the protocol walk without a flash part.
type fakeFlashBuster struct {
	values     map[uint32]byte
	erased     []uint32
	baseAdd    uint32
	entryPoint uint32
	entrySet   bool
	failWrites bool
}

func newFakeFlashBuster() *fakeFlashBuster {
	return &fakeFlashBuster{values: make(map[uint32]byte)}
}

func (f *fakeFlashBuster) WriteBytes(addr uint32, data []byte) bool {
	if f.failWrites {
		return false
	}
	for i, b := range data {
		f.values[addr+uint32(i)] = b
	}
	return true
}

func (f *fakeFlashBuster) ErasePage(addr uint32) bool {
	f.erased = append(f.erased, addr)
	return true
}

func (f *fakeFlashBuster) SetBaseAddr(addr uint32) {
	f.baseAdd = addr
}

func (f *fakeFlashBuster) SetEntryPoint(addr uint32) {
	f.entryPoint = addr
	f.entrySet = true
}

func (f *fakeFlashBuster) BaseAddress() uint32 {
	return f.baseAdd
}

func (f *fakeFlashBuster) EntryPoint() uint32 {
	return f.entryPoint
}

func (f *fakeFlashBuster) EntryPointIsSet() bool {
	return f.entrySet
}

// FlcBuster commits received lines through the flash engine.  Data lines
// become merge-capable writes, so images do not have to be word aligned on
// the wire; erase records map straight onto page erases.
type FlcBuster struct {
	ctrl       *flc.Controller
	clk        oscillator.SystemClock
	baseAdd    uint32
	entryPoint uint32
	entrySet   bool
}

func NewFlcBuster(ctrl *flc.Controller, clk oscillator.SystemClock) *FlcBuster {
	return &FlcBuster{ctrl: ctrl, clk: clk}
}

func (f *FlcBuster) WriteBytes(addr uint32, data []byte) bool {
	if err := f.ctrl.Write(addr, data, f.clk.EffectiveFreq()); err != nil {
		trust.Errorf("write of %d bytes at %08x refused: %v", len(data), addr, err)
		return false
	}
	return true
}

func (f *FlcBuster) ErasePage(addr uint32) bool {
	if err := f.ctrl.PageErase(addr, f.clk.EffectiveFreq()); err != nil {
		trust.Errorf("page erase at %08x refused: %v", addr, err)
		return false
	}
	return true
}

func (f *FlcBuster) SetBaseAddr(addr uint32) {
	f.baseAdd = addr
}

func (f *FlcBuster) SetEntryPoint(addr uint32) {
	f.entryPoint = addr
	f.entrySet = true
}

func (f *FlcBuster) BaseAddress() uint32 {
	return f.baseAdd
}

func (f *FlcBuster) EntryPoint() uint32 {
	return f.entryPoint
}

func (f *FlcBuster) EntryPointIsSet() bool {
	return f.entrySet
}
