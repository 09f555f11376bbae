//go:build tinygo && baremetal

package mmio

import (
	"unsafe"

	"github.com/tinygo-org/tinygo/src/runtime/volatile"
)

// hardwareReg is a Reg32 over a real memory mapped register.
type hardwareReg struct {
	r *volatile.Register32
}

// RegAt returns the register at the given physical address.
func RegAt(addr uintptr) Reg32 {
	return &hardwareReg{r: (*volatile.Register32)(unsafe.Pointer(addr))}
}

func (h *hardwareReg) Get() uint32 {
	return h.r.Get()
}

func (h *hardwareReg) Set(v uint32) {
	h.r.Set(v)
}

func (h *hardwareReg) SetBits(mask uint32) {
	h.r.SetBits(mask)
}

func (h *hardwareReg) ClearBits(mask uint32) {
	h.r.ClearBits(mask)
}

func (h *hardwareReg) HasBits(mask uint32) bool {
	return h.r.HasBits(mask)
}

// hardwareMemory reads straight off the bus.
type hardwareMemory struct{}

// BusMemory returns a Memory whose reads are volatile loads from the
// physical address space.
func BusMemory() Memory {
	return hardwareMemory{}
}

func (hardwareMemory) Read32(addr uint32) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(addr))).Get()
}

func (hardwareMemory) Read8(addr uint32) uint8 {
	return (*volatile.Register8)(unsafe.Pointer(uintptr(addr))).Get()
}
