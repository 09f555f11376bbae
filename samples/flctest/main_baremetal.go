//go:build tinygo && baremetal

// flctest exercises the flash engine on real silicon: word writes, multi-word
// writes, and unaligned writes into the last data page, each preceded by a
// page erase and followed by a readback.  Results go to the serial console.
package main

import (
	"tenacity/drivers/flc"
	"tenacity/drivers/oscillator"
	"tenacity/drivers/power"
	"tenacity/hardware/max78000"
	"tenacity/hardware/mmio"
)

// scratchPage is the last page of the flash array, safely above any code
// this sample loads with.
const scratchPage = max78000.FlashMemBase + max78000.FlashMemSize - max78000.FlashPageSize

var failures int

func main() {
	print("starting flash tests...\n")

	p, err := max78000.TakePeripherals()
	if err != nil {
		print("!unable to take peripherals: ", err.Error(), "\n")
		return
	}
	pw := power.New(&p.GCR)
	pw.EnableFlashClock()

	ctrl, err := flc.New(&p.FLC, &p.ICC0, &p.GCR, mmio.BusMemory(), flc.Recoverable)
	if err != nil {
		print("!unable to build flash engine: ", err.Error(), "\n")
		return
	}
	clk := oscillator.IPO()

	print("test flash write...\n")
	flashWrite(ctrl, clk)

	print("test flash write large...\n")
	flashWriteSized(ctrl, clk, scratchPage+0xF00, 20)

	print("test flash write extra large...\n")
	flashWriteSized(ctrl, clk, scratchPage+0xF00, 100)

	print("test flash write unaligned...\n")
	flashWriteSized(ctrl, clk, scratchPage+0xF0A, 10)

	if failures == 0 {
		print("flash tests complete, all passed\n")
	} else {
		print("!flash tests complete, ", failures, " failed\n")
	}
}

// flashWrite programs a single 32-bit value and reads it back.
func flashWrite(ctrl *flc.Controller, clk oscillator.SystemClock) {
	addr := uint32(scratchPage + 0xFF0)
	val := uint32(0xCAFE_BABE)

	if err := ctrl.PageErase(addr, clk.EffectiveFreq()); err != nil {
		fail("page erase", err)
		return
	}
	buf := []byte{byte(val), byte(val >> 8), byte(val >> 16), byte(val >> 24)}
	if err := ctrl.Write(addr, buf, clk.EffectiveFreq()); err != nil {
		fail("write", err)
		return
	}
	got, err := ctrl.Read32(addr)
	if err != nil {
		fail("read32", err)
		return
	}
	if got != val {
		print("!readback mismatch: wanted ", val, " got ", got, "\n")
		failures++
	}
}

// flashWriteSized erases the scratch page, writes size bytes at addr, and
// verifies the readback matches byte for byte.
func flashWriteSized(ctrl *flc.Controller, clk oscillator.SystemClock, addr uint32, size int) {
	data := make([]byte, size)
	for i := range data {
		data[i] = 'A'
	}

	if err := ctrl.PageErase(addr, clk.EffectiveFreq()); err != nil {
		fail("page erase", err)
		return
	}
	if err := ctrl.Write(addr, data, clk.EffectiveFreq()); err != nil {
		fail("write", err)
		return
	}
	read := make([]byte, size)
	if err := ctrl.ReadBytes(addr, read); err != nil {
		fail("read bytes", err)
		return
	}
	for i := range data {
		if read[i] != data[i] {
			print("!readback mismatch at byte ", i, "\n")
			failures++
			return
		}
	}
}

func fail(what string, err error) {
	print("!", what, " failed: ", err.Error(), "\n")
	failures++
}
