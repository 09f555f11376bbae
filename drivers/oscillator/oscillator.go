// Package oscillator is the read-only system clock collaborator.  The flash
// controller needs the effective core frequency to derive its 1 MHz internal
// clock; it gets that number from here and from nowhere else.
package oscillator

// IPOFreq is the internal primary oscillator, the usual boot clock source.
const IPOFreq = 100_000_000

// ISOFreq is the internal secondary oscillator.
const ISOFreq = 60_000_000

// IBROFreq is the internal baud rate oscillator.
const IBROFreq = 7_372_800

// SystemClock reports which source the core is running from and how it is
// divided.  It is a snapshot: whoever reconfigures the clock tree is
// responsible for handing out a fresh one.
type SystemClock struct {
	freq uint32
	div  uint32
}

// NewSystemClock builds a snapshot of the current source frequency and
// divider.  A divider of zero is meaningless and is treated as one.
func NewSystemClock(freq uint32, div uint32) SystemClock {
	if div == 0 {
		div = 1
	}
	return SystemClock{freq: freq, div: div}
}

// IPO returns the system clock as it stands after reset: the internal
// primary oscillator, undivided.
func IPO() SystemClock {
	return NewSystemClock(IPOFreq, 1)
}

// Freq returns the raw source frequency in Hz.
func (s SystemClock) Freq() uint32 {
	return s.freq
}

// Div returns the configured divider.
func (s SystemClock) Div() uint32 {
	return s.div
}

// EffectiveFreq is the frequency the core actually sees: source divided by
// divider.  This is the number the flash controller contract calls
// sys_clk_freq.
func (s SystemClock) EffectiveFreq() uint32 {
	return s.freq / s.div
}
