// Package power drives the GCR bits that gate and reset the flash
// controller's clock domain.  The flash driver refuses to construct a handle
// while the domain is gated, so this package must run first.
package power

import "tenacity/hardware/max78000"

// Control owns the power/reset bits for the peripherals this HAL uses.
type Control struct {
	gcr *max78000.GCR
}

func New(gcr *max78000.GCR) *Control {
	return &Control{gcr: gcr}
}

// EnableFlashClock ungates the flash controller's peripheral clock.
func (c *Control) EnableFlashClock() {
	c.gcr.Pclkdis0.ClearBits(max78000.GCRPclkdis0FLC)
}

// DisableFlashClock gates the flash controller's peripheral clock.  Only
// sensible when no flash handle is live.
func (c *Control) DisableFlashClock() {
	c.gcr.Pclkdis0.SetBits(max78000.GCRPclkdis0FLC)
}

// ResetFlashController pulses the FLC reset line and waits for the
// controller to come out of reset.
func (c *Control) ResetFlashController() {
	c.gcr.Rst0.SetBits(max78000.GCRRst0FLC)
	for c.gcr.Rst0.HasBits(max78000.GCRRst0FLC) {
	}
}
