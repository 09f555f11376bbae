package flc

import "tenacity/hardware/max78000"

// The flash geometry, re-exported from the chip description for callers of
// this package.
const (
	FlashMemBase   = max78000.FlashMemBase
	FlashMemSize   = max78000.FlashMemSize
	FlashPageSize  = max78000.FlashPageSize
	FlashWordBytes = max78000.FlashWordBytes
)

// CheckBounds reports whether the half-open byte range [start, end) lies
// entirely within the flash array.  Pure; no register traffic.  Every read,
// write, and erase goes through this first, and a false here is never
// something to negotiate with: an out-of-range target is indistinguishable
// from an address that was corrupted under attack.
func CheckBounds(start, end uint32) bool {
	return FlashMemBase <= start && start < FlashMemBase+FlashMemSize &&
		FlashMemBase < end && end <= FlashMemBase+FlashMemSize &&
		start < end
}
