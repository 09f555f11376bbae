package flc

// Read32 returns the little-endian word at address.  address must be 4-byte
// aligned and inside flash.  This is the same primitive the RAM-resident
// entry point exposes: it lives in the pinned section so a halt discovered
// mid-read still lands on RAM-resident code.
func (c *Controller) Read32(address uint32) (uint32, error) {
	if address%4 != 0 {
		return 0, c.fail(ErrNotAligned32)
	}
	if !CheckBounds(address, address+4) {
		return 0, c.fail(ErrPtrBounds)
	}
	return c.mem.Read32(address), nil
}

// ReadBytes fills buf with the flash contents starting at address.  No
// alignment requirement; leading and trailing bytes are picked up with byte
// reads and the middle with word reads.
func (c *Controller) ReadBytes(address uint32, buf []byte) error {
	if !CheckBounds(address, address+uint32(len(buf))) {
		return c.fail(ErrPtrBounds)
	}

	n := 0
	for address%4 != 0 && n < len(buf) {
		buf[n] = c.mem.Read8(address)
		address++
		n++
	}
	for n+4 <= len(buf) {
		w := c.mem.Read32(address)
		buf[n] = byte(w)
		buf[n+1] = byte(w >> 8)
		buf[n+2] = byte(w >> 16)
		buf[n+3] = byte(w >> 24)
		address += 4
		n += 4
	}
	for n < len(buf) {
		buf[n] = c.mem.Read8(address)
		address++
		n++
	}
	return nil
}
