package flc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenacity/drivers/power"
	"tenacity/sim/flcsim"
)

const sysClk = uint32(100_000_000)

func newTestEngine(t *testing.T, posture Posture) (*flcsim.Device, *Controller) {
	t.Helper()
	dev := flcsim.New()
	power.New(&dev.GCR).EnableFlashClock()
	c, err := New(&dev.FLC, &dev.ICC0, &dev.GCR, dev, posture)
	require.NoError(t, err)
	return dev, c
}

// trapHalt replaces the hardened halt handler with a panic for the duration
// of the test, so a diverted precondition can be observed.
func trapHalt(t *testing.T) {
	t.Helper()
	old := fatal
	fatal = func() { panic("halted") }
	t.Cleanup(func() { fatal = old })
}

func TestCheckBounds(t *testing.T) {
	end := uint32(FlashMemBase + FlashMemSize)
	cases := []struct {
		name       string
		start, fin uint32
		ok         bool
	}{
		{"whole array", FlashMemBase, end, true},
		{"first byte", FlashMemBase, FlashMemBase + 1, true},
		{"last byte", end - 1, end, true},
		{"below flash", FlashMemBase - 4, FlashMemBase, false},
		{"straddles start", FlashMemBase - 1, FlashMemBase + 3, false},
		{"straddles end", end - 4, end + 4, false},
		{"past end", end, end + 4, false},
		{"empty range", FlashMemBase, FlashMemBase, false},
		{"inverted range", FlashMemBase + 8, FlashMemBase + 4, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, CheckBounds(tc.start, tc.fin))
		})
	}
}

func TestConstructionWhilePowerGated(t *testing.T) {
	dev := flcsim.New() //clock domain is gated out of reset
	_, err := New(&dev.FLC, &dev.ICC0, &dev.GCR, dev, Recoverable)
	assert.ErrorIs(t, err, ErrPowerGated)
}

func TestHardenedConstructionWhilePowerGatedHalts(t *testing.T) {
	trapHalt(t)
	dev := flcsim.New()
	assert.PanicsWithValue(t, "halted", func() {
		_, _ = New(&dev.FLC, &dev.ICC0, &dev.GCR, dev, Hardened)
	})
}

func TestClockNotMultipleOfMegahertz(t *testing.T) {
	dev, c := newTestEngine(t, Recoverable)
	err := c.PageErase(FlashMemBase, 1_500_000)
	assert.ErrorIs(t, err, ErrBadClock)

	// nothing ran: still locked, cache back on, no operations recorded
	assert.False(t, dev.Unlocked())
	assert.True(t, dev.CacheEnabled())
	assert.Zero(t, dev.PageErases())
}

func TestClockDivisorProgrammed(t *testing.T) {
	dev, c := newTestEngine(t, Recoverable)
	require.NoError(t, c.PageErase(FlashMemBase, 8_000_000))
	assert.Equal(t, uint32(8), dev.FLC.Clkdiv.Get()&0xFF)

	require.NoError(t, c.PageErase(FlashMemBase, sysClk))
	assert.Equal(t, uint32(100), dev.FLC.Clkdiv.Get()&0xFF)
}

func TestWriteWordRoundTrip(t *testing.T) {
	dev, c := newTestEngine(t, Recoverable)
	addr := uint32(FlashMemBase + FlashPageSize) //page 1, keeps page 0 all ones

	require.NoError(t, c.PageErase(addr, sysClk))
	w := FlashWord{0x0101_0101, 0x2323_2323, 0x4545_4545, 0x6767_6767}
	require.NoError(t, c.WriteWord(addr, w, sysClk))

	for lane := uint32(0); lane < 4; lane++ {
		got, err := c.Read32(addr + lane*4)
		require.NoError(t, err)
		assert.Equal(t, w[lane], got)
	}
	assert.Equal(t, 1, dev.WordWrites())
	assert.Zero(t, dev.Violations())
}

func TestWriteWordAlignment(t *testing.T) {
	_, c := newTestEngine(t, Recoverable)
	err := c.WriteWord(FlashMemBase+4, FlashWord{}, sysClk)
	assert.ErrorIs(t, err, ErrNotAligned128)
}

func TestWriteWordOutOfBounds(t *testing.T) {
	_, c := newTestEngine(t, Recoverable)
	last := uint32(FlashMemBase + FlashMemSize - FlashWordBytes)
	err := c.WriteWord(last+FlashWordBytes, FlashWord{}, sysClk)
	assert.ErrorIs(t, err, ErrPtrBounds)
}

func TestRead32Alignment(t *testing.T) {
	_, c := newTestEngine(t, Recoverable)
	_, err := c.Read32(FlashMemBase + 2)
	assert.ErrorIs(t, err, ErrNotAligned32)
}

func TestHardenedAlignmentHalts(t *testing.T) {
	trapHalt(t)
	_, c := newTestEngine(t, Hardened)
	assert.PanicsWithValue(t, "halted", func() {
		_ = c.WriteWord(FlashMemBase+4, FlashWord{}, sysClk)
	})
	assert.PanicsWithValue(t, "halted", func() {
		_, _ = c.Read32(FlashMemBase + 2)
	})
	assert.PanicsWithValue(t, "halted", func() {
		_ = c.PageErase(FlashMemBase, 999)
	})
}

// TestUnalignedWriteMerges writes 20 bytes starting 4 bytes into a flash
// word.  That is a 12 byte merge into the first word and an 8 byte merge
// into the second: exactly two programs, and every byte the caller did not
// supply keeps its erased value.
func TestUnalignedWriteMerges(t *testing.T) {
	dev, c := newTestEngine(t, Recoverable)
	base := uint32(FlashMemBase + 2*FlashPageSize)
	addr := base + 4

	require.NoError(t, c.PageErase(base, sysClk))
	erases := dev.PageErases()
	require.Equal(t, 1, erases)

	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(0x30 + i)
	}
	require.NoError(t, c.Write(addr, data, sysClk))
	assert.Equal(t, 2, dev.WordWrites())
	assert.Zero(t, dev.Violations())
	//three envelopes ran (erase + two word programs), each flushing the
	//line buffer with its two dummy reads
	assert.Equal(t, 6, dev.FillReads())

	got := make([]byte, 32)
	require.NoError(t, c.ReadBytes(base, got))
	for i := 0; i < 4; i++ {
		assert.EqualValues(t, 0xFF, got[i], "byte before the write should stay erased")
	}
	assert.Equal(t, data, got[4:24])
	for i := 24; i < 32; i++ {
		assert.EqualValues(t, 0xFF, got[i], "byte after the write should stay erased")
	}
}

func TestLargeAlignedWrite(t *testing.T) {
	dev, c := newTestEngine(t, Recoverable)
	base := uint32(FlashMemBase + 3*FlashPageSize)

	require.NoError(t, c.PageErase(base, sysClk))
	data := make([]byte, 100)
	for i := range data {
		data[i] = 'A'
	}
	require.NoError(t, c.Write(base, data, sysClk))
	//96 bytes as six full words plus one 4 byte merge
	assert.Equal(t, 7, dev.WordWrites())

	got := make([]byte, 100)
	require.NoError(t, c.ReadBytes(base, got))
	assert.Equal(t, data, got)
}

func TestReadBytesUnaligned(t *testing.T) {
	_, c := newTestEngine(t, Recoverable)
	base := uint32(FlashMemBase + 4*FlashPageSize)

	require.NoError(t, c.PageErase(base, sysClk))
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	require.NoError(t, c.Write(base+3, data, sysClk))

	got := make([]byte, 10)
	require.NoError(t, c.ReadBytes(base+3, got))
	assert.Equal(t, data, got)
}

func TestPageEraseIdempotent(t *testing.T) {
	dev, c := newTestEngine(t, Recoverable)
	base := uint32(FlashMemBase + 5*FlashPageSize)

	require.NoError(t, c.Write(base, []byte{0x00, 0x00, 0x00, 0x00}, sysClk))
	require.NoError(t, c.PageErase(base+123, sysClk)) //any address in the page
	require.NoError(t, c.PageErase(base, sysClk))
	assert.Equal(t, 2, dev.PageErases())

	got := make([]byte, FlashWordBytes)
	require.NoError(t, c.ReadBytes(base, got))
	for i, b := range got {
		assert.EqualValues(t, 0xFF, b, "byte %d should be erased", i)
	}
}

// TestGuardEnvelopeInvariants checks the register-level postconditions of
// any mutating operation: write protection re-engaged, instruction cache
// back on, and the two line-fill eviction reads issued per envelope.
func TestGuardEnvelopeInvariants(t *testing.T) {
	dev, c := newTestEngine(t, Recoverable)
	base := uint32(FlashMemBase + 6*FlashPageSize)

	require.NoError(t, c.PageErase(base, sysClk))
	require.NoError(t, c.WriteWord(base, FlashWord{1, 2, 3, 4}, sysClk))

	assert.False(t, dev.Unlocked())
	assert.True(t, dev.CacheEnabled())
	assert.False(t, dev.AccessFailed())
	//two envelopes ran, each ends with a read of page 0 and page 1
	assert.Equal(t, 4, dev.FillReads())
}

func TestOverwriteWithSameBitsIsClean(t *testing.T) {
	dev, c := newTestEngine(t, Recoverable)
	base := uint32(FlashMemBase + 7*FlashPageSize)

	require.NoError(t, c.PageErase(base, sysClk))
	w := FlashWord{0xDEAD_BEEF, 0, 0xFFFF_FFFF, 0x1234_5678}
	require.NoError(t, c.WriteWord(base, w, sysClk))
	//programming the identical word again asks no 0 bit to become 1
	require.NoError(t, c.WriteWord(base, w, sysClk))
	assert.Zero(t, dev.Violations())
}
