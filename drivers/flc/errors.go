package flc

// FlashError is the typed failure surface of the recoverable posture.
// Under the hardened posture none of these are ever returned; the engine
// halts instead.
type FlashError int32

const (
	ErrNotAligned128 FlashError = -1 // write target is not 16-byte aligned
	ErrNotAligned32  FlashError = -2 // read target is not 4-byte aligned
	ErrPtrBounds     FlashError = -3 // address range is outside the flash array
	ErrBadClock      FlashError = -4 // sys_clk_freq is not a multiple of 1 MHz
	ErrPowerGated    FlashError = -5 // FLC clock domain has not been enabled
)

func (e FlashError) Error() string {
	switch e {
	case ErrNotAligned128:
		return "flc: address not 128-bit aligned"
	case ErrNotAligned32:
		return "flc: address not 32-bit aligned"
	case ErrPtrBounds:
		return "flc: address range outside flash memory"
	case ErrBadClock:
		return "flc: system clock frequency not a multiple of 1MHz"
	case ErrPowerGated:
		return "flc: flash controller clock domain is gated"
	}
	return "flc: unknown error"
}
