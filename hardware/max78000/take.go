package max78000

// PeripheralsError is returned when the register surface cannot be handed out.
type PeripheralsError struct {
	msg string
}

func (p *PeripheralsError) Error() string {
	return p.msg
}

var ErrPeripheralsTaken = &PeripheralsError{msg: "max78000 peripherals already taken"}

var taken bool

// TakePeripherals hands out the chip's register blocks exactly once.  A
// second call fails: the flash controller protocol is not reentrant, and two
// live handles could interleave unlock/lock transitions and leave the chip
// in a state neither caller expects.  There is no way to give the blocks
// back.
func TakePeripherals() (*Peripherals, error) {
	if taken {
		return nil, ErrPeripheralsTaken
	}
	taken = true
	return newPeripherals(), nil
}
