package flcsim

// reg is a simulated 32-bit register.  Device behavior runs from the write
// hook: the hook sees the old and proposed values and returns what actually
// lands in the register, which is how self-clearing start bits and
// synchronous completion are modeled.
type reg struct {
	val     uint32
	onWrite func(old, proposed uint32) uint32
}

func (r *reg) Get() uint32 {
	return r.val
}

func (r *reg) Set(v uint32) {
	if r.onWrite != nil {
		v = r.onWrite(r.val, v)
	}
	r.val = v
}

func (r *reg) SetBits(mask uint32) {
	r.Set(r.val | mask)
}

func (r *reg) ClearBits(mask uint32) {
	r.Set(r.val &^ mask)
}

func (r *reg) HasBits(mask uint32) bool {
	return r.val&mask != 0
}
