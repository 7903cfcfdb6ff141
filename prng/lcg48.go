package prng

const (
	lcgA    uint64 = 0x5DEECE66D
	lcgC    uint64 = 0xB
	lcgMask uint64 = (1 << 48) - 1
)

// LCG48 reproduces the srand48/lrand48 recurrence, which lets a run share a
// stream with generators that seed libc's 48-bit LCG.
type LCG48 struct {
	state uint64
}

// NewLCG48 seeds the generator the way srand48 does.
func NewLCG48(seed uint64) *LCG48 {
	return &LCG48{state: ((seed << 16) + 0x330E) & lcgMask}
}

// Next31 advances the recurrence and returns the 31-bit lrand48 value.
func (g *LCG48) Next31() uint32 {
	g.state = (lcgA*g.state + lcgC) & lcgMask
	return uint32(g.state >> 17)
}

// Uint64 assembles 64 bits from three consecutive 31-bit outputs.
func (g *LCG48) Uint64() uint64 {
	a := uint64(g.Next31())
	b := uint64(g.Next31())
	c := uint64(g.Next31())
	return a<<33 | b<<2 | c>>29
}

// Bernoulli compares a single 31-bit output against p.
func (g *LCG48) Bernoulli(p float64) bool {
	v := float64(g.Next31()) / (1 << 31)
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return v < p
}
