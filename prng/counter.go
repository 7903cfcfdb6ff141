package prng

// Counter wraps a Source and counts the draws taken from it.
type Counter struct {
	src       Source
	uniform   int
	bernoulli int
}

// NewCounter wraps src.
func NewCounter(src Source) *Counter {
	return &Counter{src: src}
}

// Uint64 forwards to the wrapped source.
func (c *Counter) Uint64() uint64 {
	c.uniform++
	return c.src.Uint64()
}

// Bernoulli forwards to the wrapped source.
func (c *Counter) Bernoulli(p float64) bool {
	c.bernoulli++
	return c.src.Bernoulli(p)
}

// Draws returns the total number of draws taken so far.
func (c *Counter) Draws() int {
	return c.uniform + c.bernoulli
}

// BernoulliDraws returns the number of biased boolean draws taken so far.
func (c *Counter) BernoulliDraws() int {
	return c.bernoulli
}
