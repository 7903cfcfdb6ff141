package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(7)
	b := New(7)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 16; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Less(t, same, 16)
}

func TestBernoulliEdges(t *testing.T) {
	src := NewCounter(New(3))
	for i := 0; i < 50; i++ {
		assert.False(t, src.Bernoulli(0))
		assert.True(t, src.Bernoulli(1))
		assert.False(t, src.Bernoulli(-1))
	}
	assert.Equal(t, 150, src.BernoulliDraws())
}

func TestBernoulliFrequency(t *testing.T) {
	src := New(11)
	const n = 20000
	hits := 0
	for i := 0; i < n; i++ {
		if src.Bernoulli(0.25) {
			hits++
		}
	}
	assert.InDelta(t, 0.25, float64(hits)/n, 0.015)
}

func TestUint64nStaysInRange(t *testing.T) {
	src := New(5)
	for _, n := range []uint64{1, 2, 3, 7, 10, 1 << 40, 1<<63 + 1} {
		for i := 0; i < 200; i++ {
			assert.Less(t, Uint64n(src, n), n)
		}
	}
	assert.Equal(t, uint64(0), Uint64n(src, 0))
}

func TestIntnCoversRange(t *testing.T) {
	src := New(9)
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := Intn(src, 5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 5)
	assert.Equal(t, 0, Intn(src, 0))
	assert.Equal(t, 0, Intn(src, -3))
}

func TestFloat64Range(t *testing.T) {
	src := New(13)
	for i := 0; i < 1000; i++ {
		f := Float64(src)
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestLCG48MatchesLrand48(t *testing.T) {
	tests := []struct {
		name string
		seed uint64
		want []uint32
	}{
		{"seed 0", 0, []uint32{366850414, 1610402240, 206956554}},
		{"seed 42", 42, []uint32{1598855263, 735945821, 238553827}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewLCG48(tt.seed)
			for _, want := range tt.want {
				assert.Equal(t, want, g.Next31())
			}
		})
	}
}

func TestLCG48Source(t *testing.T) {
	var src Source = NewLCG48(1)
	a := src.Uint64()
	b := NewLCG48(1).Uint64()
	assert.Equal(t, a, b)
	assert.False(t, src.Bernoulli(0))
	assert.True(t, src.Bernoulli(1))
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		generator string
		want      Source
	}{
		{"", New(9)},
		{GeneratorPCG, New(9)},
		{GeneratorLCG48, NewLCG48(9)},
	}

	for _, tt := range tests {
		t.Run(tt.generator, func(t *testing.T) {
			src, err := NewSource(tt.generator, 9)
			require.NoError(t, err)
			for i := 0; i < 10; i++ {
				require.Equal(t, tt.want.Uint64(), src.Uint64())
			}
		})
	}

	_, err := NewSource("mt19937", 9)
	assert.EqualError(t, err, `unknown generator "mt19937" (supported: pcg, lcg48)`)
}

func TestCounterCountsDraws(t *testing.T) {
	c := NewCounter(New(1))
	c.Uint64()
	c.Uint64()
	c.Bernoulli(0.5)
	assert.Equal(t, 3, c.Draws())
	assert.Equal(t, 1, c.BernoulliDraws())
}
