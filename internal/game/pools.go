package game

import "math/rand"

// Pool is a checkout/release set of unique values scoped to one room. Not
// safe for concurrent use; a pool is owned by its room's actor goroutine.
type Pool struct {
	values []string
	pick   func(n int) int
}

// NewPool returns a pool that checks out values in random order. Used for
// the word pool, so every game sees a different word sequence.
func NewPool(values []string) *Pool {
	return &Pool{values: append([]string(nil), values...), pick: rand.Intn}
}

// NewOrderedPool returns a pool that always checks out the first available
// value. Used for the color palette, so earlier joiners get earlier colors.
func NewOrderedPool(values []string) *Pool {
	return &Pool{
		values: append([]string(nil), values...),
		pick:   func(int) int { return 0 },
	}
}

// Checkout removes and returns one value. A checked-out value is unavailable
// until released; words are simply never released, which gives the
// no-reuse-within-a-game guarantee.
func (p *Pool) Checkout() (string, error) {
	if len(p.values) == 0 {
		return "", ErrPoolExhausted
	}
	i := p.pick(len(p.values))
	v := p.values[i]
	p.values = append(p.values[:i], p.values[i+1:]...)
	return v, nil
}

// Release puts a value back. Releasing a value that is already in the pool
// is a no-op, which keeps double-release harmless.
func (p *Pool) Release(v string) {
	for _, existing := range p.values {
		if existing == v {
			return
		}
	}
	p.values = append(p.values, v)
}

func (p *Pool) Remaining() int {
	return len(p.values)
}
