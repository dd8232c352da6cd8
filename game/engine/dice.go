package engine

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
	"sync"
)

// DieSource supplies die outcomes. The engine never rolls on its own;
// callers draw from a DieSource and pass the value to ApplyRoll.
//
// Implementations must be safe for concurrent use.
type DieSource interface {
	// Roll returns a value in [1, 6].
	Roll() int
}

type cryptoDie struct{}

// NewCryptoDie returns a uniform DieSource backed by crypto/rand
func NewCryptoDie() DieSource {
	return cryptoDie{}
}

func (cryptoDie) Roll() int {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxDie))
	if err != nil {
		panic("engine: crypto/rand failure: " + err.Error())
	}
	return int(n.Int64()) + MinDie
}

type seededDie struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeededDie returns a reproducible DieSource for simulations and tests
func NewSeededDie(seed uint64) DieSource {
	return &seededDie{rng: mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *seededDie) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.IntN(MaxDie) + MinDie
}

// FixedDie replays a scripted sequence of values, cycling when exhausted
type FixedDie struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewFixedDie returns a DieSource that yields values in order
func NewFixedDie(values ...int) *FixedDie {
	return &FixedDie{values: values}
}

func (d *FixedDie) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.values) == 0 {
		return MinDie
	}
	v := d.values[d.next%len(d.values)]
	d.next++
	return v
}
