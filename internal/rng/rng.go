package rng

// Package rng puts every random decision of the battle engine behind one
// small interface so tests can inject fixed sequences.

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields the two kinds of randomness the engine and the services
// need. Implementations must be safe for use from a single goroutine;
// Locked wraps one for shared use.
type Source interface {
	Intn(n int) int
	Float64() float64
}

type locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// New returns a time-seeded source safe for concurrent use.
func New() Source {
	return &locked{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a deterministic source for tests.
func NewSeeded(seed int64) Source {
	return &locked{r: rand.New(rand.NewSource(seed))}
}

// Script replays fixed values: Intn pops from Ints (modulo n), Float64
// pops from Floats. Exhausted scripts repeat their last value, or yield
// zero when empty.
type Script struct {
	Ints   []int
	Floats []float64
	ip     int
	fp     int
}

func (s *Script) Intn(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ip]
	if s.ip < len(s.Ints)-1 {
		s.ip++
	}
	return v % n
}

func (s *Script) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fp]
	if s.fp < len(s.Floats)-1 {
		s.fp++
	}
	return v
}
