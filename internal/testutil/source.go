// Package testutil provides shared helpers for package tests.
package testutil

import (
	"sync"
	"testing"
)

// SequenceSource is a scripted rng.Source. Each Intn call returns the next
// scripted value reduced modulo n; once the script runs out it returns 0.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	calls  int
}

// NewSequenceSource returns a SequenceSource replaying values in order.
func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

// Intn returns the next scripted value modulo n.
//
// Precondition: n > 0.
func (s *SequenceSource) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls returns how many draws were made.
func (s *SequenceSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// AssertExhausted fails the test if scripted values remain unused.
func (s *SequenceSource) AssertExhausted(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) != 0 {
		t.Errorf("sequence source has %d unused values: %v", len(s.values), s.values)
	}
}
