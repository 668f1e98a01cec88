package vm

import "loxvm/pkg/chunk"

// Stack is a fixed-capacity operand stack. Every push and pop is bounds checked.
type Stack struct {
	a []chunk.Value
	l int
}

// NewStack creates a stack that holds at most capacity values
func NewStack(capacity int) *Stack {
	return &Stack{
		a: make([]chunk.Value, capacity),
		l: 0,
	}
}

// Push adds an element to the top of the stack
func (s *Stack) Push(v chunk.Value) error {
	if s.l >= len(s.a) {
		return ErrStackOverflow
	}

	s.a[s.l] = v
	s.l++
	return nil
}

// Pop removes and returns the top element of the stack
func (s *Stack) Pop() (chunk.Value, error) {
	if s.l < 1 {
		return 0, ErrStackUnderflow
	}

	s.l--
	return s.a[s.l], nil
}

// Peek returns the top element of the stack without removing it
func (s *Stack) Peek() (chunk.Value, bool) {
	if s.l < 1 {
		return 0, false
	}

	return s.a[s.l-1], true
}

// Get the size of the stack
func (s *Stack) Size() int {
	return s.l
}

// Capacity returns the maximum number of values the stack holds
func (s *Stack) Capacity() int {
	return len(s.a)
}

// Reset empties the stack
func (s *Stack) Reset() {
	s.l = 0
}

// Values returns the live part of the stack, bottom first
func (s *Stack) Values() []chunk.Value {
	return s.a[:s.l]
}
