package diagram

import "fmt"

// StepCounter generates the ordered step numbers of one diagram.
// The zero value counts from 1 with an empty prefix.
// A StepCounter is not safe for concurrent use.
type StepCounter struct {
	prefix string
	n      int
}

// NewStepCounter returns a counter whose labels start with prefix,
// typically the use-case letter.
func NewStepCounter(prefix string) *StepCounter {
	return &StepCounter{prefix: prefix}
}

// Next returns 1 on the first call and increases by one on every call after.
func (s *StepCounter) Next() int {
	s.n++
	return s.n
}

// Label consumes the next step number and returns "<prefix>.<n> <text>".
// An empty text yields just "<prefix>.<n>".
func (s *StepCounter) Label(text string) string {
	n := s.Next()
	if text == "" {
		return fmt.Sprintf("%s.%d", s.prefix, n)
	}
	return fmt.Sprintf("%s.%d %s", s.prefix, n, text)
}

// Prefix returns the label prefix.
func (s *StepCounter) Prefix() string { return s.prefix }

// Count returns how many numbers have been handed out.
func (s *StepCounter) Count() int { return s.n }
