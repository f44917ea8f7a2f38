package genai

import (
	"context"
	"sync"
)

// Scripted is a deterministic Service for tests: it replays a fixed list of
// candidate batches and records every prompt it was asked.
type Scripted struct {
	mu      sync.Mutex
	batches [][]string
	err     error
	prompts []string
}

// NewScripted returns a service that answers with the given batches in order.
// Once the script is exhausted the last batch repeats; an empty script always
// answers with no candidates.
func NewScripted(batches ...[]string) *Scripted {
	return &Scripted{batches: batches}
}

// NewFailing returns a service whose every call fails with err.
func NewFailing(err error) *Scripted {
	return &Scripted{err: err}
}

func (s *Scripted) Generate(ctx context.Context, prompt string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.batches) == 0 {
		return nil, nil
	}
	i := len(s.prompts) - 1
	if i >= len(s.batches) {
		i = len(s.batches) - 1
	}
	return s.batches[i], nil
}

// Calls reports how many times Generate was invoked.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// Prompts returns a copy of every prompt seen so far.
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}
