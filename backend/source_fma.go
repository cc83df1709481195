package backend

import "context"

// Free Music Archive placeholder. FMA closed its public API program, so
// this source currently never matches; it stays in the chain so a future
// client can drop in without touching the waterfall.

// FMASource is a no-op source that always reports no match.
type FMASource struct{}

// NewFMASource returns the placeholder source.
func NewFMASource() *FMASource { return &FMASource{} }

func (s *FMASource) Name() string { return "fma" }

func (s *FMASource) Available() bool { return true }

func (s *FMASource) Search(_ context.Context, _, _ string) (*Locator, error) {
	return nil, ErrNoMatch
}

func (s *FMASource) Fetch(_ context.Context, _ *Locator, _ string, _ Quality) error {
	return ErrNoMatch
}
