package geo

import (
	"context"
	"sync"
	"sync/atomic"
)

// ReverseFunc resolves coordinates to a place, typically Nominatim.Reverse.
type ReverseFunc func(ctx context.Context, lat, lon float64) (*ReverseResult, error)

// Resolver serializes "latest wins" reverse lookups. Every lookup is tagged
// with a monotonically increasing sequence number; a result that resolves
// after a newer lookup has been issued is discarded instead of being
// delivered. This keeps rapid repeated lookups (a map pin dragged around)
// from applying out of order.
type Resolver struct {
	reverse ReverseFunc
	seq     atomic.Uint64

	mu     sync.Mutex
	latest *ReverseResult
}

// NewResolver wraps a reverse-geocoding function.
func NewResolver(reverse ReverseFunc) *Resolver {
	return &Resolver{reverse: reverse}
}

// Resolve runs a reverse lookup. It returns (nil, nil) when the result went
// stale while in flight: a nil place with no error means "superseded, ignore".
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (*ReverseResult, error) {
	id := r.seq.Add(1)

	res, err := r.reverse(ctx, lat, lon)
	if id != r.seq.Load() {
		// A newer lookup was issued while this one was in flight.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.latest = res
	r.mu.Unlock()
	return res, nil
}

// Latest returns the most recently applied result, if any.
func (r *Resolver) Latest() *ReverseResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}
