package fulfiller

import (
	"context"

	"parallax/pkg/card"
)

// Request is the snapshot a fulfiller works against: the full document text,
// the cursor at submit time, and the workspace identity.
type Request struct {
	DocumentText string
	Cursor       card.Position
	Workspace    card.Workspace
}

// Fulfiller produces suggestion cards for a document snapshot.
//
// Synchronous fulfillers are cheap enough to run inline during a submit; their
// cards appear in the immediate response. The rest are dispatched as
// background jobs and land in the session while the client polls.
type Fulfiller interface {
	Name() string
	Synchronous() bool

	// Available reports whether the fulfiller can currently serve requests
	// (e.g. its model backend is reachable). Unavailable fulfillers are
	// skipped, never errored.
	Available(ctx context.Context) bool

	Fulfill(ctx context.Context, req Request) ([]card.Card, error)
}

// Registry holds the fulfillers enabled for a backend instance.
type Registry struct {
	all []Fulfiller
}

func NewRegistry(fs ...Fulfiller) *Registry {
	return &Registry{all: fs}
}

func (r *Registry) Register(f Fulfiller) {
	r.all = append(r.all, f)
}

func (r *Registry) All() []Fulfiller {
	return r.all
}

func (r *Registry) Get(name string) (Fulfiller, bool) {
	for _, f := range r.all {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Split partitions fulfillers into inline and background groups, skipping
// unavailable ones.
func (r *Registry) Split(ctx context.Context) (sync, async []Fulfiller) {
	for _, f := range r.all {
		if !f.Available(ctx) {
			continue
		}
		if f.Synchronous() {
			sync = append(sync, f)
		} else {
			async = append(async, f)
		}
	}
	return sync, async
}
