// Package slug generates unique human-readable session identifiers.
package slug

import (
	"context"
	"math/rand"

	"github.com/denhq/den/internal/errors"
	"github.com/denhq/den/internal/logging"
	"github.com/denhq/den/internal/runtime"
)

var adjectives = []string{
	"happy", "clever", "brave", "calm", "eager", "gentle", "jolly", "kind",
	"lively", "proud", "swift", "wise", "bright", "cool", "fair", "keen",
	"noble", "quick", "sharp", "warm", "bold", "daring", "fuzzy", "silly",
}

var animals = []string{
	"ant", "bear", "cat", "dog", "eagle", "fox", "goat", "hawk", "ibex",
	"jay", "koala", "lion", "mouse", "newt", "owl", "panda", "quail", "rabbit",
	"seal", "tiger", "urchin", "viper", "wolf", "yak", "zebra", "otter", "penguin",
}

// DefaultMaxAttempts bounds the redraw loop on name collisions.
const DefaultMaxAttempts = 10

// Allocator draws adjective-animal slugs and checks them against the live
// container registry for collisions.
type Allocator struct {
	Registry    runtime.Registry
	MaxAttempts int

	// Intn draws a random index; defaults to math/rand. Tests inject a
	// deterministic source.
	Intn func(n int) int
}

// NewAllocator creates an Allocator with default retry budget and randomness.
func NewAllocator(registry runtime.Registry) *Allocator {
	return &Allocator{
		Registry:    registry,
		MaxAttempts: DefaultMaxAttempts,
		Intn:        rand.Intn,
	}
}

func (a *Allocator) draw() string {
	return adjectives[a.Intn(len(adjectives))] + "-" + animals[a.Intn(len(animals))]
}

// Allocate returns a slug not currently in use by any running container.
// It fails with AllocationExhausted once the attempt budget runs out.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	attempts := a.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	for i := 0; i < attempts; i++ {
		candidate := a.draw()

		taken, err := a.Registry.Exists(ctx, candidate)
		if err != nil {
			return "", errors.ContainerFailed("registry lookup", err)
		}
		if !taken {
			return candidate, nil
		}

		logging.Debug("slug collision, redrawing", "slug", candidate, "attempt", i+1)
	}

	return "", errors.AllocationExhausted(attempts)
}
