package slug

import (
	"context"
	"strings"
	"testing"

	"github.com/denhq/den/internal/errors"
	"github.com/denhq/den/internal/runtime"
)

func TestAllocate_EmptyRegistryFirstDraw(t *testing.T) {
	rt := runtime.NewMockRuntime()

	alloc := NewAllocator(rt)
	got, err := alloc.Allocate(context.Background())
	if err != nil {
		t.Fatalf("Allocate() failed on empty registry: %v", err)
	}

	parts := strings.Split(got, "-")
	if len(parts) != 2 {
		t.Fatalf("slug %q is not an adjective-animal pair", got)
	}

	// Exactly one registry lookup: first draw must succeed.
	if calls := len(rt.CallLog); calls != 1 {
		t.Errorf("expected a single Exists call, got %d", calls)
	}
}

func TestAllocate_RedrawsOnCollision(t *testing.T) {
	rt := runtime.NewMockRuntime()

	// Deterministic draws: first "happy-ant", then "clever-bear".
	seq := []int{0, 0, 1, 1}
	i := 0
	alloc := &Allocator{
		Registry:    rt,
		MaxAttempts: 5,
		Intn: func(n int) int {
			v := seq[i%len(seq)]
			i++
			return v
		},
	}

	rt.AddContainer("c1", "happy-ant")

	got, err := alloc.Allocate(context.Background())
	if err != nil {
		t.Fatalf("Allocate() failed: %v", err)
	}
	if got != "clever-bear" {
		t.Errorf("Allocate() = %q, want clever-bear", got)
	}
}

func TestAllocate_ExhaustsAttempts(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.AddContainer("c1", "happy-ant")

	alloc := &Allocator{
		Registry:    rt,
		MaxAttempts: 3,
		Intn:        func(n int) int { return 0 }, // always happy-ant
	}

	_, err := alloc.Allocate(context.Background())
	if err == nil {
		t.Fatal("Allocate() should exhaust attempts")
	}
	if !errors.HasCode(err, errors.ExitAllocationExhausted) {
		t.Errorf("expected AllocationExhausted, got %v", err)
	}
}

func TestAllocate_RegistryError(t *testing.T) {
	rt := runtime.NewMockRuntime()
	rt.SetError("Exists", context.DeadlineExceeded)

	alloc := NewAllocator(rt)
	if _, err := alloc.Allocate(context.Background()); err == nil {
		t.Fatal("Allocate() should surface registry errors")
	}
}
