package handles

import (
	"sync"
	"testing"
	"time"
)

func TestRegisterAndLookup(t *testing.T) {
	type session struct {
		ID string
	}

	r := NewRegistry()
	data := &session{ID: "1_MX4"}
	token := r.Register(data)

	if token == 0 {
		t.Error("Register should return non-zero token")
	}

	got, ok := Lookup[*session](r, token)
	if !ok {
		t.Fatalf("Lookup returned wrong type: %T", r.Lookup(token))
	}
	if got.ID != "1_MX4" {
		t.Errorf("Lookup returned wrong data: %+v", got)
	}

	if _, ok := Lookup[string](r, token); ok {
		t.Error("typed Lookup should fail for a different type")
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	token := r.Register("publisher")

	if r.Lookup(token) == nil {
		t.Error("Expected value before Unregister")
	}

	r.Unregister(token)

	if r.Lookup(token) != nil {
		t.Error("Expected nil after Unregister")
	}
}

func TestLookupNonExistent(t *testing.T) {
	r := NewRegistry()
	if got := r.Lookup(999999); got != nil {
		t.Error("Lookup of non-existent token should return nil")
	}
	if got := r.Lookup(0); got != nil {
		t.Error("Lookup of token 0 should return nil")
	}
}

func TestRegistriesAreIsolated(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	token := a.Register("only in a")

	if b.Lookup(token) != nil {
		t.Error("registries must not share objects")
	}
	if b.Count() != 0 {
		t.Errorf("expected empty registry, got %d", b.Count())
	}
}

func TestReleaseDeletesAndUnregisters(t *testing.T) {
	r := NewRegistry()
	deleted := 0
	h := Own(0xbeef, func(uintptr) { deleted++ })
	token := r.Register(h)

	if !h.Retain() {
		t.Fatal("Retain on live handle should succeed")
	}

	if r.Release(token, h) {
		t.Error("first Release should leave one owner")
	}
	if r.Lookup(token) == nil {
		t.Error("object must stay registered while owned")
	}

	if !r.Release(token, h) {
		t.Error("last Release should delete")
	}
	if r.Lookup(token) != nil {
		t.Error("object must be unregistered after delete")
	}
	if deleted != 1 {
		t.Errorf("delete ran %d times, want 1", deleted)
	}

	if r.Release(token, h) {
		t.Error("Release after delete should be a no-op")
	}
	if deleted != 1 {
		t.Errorf("delete ran %d times after tombstone, want 1", deleted)
	}
}

func TestLookupDuringDeleteMisses(t *testing.T) {
	r := NewRegistry()
	var token uintptr
	var seen any = "unset"
	h := Own(1, func(uintptr) {
		// The engine may call back synchronously from inside a delete.
		seen = r.Lookup(token)
	})
	token = r.Register(h)

	done := make(chan struct{})
	go func() {
		r.Release(token, h)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Release deadlocked on a lookup from inside delete")
	}
	if seen != nil {
		t.Errorf("lookup from inside delete = %v, want nil", seen)
	}
	if h.Ptr() != 0 {
		t.Error("pointer should be tombstoned")
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	r := NewRegistry()
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				data := struct {
					ID  int
					Seq int
				}{id, j}
				token := r.Register(&data)
				if got := r.Lookup(token); got == nil {
					t.Errorf("Lookup returned nil for token %d", token)
				}
				r.Unregister(token)
			}
		}(i)
	}

	wg.Wait()

	if r.Count() != 0 {
		t.Errorf("expected empty registry, got %d", r.Count())
	}
}

func TestTokensAreUnique(t *testing.T) {
	r := NewRegistry()
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		token := r.Register(i)
		if seen[token] {
			t.Errorf("Token %d was returned twice", token)
		}
		seen[token] = true
	}

	if len(r.Snapshot()) != 1000 {
		t.Errorf("Snapshot length = %d, want 1000", len(r.Snapshot()))
	}
}

func TestOwnNullPointer(t *testing.T) {
	if h := Own(0, nil); h != nil {
		t.Error("Own(0) must return nil")
	}
	var h *Owned
	if h.Ptr() != 0 || h.Retain() || h.Release() {
		t.Error("nil Owned must behave as deleted")
	}
}
