package cas

import (
	"errors"
	"testing"
)

func TestMemoryStore_PutIsContentAddressed(t *testing.T) {
	store := NewMemoryStore()
	h1, err := store.Put(testProgram(1))
	if err != nil {
		t.Fatalf("Failed to put: %v", err)
	}
	again, err := store.Put(testProgram(1))
	if err != nil {
		t.Fatalf("Failed to put again: %v", err)
	}
	if h1 != again {
		t.Errorf("Equal programs hashed differently: %s vs %s", h1, again)
	}
	h2, _ := store.Put(testProgram(2))
	if h1 == h2 {
		t.Errorf("Different programs share hash %s", h1)
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", store.Len())
	}
	if !store.Has(h1) || !store.Has(h2) {
		t.Errorf("Store lost an entry")
	}
}

func TestMemoryStore_Retrieve(t *testing.T) {
	store := NewMemoryStore()
	orig := testProgram(3)
	orig.Routines["r"] = 1
	h, err := store.Put(orig)
	if err != nil {
		t.Fatalf("Failed to put: %v", err)
	}

	got, err := RetrieveProgram(store, h)
	if err != nil {
		t.Fatalf("Failed to retrieve: %v", err)
	}
	if got.Fingerprint() != orig.Fingerprint() {
		t.Errorf("Fingerprint mismatch: %x vs %x", got.Fingerprint(), orig.Fingerprint())
	}
	if addr, ok := got.Resolve("r"); !ok || addr != 1 {
		t.Errorf("Routine lost in round trip: %d %v", addr, ok)
	}

	_, err = RetrieveProgram(store, h+1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_RejectsNilProgram(t *testing.T) {
	if _, err := NewMemoryStore().Put(&Program{}); err == nil {
		t.Errorf("Expected an error storing a nil program")
	}
}

func TestHashString(t *testing.T) {
	if got := Hash(0xff).String(); got != "00000000000000ff" {
		t.Errorf("Unexpected hash text %q", got)
	}
	if HashBytes([]byte("a")) == HashBytes([]byte("b")) {
		t.Errorf("Distinct inputs hashed alike")
	}
}
