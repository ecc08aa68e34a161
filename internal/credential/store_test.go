package credential

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty store, got %v", err)
	}

	if err := store.Put(ctx, "s1", "token-a"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	token, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if token != "token-a" {
		t.Errorf("expected token-a, got %q", token)
	}

	// Put replaces the stored token for the session.
	if err := store.Put(ctx, "s1", "token-b"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	token, _ = store.Get(ctx, "s1")
	if token != "token-b" {
		t.Errorf("expected replacement token-b, got %q", token)
	}

	deleted, err := store.Delete(ctx, "s1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report true for an existing session")
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	deleted, err = store.Delete(ctx, "s1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted {
		t.Error("expected delete of a missing session to report false")
	}
}

func TestMemoryStore_RequiresSessionID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Put(context.Background(), "", "token"); err == nil {
		t.Fatal("expected error for empty session id")
	}
}
