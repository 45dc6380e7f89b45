package session

import (
	"context"
	"testing"

	"github.com/nirajw/eshop-storefront/pkg/enums"
	"github.com/nirajw/eshop-storefront/pkg/kvstore"
)

func newTestStore(t *testing.T) (*Store, *kvstore.MemoryStore) {
	t.Helper()
	mem := kvstore.NewMemory()
	store, err := NewStore(mem, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, mem
}

func TestCurrentAnonymousByDefault(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	if _, ok := store.Current(context.Background()); ok {
		t.Fatal("expected anonymous session")
	}
}

func TestSaveAndCurrentRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)

	sess := Session{UserID: 7, Username: "jdoe", FirstName: "John", Role: enums.RoleUser}
	if err := store.Save(ctx, sess, "jwt-token-7"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := store.Current(ctx)
	if !ok {
		t.Fatal("expected session after save")
	}
	if got.UserID != 7 || got.DisplayName() != "John" {
		t.Fatalf("unexpected session %+v", got)
	}
	if got.CartKey() != "userCart_7" {
		t.Fatalf("unexpected cart key %q", got.CartKey())
	}
	if store.Token(ctx) != "jwt-token-7" {
		t.Fatalf("unexpected token %q", store.Token(ctx))
	}
}

func TestCorruptSessionReadsAsAnonymous(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mem := newTestStore(t)
	if err := mem.Set(ctx, "user", "{broken"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, ok := store.Current(ctx); ok {
		t.Fatal("corrupt session should read as anonymous")
	}
}

func TestClearRemovesSessionAndToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mem := newTestStore(t)
	sess := Session{UserID: 3, Username: "amy", Role: enums.RoleAdmin}
	if err := store.Save(ctx, sess, "jwt-token-3"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := store.Current(ctx); ok {
		t.Fatal("expected anonymous after clear")
	}
	if store.Token(ctx) != "" {
		t.Fatal("expected token removed")
	}
	if mem.Len() != 0 {
		t.Fatalf("expected empty storage, %d keys left", mem.Len())
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	t.Parallel()

	if got := (Session{Username: "jdoe"}).DisplayName(); got != "jdoe" {
		t.Fatalf("expected username fallback, got %q", got)
	}
	if got := (Session{}).DisplayName(); got != "User" {
		t.Fatalf("expected generic fallback, got %q", got)
	}
}
