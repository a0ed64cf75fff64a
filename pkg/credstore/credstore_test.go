package credstore

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "credentials.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokenRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetToken("staging", "abc123"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	token, err := store.Token("staging")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("unexpected token: %q", token)
	}

	if err := store.DeleteToken("staging"); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	token, err = store.Token("staging")
	if err != nil {
		t.Fatalf("Token after delete: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token after delete, got %q", token)
	}
}

func TestTokenMissingProfile(t *testing.T) {
	store := openTestStore(t)

	token, err := store.Token("unknown")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token for missing profile, got %q", token)
	}

	if _, err := store.Token("  "); err == nil {
		t.Fatalf("expected error for empty profile id")
	}
}

func TestTokenResolverReadsLatestValue(t *testing.T) {
	store := openTestStore(t)
	resolve := store.TokenResolver("prod")

	token, err := resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token before login, got %q", token)
	}

	if err := store.SetToken("prod", "fresh"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	token, err = resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolver after set: %v", err)
	}
	if token != "fresh" {
		t.Fatalf("resolver returned stale token: %q", token)
	}
}
