package store

import (
	"context"
	"testing"

	"github.com/Drallee/genius-shop-editor/internal/db"
)

func TestJWTSecretGeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := JWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := JWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if got, err := GetSetting(ctx, database, "config_dir"); err != nil || got != "" {
		t.Fatalf("expected empty value for missing key, got %q, %v", got, err)
	}

	if err := SetSetting(ctx, database, "config_dir", "/srv/shop"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := SetSetting(ctx, database, "config_dir", "/srv/shop2"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}

	got, err := GetSetting(ctx, database, "config_dir")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "/srv/shop2" {
		t.Errorf("expected overwritten value, got %q", got)
	}
}
