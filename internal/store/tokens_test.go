package store

import (
	"context"
	"testing"
	"time"

	"github.com/Drallee/genius-shop-editor/internal/db"
)

func TestRevokeAndCheckToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("fresh token reported revoked")
	}

	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, err = IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("revoked token not reported")
	}
}

func TestRevokeTokenIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour)
	if err := RevokeToken(ctx, database, "jti-2", exp); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if err := RevokeToken(ctx, database, "jti-2", exp); err != nil {
		t.Fatalf("RevokeToken repeat: %v", err)
	}
}

func TestRevokeTokenCleansExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := RevokeToken(ctx, database, "old", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	// The next revocation sweeps expired rows.
	if err := RevokeToken(ctx, database, "new", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, err := IsTokenRevoked(ctx, database, "old")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expired revocation not swept")
	}
}
