package database

import (
	"context"
	"testing"

	"github.com/clinidata/radreport-api/internal/models"
)

func TestAPIKeyLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	key := &models.APIKey{
		KeyHash:   "deadbeef",
		KeyPrefix: "rr_dead",
		Name:      "ingest script",
		Active:    true,
		RateLimit: 100,
	}
	if err := db.CreateAPIKey(ctx, key); err != nil {
		t.Fatalf("CreateAPIKey failed: %v", err)
	}
	if key.ID == "" {
		t.Fatal("CreateAPIKey should assign an ID")
	}

	got, err := db.GetAPIKeyByHash(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("GetAPIKeyByHash failed: %v", err)
	}
	if got.Name != "ingest script" || got.RateLimit != 100 {
		t.Errorf("got %+v, want the created key", got)
	}

	if err := db.UpdateAPIKeyLastUsed(ctx, key.ID); err != nil {
		t.Fatalf("UpdateAPIKeyLastUsed failed: %v", err)
	}
	got, err = db.GetAPIKeyByHash(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("GetAPIKeyByHash failed: %v", err)
	}
	if got.LastUsedAt == nil {
		t.Error("LastUsedAt should be set after UpdateAPIKeyLastUsed")
	}

	if err := db.RevokeAPIKey(ctx, key.ID); err != nil {
		t.Fatalf("RevokeAPIKey failed: %v", err)
	}
	if _, err := db.GetAPIKeyByHash(ctx, "deadbeef"); err == nil {
		t.Error("revoked key must not authenticate")
	}

	if err := db.RevokeAPIKey(ctx, "no-such-id"); err == nil {
		t.Error("revoking a missing key should fail")
	}
}

func TestUserLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	u := &models.User{
		Email:        "radiologue@example.org",
		PasswordHash: "$2a$10$fakehash",
		Name:         "Jean Martin",
	}
	if err := db.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := db.GetUserByEmail(ctx, "radiologue@example.org")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != u.ID || byEmail.Name != "Jean Martin" {
		t.Errorf("got %+v, want the created user", byEmail)
	}

	byID, err := db.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != u.Email {
		t.Errorf("Email = %q, want %q", byID.Email, u.Email)
	}

	// Emails are unique.
	dup := &models.User{Email: "radiologue@example.org", PasswordHash: "x", Name: "Autre"}
	if err := db.CreateUser(ctx, dup); err == nil {
		t.Error("duplicate email should fail")
	}

	if _, err := db.GetUserByEmail(ctx, "absent@example.org"); err == nil {
		t.Error("unknown email should fail")
	}
}
