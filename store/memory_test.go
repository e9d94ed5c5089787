package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mizuri0x/contentblast/app/models"
)

func TestMemoryUsersRoundTrip(t *testing.T) {
	users := NewMemory().Users()
	ctx := context.Background()

	if _, err := users.Get(ctx, "a@b.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store error = %v, want ErrNotFound", err)
	}

	want := models.User{
		Email:           "a@b.com",
		PasswordHash:    "hash",
		Name:            "Ana",
		Plan:            models.PlanFree,
		RepurposesLimit: 5,
		CreatedAt:       time.Now().UTC(),
	}
	if err := users.Put(ctx, want); err != nil {
		t.Fatalf("Put error = %v", err)
	}

	got, err := users.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if got.Email != want.Email || got.Name != want.Name || got.RepurposesLimit != want.RepurposesLimit {
		t.Fatalf("Get = %+v, want %+v", got, want)
	}

	// Put overwrites in place.
	want.RepurposesUsed = 3
	if err := users.Put(ctx, want); err != nil {
		t.Fatalf("second Put error = %v", err)
	}
	got, _ = users.Get(ctx, "a@b.com")
	if got.RepurposesUsed != 3 {
		t.Fatalf("overwrite lost: used = %d", got.RepurposesUsed)
	}
}

func TestMemorySessionsRoundTrip(t *testing.T) {
	sessions := NewMemory().Sessions()
	ctx := context.Background()

	now := time.Now().UTC()
	sess := models.Session{
		Token:     "tok-1",
		Email:     "a@b.com",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := sessions.Put(ctx, sess); err != nil {
		t.Fatalf("Put error = %v", err)
	}

	got, err := sessions.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if got.Token != "tok-1" || got.Email != "a@b.com" {
		t.Fatalf("Get = %+v", got)
	}

	if err := sessions.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("Delete error = %v", err)
	}
	if _, err := sessions.Get(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete error = %v, want ErrNotFound", err)
	}

	// Deleting a token that was never stored is not an error.
	if err := sessions.Delete(ctx, "never-stored"); err != nil {
		t.Fatalf("Delete of absent token error = %v", err)
	}
}
