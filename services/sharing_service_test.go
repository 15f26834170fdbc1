package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jamietsang/courtlog/models"
)

func seedUser(t *testing.T, f *fixture, username, email string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, PasswordHash: "x"}
	if err := f.userRepo.Create(context.Background(), u); err != nil {
		t.Fatalf("user Create: %v", err)
	}
	return u
}

func TestShareTournament(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := seedUser(t, f, "owner", "owner@example.com")
	friend := seedUser(t, f, "friend", "friend@example.com")
	tournament := seedTournament(t, f, "Open", owner.ID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	share, err := f.sharing.ShareTournament(ctx, owner.ID, tournament.ID, "friend")
	if err != nil {
		t.Fatalf("ShareTournament: %v", err)
	}
	if share.SharedWithID != friend.ID {
		t.Errorf("shared with %d, want %d", share.SharedWithID, friend.ID)
	}

	// Same grant again conflicts, by email this time.
	_, err = f.sharing.ShareTournament(ctx, owner.ID, tournament.ID, "friend@example.com")
	if !errors.Is(err, ErrShareConflict) {
		t.Errorf("duplicate share: err = %v, want ErrShareConflict", err)
	}

	incoming, err := f.sharing.ListIncoming(ctx, friend.ID)
	if err != nil {
		t.Fatalf("ListIncoming: %v", err)
	}
	if len(incoming) != 1 {
		t.Errorf("incoming shares = %d, want 1", len(incoming))
	}
	outgoing, err := f.sharing.ListOutgoing(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListOutgoing: %v", err)
	}
	if len(outgoing) != 1 {
		t.Errorf("outgoing shares = %d, want 1", len(outgoing))
	}
}

func TestShareTournamentRejectsSelfAndForeign(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := seedUser(t, f, "owner", "owner@example.com")
	other := seedUser(t, f, "other", "other@example.com")
	tournament := seedTournament(t, f, "Open", owner.ID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	if _, err := f.sharing.ShareTournament(ctx, owner.ID, tournament.ID, "owner"); !errors.Is(err, ErrShareSelf) {
		t.Errorf("self share: err = %v, want ErrShareSelf", err)
	}

	// Only the owner can share; for anyone else the tournament reads as
	// missing.
	if _, err := f.sharing.ShareTournament(ctx, other.ID, tournament.ID, "owner"); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("foreign share: err = %v, want ErrTournamentNotFound", err)
	}

	if _, err := f.sharing.ShareTournament(ctx, owner.ID, tournament.ID, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown target: err = %v, want ErrUserNotFound", err)
	}
}

func TestUnshare(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := seedUser(t, f, "owner", "owner@example.com")
	seedUser(t, f, "friend", "friend@example.com")
	tournament := seedTournament(t, f, "Open", owner.ID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	share, err := f.sharing.ShareTournament(ctx, owner.ID, tournament.ID, "friend")
	if err != nil {
		t.Fatalf("ShareTournament: %v", err)
	}

	if err := f.sharing.Unshare(ctx, share.ID, 999); !errors.Is(err, ErrShareNotFound) {
		t.Errorf("foreign unshare: err = %v, want ErrShareNotFound", err)
	}
	if err := f.sharing.Unshare(ctx, share.ID, owner.ID); err != nil {
		t.Fatalf("Unshare: %v", err)
	}
	if len(f.store.shares) != 0 {
		t.Errorf("share row still present after unshare")
	}
}
