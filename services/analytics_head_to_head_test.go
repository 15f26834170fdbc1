package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHeadToHeadAcrossSinglesAndDoubles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := seedTournament(t, f, "Rivalry", 1, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	when := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	// Alice beats Bob in singles, then Bob's pair beats Alice's pair, with
	// the sides numbered the other way around.
	seedMatch(t, f, tournament.ID, "Alice", "Bob",
		"21-10, 21-12", "10-21, 12-21", "Women's Singles", when)
	seedMatch(t, f, tournament.ID, "Bob, Carol", "Alice, Dana",
		"21-15, 21-16", "15-21, 16-21", "Mixed Doubles", when.Add(24*time.Hour))
	// Noise: a match not involving Bob must not qualify.
	seedMatch(t, f, tournament.ID, "Alice", "Carol",
		"21-1", "1-21", "Women's Singles", when.Add(48*time.Hour))

	alice, err := f.roster.GetOrCreatePlayer(ctx, nil, "Alice")
	if err != nil {
		t.Fatalf("player lookup: %v", err)
	}
	bob, err := f.roster.GetOrCreatePlayer(ctx, nil, "Bob")
	if err != nil {
		t.Fatalf("player lookup: %v", err)
	}

	h2h, err := f.analytics.HeadToHead(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("HeadToHead: %v", err)
	}

	if h2h.TotalMatches != 2 || len(h2h.Matches) != 2 {
		t.Fatalf("total matches = %d (%d rows), want 2", h2h.TotalMatches, len(h2h.Matches))
	}
	if h2h.Player1.Wins != 1 || h2h.Player2.Wins != 1 {
		t.Errorf("wins = %d/%d, want 1/1", h2h.Player1.Wins, h2h.Player2.Wins)
	}
	if h2h.Player1.Wins+h2h.Player2.Wins != h2h.TotalMatches {
		t.Error("wins must sum to total matches when every match resolves")
	}

	// Singles: Alice scored 42, conceded 22. Doubles: Alice's side read from
	// score1 is the second team, 15+16=31; Bob's side 42.
	if h2h.Player1.TotalPoints != 42+31 {
		t.Errorf("player1 points = %d, want 73", h2h.Player1.TotalPoints)
	}
	if h2h.Player2.TotalPoints != 22+42 {
		t.Errorf("player2 points = %d, want 64", h2h.Player2.TotalPoints)
	}

	if h2h.Matches[0].Date < h2h.Matches[1].Date {
		t.Error("match list should be sorted by date descending")
	}
	for _, m := range h2h.Matches {
		if m.WinnerID == nil {
			t.Errorf("match %d has no winner attributed", m.MatchID)
		}
	}
}

func TestHeadToHeadSymmetry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := seedTournament(t, f, "Rivalry", 1, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	when := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	seedMatch(t, f, tournament.ID, "Alice", "Bob",
		"21-10, 21-12", "10-21, 12-21", "Women's Singles", when)
	seedMatch(t, f, tournament.ID, "Bob", "Alice",
		"21-15, 21-16", "15-21, 16-21", "Women's Singles", when.Add(time.Hour))

	alice, _ := f.roster.GetOrCreatePlayer(ctx, nil, "Alice")
	bob, _ := f.roster.GetOrCreatePlayer(ctx, nil, "Bob")

	forward, err := f.analytics.HeadToHead(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("HeadToHead(A, B): %v", err)
	}
	reverse, err := f.analytics.HeadToHead(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("HeadToHead(B, A): %v", err)
	}

	if forward.TotalMatches != reverse.TotalMatches {
		t.Errorf("total matches differ: %d vs %d", forward.TotalMatches, reverse.TotalMatches)
	}
	if forward.Player1.Wins != reverse.Player2.Wins || forward.Player2.Wins != reverse.Player1.Wins {
		t.Errorf("wins not symmetric: %d/%d vs %d/%d",
			forward.Player1.Wins, forward.Player2.Wins, reverse.Player1.Wins, reverse.Player2.Wins)
	}
	if forward.Player1.TotalPoints != reverse.Player2.TotalPoints {
		t.Errorf("points not symmetric: %d vs %d", forward.Player1.TotalPoints, reverse.Player2.TotalPoints)
	}
	if len(forward.Matches) != len(reverse.Matches) {
		t.Fatalf("match lists differ in length")
	}
	for i := range forward.Matches {
		if forward.Matches[i].MatchID != reverse.Matches[i].MatchID {
			t.Errorf("match list order differs at %d", i)
		}
	}
}

func TestHeadToHeadUnknownPlayer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alice, err := f.roster.GetOrCreatePlayer(ctx, nil, "Alice")
	if err != nil {
		t.Fatalf("player create: %v", err)
	}

	if _, err := f.analytics.HeadToHead(ctx, alice.ID, 404); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
	if _, err := f.analytics.HeadToHead(ctx, 404, alice.ID); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestHeadToHeadNoMeetings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alice, _ := f.roster.GetOrCreatePlayer(ctx, nil, "Alice")
	bob, _ := f.roster.GetOrCreatePlayer(ctx, nil, "Bob")

	h2h, err := f.analytics.HeadToHead(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("HeadToHead: %v", err)
	}
	if h2h.TotalMatches != 0 || len(h2h.Matches) != 0 {
		t.Errorf("expected empty aggregate, got %+v", h2h)
	}
	if h2h.Player1.Name != "Alice" || h2h.Player2.Name != "Bob" {
		t.Errorf("sides should still carry the player identities")
	}
}
