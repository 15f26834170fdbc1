package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jamietsang/courtlog/models"
)

// seedMatch writes a match straight into the fake store, resolving rosters
// through the roster service so teams dedup the same way production does.
func seedMatch(t *testing.T, f *fixture, tournamentID int, team1, team2, score1, score2, matchType string, when time.Time) *models.Match {
	t.Helper()
	ctx := context.Background()

	t1, err := f.roster.ProcessTeam(ctx, nil, team1)
	if err != nil {
		t.Fatalf("ProcessTeam(%q): %v", team1, err)
	}
	t2, err := f.roster.ProcessTeam(ctx, nil, team2)
	if err != nil {
		t.Fatalf("ProcessTeam(%q): %v", team2, err)
	}

	m := &models.Match{
		TournamentID: tournamentID,
		RoundName:    "R1",
		Team1ID:      t1.ID,
		Team2ID:      t2.ID,
		Score1:       score1,
		Score2:       score2,
		MatchType:    matchType,
		Timestamp:    when,
	}
	if err := f.matchRepo.Create(ctx, nil, m); err != nil {
		t.Fatalf("match Create: %v", err)
	}
	return m
}

func seedTournament(t *testing.T, f *fixture, name string, userID int, date time.Time) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{Name: name, Date: date, UserID: userID}
	if err := f.tournamentRepo.Create(context.Background(), nil, tournament); err != nil {
		t.Fatalf("tournament Create: %v", err)
	}
	return tournament
}

func TestPlayerStatsSinglesEndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := seedTournament(t, f, "City Cup", 1, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	seedMatch(t, f, tournament.ID, "Player One", "Player Two",
		"21-19, 21-15", "19-21, 15-21", "Men's Singles", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	one, err := f.roster.GetOrCreatePlayer(ctx, nil, "Player One")
	if err != nil {
		t.Fatalf("player lookup: %v", err)
	}

	stats, err := f.analytics.PlayerStats(ctx, one.ID, nil)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if stats.Matches != 1 || stats.Wins != 1 || stats.Losses != 0 {
		t.Errorf("record = %d/%d/%d, want 1/1/0", stats.Matches, stats.Wins, stats.Losses)
	}
	if stats.PointsScored != 42 || stats.PointsConceded != 34 {
		t.Errorf("points = %d/%d, want 42/34", stats.PointsScored, stats.PointsConceded)
	}
	if stats.WinRate != 100 {
		t.Errorf("win rate = %v, want 100", stats.WinRate)
	}
	singles := stats.MatchTypes["Men's Singles"]
	if singles == nil || singles.Matches != 1 || singles.Wins != 1 || singles.WinRate != 100 {
		t.Errorf("match-type sub-record = %+v", singles)
	}
	if len(stats.RecentMatches) != 1 {
		t.Fatalf("recent matches = %d, want 1", len(stats.RecentMatches))
	}
	recent := stats.RecentMatches[0]
	if recent.Result != "Win" || recent.Opponent != "Player Two" || recent.Score != "21-19, 21-15" {
		t.Errorf("recent entry = %+v", recent)
	}
}

func TestPlayerStatsWinRateRounding(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := seedTournament(t, f, "League", 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	when := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	// Alice wins 1 of 3: 33.333... rounds to 33.3.
	seedMatch(t, f, tournament.ID, "Alice", "Bob", "21-10", "10-21", "Women's Singles", when)
	seedMatch(t, f, tournament.ID, "Bob", "Alice", "21-10", "10-21", "Women's Singles", when.Add(time.Hour))
	seedMatch(t, f, tournament.ID, "Bob", "Alice", "21-10", "10-21", "Women's Singles", when.Add(2*time.Hour))

	alice, err := f.roster.GetOrCreatePlayer(ctx, nil, "Alice")
	if err != nil {
		t.Fatalf("player lookup: %v", err)
	}
	stats, err := f.analytics.PlayerStats(ctx, alice.ID, nil)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if stats.Matches != 3 || stats.Wins != 1 || stats.Losses != 2 {
		t.Fatalf("record = %d/%d/%d, want 3/1/2", stats.Matches, stats.Wins, stats.Losses)
	}
	if stats.WinRate != 33.3 {
		t.Errorf("win rate = %v, want 33.3", stats.WinRate)
	}
	if stats.Matches != stats.Wins+stats.Losses {
		t.Error("matches must equal wins + losses")
	}
}

func TestPlayerStatsSwappedScoreOverride(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := seedTournament(t, f, "League", 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	// score1 is truncated to one set; score2 carries the full match. The
	// score2-derived totals sum higher, so they replace the score1 reading.
	seedMatch(t, f, tournament.ID, "Alice", "Bob",
		"21-10", "10-21, 15-21", "Women's Singles", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	alice, err := f.roster.GetOrCreatePlayer(ctx, nil, "Alice")
	if err != nil {
		t.Fatalf("player lookup: %v", err)
	}
	stats, err := f.analytics.PlayerStats(ctx, alice.ID, nil)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	// score2 "10-21, 15-21" reads (25, 42) from Bob's side, so Alice gets 42.
	if stats.PointsScored != 42 || stats.PointsConceded != 25 {
		t.Errorf("points = %d/%d, want 42/25", stats.PointsScored, stats.PointsConceded)
	}
}

func TestPlayerStatsZeroRecordForKnownPlayer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	idle, err := f.roster.GetOrCreatePlayer(ctx, nil, "Idle")
	if err != nil {
		t.Fatalf("player create: %v", err)
	}

	stats, err := f.analytics.PlayerStats(ctx, idle.ID, nil)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if stats == nil {
		t.Fatal("known player must get a zero record, not nil")
	}
	if stats.Matches != 0 || stats.WinRate != 0 {
		t.Errorf("zero record = %+v", stats)
	}
	if stats.RecentMatches == nil || stats.MatchTypes == nil {
		t.Error("zero record collections must be initialized")
	}
}

func TestPlayerStatsEmptyScoreReadsNA(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := seedTournament(t, f, "Forfeit Open", 1, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	seedMatch(t, f, tournament.ID, "Alice", "Bob",
		"21-10, 21-5", "", "Men's Singles", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	bob, err := f.roster.GetOrCreatePlayer(ctx, nil, "Bob")
	if err != nil {
		t.Fatalf("player lookup: %v", err)
	}

	stats, err := f.analytics.PlayerStats(ctx, bob.ID, nil)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if len(stats.RecentMatches) != 1 {
		t.Fatalf("recent matches = %d, want 1", len(stats.RecentMatches))
	}
	if got := stats.RecentMatches[0].Score; got != "N/A" {
		t.Errorf("recent score = %q, want %q", got, "N/A")
	}
}

func TestPlayerStatsUnknownPlayer(t *testing.T) {
	f := newFixture()

	_, err := f.analytics.PlayerStats(context.Background(), 404, nil)
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestPlayerStatsRecentMatchesTruncatedAndSorted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := seedTournament(t, f, "Season", 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	for day := 1; day <= 7; day++ {
		seedMatch(t, f, tournament.ID, "Alice", fmt.Sprintf("Rival %d", day),
			"21-10", "10-21", "Women's Singles",
			time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC))
	}

	alice, err := f.roster.GetOrCreatePlayer(ctx, nil, "Alice")
	if err != nil {
		t.Fatalf("player lookup: %v", err)
	}
	stats, err := f.analytics.PlayerStats(ctx, alice.ID, nil)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if len(stats.RecentMatches) != 5 {
		t.Fatalf("recent matches = %d, want 5", len(stats.RecentMatches))
	}
	for i := 1; i < len(stats.RecentMatches); i++ {
		if stats.RecentMatches[i-1].Date < stats.RecentMatches[i].Date {
			t.Errorf("recent matches not sorted descending at %d: %q < %q",
				i, stats.RecentMatches[i-1].Date, stats.RecentMatches[i].Date)
		}
	}
	if stats.RecentMatches[0].Date != "2026-02-07" {
		t.Errorf("newest recent match = %q, want 2026-02-07", stats.RecentMatches[0].Date)
	}
}

func TestAllPlayerStatsSortedByWinRate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := seedTournament(t, f, "League", 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	when := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	seedMatch(t, f, tournament.ID, "Alice", "Bob", "21-10", "10-21", "Women's Singles", when)
	seedMatch(t, f, tournament.ID, "Alice", "Carol", "21-10", "10-21", "Women's Singles", when.Add(time.Hour))
	seedMatch(t, f, tournament.ID, "Bob", "Carol", "21-10", "10-21", "Men's Singles", when.Add(2*time.Hour))

	all, err := f.analytics.AllPlayerStats(ctx, nil)
	if err != nil {
		t.Fatalf("AllPlayerStats: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d players, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].WinRate < all[i].WinRate {
			t.Errorf("not sorted by win rate at %d: %v < %v", i, all[i-1].WinRate, all[i].WinRate)
		}
	}
	if all[0].Name != "Alice" {
		t.Errorf("leader = %q, want Alice", all[0].Name)
	}
	if all[len(all)-1].Name != "Carol" {
		t.Errorf("last = %q, want Carol (0 wins)", all[len(all)-1].Name)
	}
}

func TestPlayerStatsScopeExcludesForeignTournaments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	mine := seedTournament(t, f, "Mine", 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	theirs := seedTournament(t, f, "Theirs", 2, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	when := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	seedMatch(t, f, mine.ID, "Alice", "Bob", "21-10", "10-21", "Women's Singles", when)
	seedMatch(t, f, theirs.ID, "Alice", "Bob", "10-21", "21-10", "Women's Singles", when)

	alice, err := f.roster.GetOrCreatePlayer(ctx, nil, "Alice")
	if err != nil {
		t.Fatalf("player lookup: %v", err)
	}

	viewer := 1
	stats, err := f.analytics.PlayerStats(ctx, alice.ID, &viewer)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if stats.Matches != 1 || stats.Wins != 1 {
		t.Errorf("scoped record = %d matches %d wins, want 1/1", stats.Matches, stats.Wins)
	}

	// Sharing the other tournament brings its match into scope.
	f.store.shares = append(f.store.shares, &models.SharedTournament{
		ID: f.store.id(), TournamentID: theirs.ID, OwnerID: 2, SharedWithID: 1,
	})
	stats, err = f.analytics.PlayerStats(ctx, alice.ID, &viewer)
	if err != nil {
		t.Fatalf("PlayerStats after share: %v", err)
	}
	if stats.Matches != 2 || stats.Wins != 1 || stats.Losses != 1 {
		t.Errorf("shared-scope record = %d/%d/%d, want 2/1/1", stats.Matches, stats.Wins, stats.Losses)
	}
}
