package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardLeaderLimit = 10
	dashboardMonths      = 6
)

// TypeCount is one slice of the match-type distribution.
type TypeCount struct {
	MatchType string `json:"match_type"`
	Count     int    `json:"count"`
}

// WinRateEntry is one row of the win-rate leaderboard.
type WinRateEntry struct {
	Name    string  `json:"name"`
	WinRate float64 `json:"win_rate"`
	Matches int     `json:"matches"`
}

// PointsEntry is one row of the points leaderboard.
type PointsEntry struct {
	Name        string  `json:"name"`
	Scored      int     `json:"scored"`
	Conceded    int     `json:"conceded"`
	AvgPerMatch float64 `json:"avg_per_match"`
}

// MonthCount is one month of the trailing match-count series.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Dashboard bundles the chart aggregates for one scope.
type Dashboard struct {
	MatchTypes     []TypeCount    `json:"match_types"`
	WinRateLeaders []WinRateEntry `json:"win_rate_leaders"`
	PointsLeaders  []PointsEntry  `json:"points_leaders"`
	MonthlyMatches []MonthCount   `json:"monthly_matches"`
}

// Dashboard computes the chart aggregates concurrently. Everything is
// read-only, so the goroutines share nothing but the scope.
func (s *analyticsService) Dashboard(ctx context.Context, userID *int) (*Dashboard, error) {
	dash := &Dashboard{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		types, err := s.matchTypeDistribution(ctx, userID)
		if err != nil {
			return err
		}
		dash.MatchTypes = types
		return nil
	})
	g.Go(func() error {
		players, err := s.AllPlayerStats(ctx, userID)
		if err != nil {
			return err
		}
		dash.WinRateLeaders = winRateLeaders(players)
		dash.PointsLeaders = pointsLeaders(players)
		return nil
	})
	g.Go(func() error {
		monthly, err := s.monthlyMatchCounts(ctx, userID, dashboardMonths)
		if err != nil {
			return err
		}
		dash.MonthlyMatches = monthly
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dash, nil
}

func (s *analyticsService) matchTypeDistribution(ctx context.Context, userID *int) ([]TypeCount, error) {
	matches, err := s.matchRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, m := range matches {
		counts[m.MatchType]++
	}

	types := make([]TypeCount, 0, len(counts))
	for matchType, count := range counts {
		types = append(types, TypeCount{MatchType: matchType, Count: count})
	}
	sort.Slice(types, func(i, j int) bool { return types[i].MatchType < types[j].MatchType })
	return types, nil
}

// winRateLeaders takes the top entries of an already win-rate-sorted list.
func winRateLeaders(players []*PlayerStats) []WinRateEntry {
	leaders := make([]WinRateEntry, 0, dashboardLeaderLimit)
	for _, p := range players {
		if len(leaders) == dashboardLeaderLimit {
			break
		}
		leaders = append(leaders, WinRateEntry{Name: p.Name, WinRate: p.WinRate, Matches: p.Matches})
	}
	return leaders
}

func pointsLeaders(players []*PlayerStats) []PointsEntry {
	entries := make([]PointsEntry, 0, len(players))
	for _, p := range players {
		avg := 0.0
		if p.Matches > 0 {
			avg = round1(float64(p.PointsScored) / float64(p.Matches))
		}
		entries = append(entries, PointsEntry{
			Name:        p.Name,
			Scored:      p.PointsScored,
			Conceded:    p.PointsConceded,
			AvgPerMatch: avg,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].AvgPerMatch > entries[j].AvgPerMatch })
	if len(entries) > dashboardLeaderLimit {
		entries = entries[:dashboardLeaderLimit]
	}
	return entries
}

// monthlyMatchCounts buckets the trailing window by calendar month, with
// zero entries for months that saw no matches.
func (s *analyticsService) monthlyMatchCounts(ctx context.Context, userID *int, months int) ([]MonthCount, error) {
	matches, err := s.matchRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	start := now.AddDate(0, 0, -30*months)

	buckets := make(map[string]int)
	order := make([]string, 0, months+1)
	for cursor := start; !cursor.After(now); cursor = nextMonth(cursor) {
		key := cursor.Format("2006-01")
		buckets[key] = 0
		order = append(order, key)
	}

	for _, m := range matches {
		if m.Timestamp.Before(start) {
			continue
		}
		key := m.Timestamp.Format("2006-01")
		if _, ok := buckets[key]; ok {
			buckets[key]++
		}
	}

	monthly := make([]MonthCount, 0, len(order))
	for _, key := range order {
		t, err := time.Parse("2006-01", key)
		if err != nil {
			return nil, err
		}
		monthly = append(monthly, MonthCount{Month: t.Format("Jan 2006"), Count: buckets[key]})
	}
	return monthly, nil
}

func nextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
}
