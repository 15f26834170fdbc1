package scores

import "testing"

func TestSideTotalsWellFormed(t *testing.T) {
	own, opp := SideTotals("21-19, 19-21, 21-18")
	if own != 61 || opp != 58 {
		t.Errorf("SideTotals = (%d, %d), want (61, 58)", own, opp)
	}
}

func TestSideTotalsSkipsMalformedTokens(t *testing.T) {
	// Only the well-formed tokens contribute.
	own, opp := SideTotals("21-19, garbage, 21-x, 15-21, 21-19-3")
	if own != 36 || opp != 40 {
		t.Errorf("SideTotals = (%d, %d), want (36, 40)", own, opp)
	}
}

func TestSideTotalsFullyMalformed(t *testing.T) {
	for _, score := range []string{"", "nonsense", "a-b, c-d", "21:19"} {
		own, opp := SideTotals(score)
		if own != 0 || opp != 0 {
			t.Errorf("SideTotals(%q) = (%d, %d), want (0, 0)", score, own, opp)
		}
	}
}

func TestSetCount(t *testing.T) {
	cases := []struct {
		score string
		want  int
	}{
		{"21-19, 19-21, 21-18", 3},
		{"21-19", 1},
		// An empty score still splits to a single token; the longest-match
		// metric relies on this.
		{"", 1},
	}
	for _, c := range cases {
		if got := SetCount(c.score); got != c.want {
			t.Errorf("SetCount(%q) = %d, want %d", c.score, got, c.want)
		}
	}
}

func TestTotalPoints(t *testing.T) {
	if got := TotalPoints("21-19, 19-21, 21-18"); got != 119 {
		t.Errorf("TotalPoints = %d, want 119", got)
	}
	if got := TotalPoints("junk, 10-8"); got != 18 {
		t.Errorf("TotalPoints with junk token = %d, want 18", got)
	}
	if got := TotalPoints(""); got != 0 {
		t.Errorf("TotalPoints(\"\") = %d, want 0", got)
	}
}

func TestResolveWinnerStraightSets(t *testing.T) {
	if got := ResolveWinner("21-19, 21-15", "19-21, 15-21"); got != Team1 {
		t.Errorf("winner = %v, want Team1", got)
	}
}

func TestResolveWinnerThreeSets(t *testing.T) {
	if got := ResolveWinner("19-21, 21-19, 18-21", "21-19, 19-21, 21-18"); got != Team2 {
		t.Errorf("winner = %v, want Team2", got)
	}
}

func TestResolveWinnerEmptyDefaultsToTeam2(t *testing.T) {
	if got := ResolveWinner("", ""); got != Team2 {
		t.Errorf("winner of empty scores = %v, want Team2", got)
	}
}

func TestResolveWinnerTieSetFallsToTeam2(t *testing.T) {
	// A tied set counts for team 2; with one tied set and nothing else,
	// team 2 takes the match.
	if got := ResolveWinner("20-20", "20-20"); got != Team2 {
		t.Errorf("winner of tied set = %v, want Team2", got)
	}
}

func TestResolveWinnerUnparseableNeverPanics(t *testing.T) {
	inputs := [][2]string{
		{"garbage", "more garbage"},
		{"21-19", ""},
		{"", "21-19"},
		{"21-19, 21-15", "19-21"},
		{"-,-", "-,-"},
	}
	for _, in := range inputs {
		got := ResolveWinner(in[0], in[1])
		if got != Team1 && got != Team2 {
			t.Errorf("ResolveWinner(%q, %q) = %v, want a decided side", in[0], in[1], got)
		}
	}
}

func TestResolveWinnerMismatchedLengthsUsePrefix(t *testing.T) {
	// Only the overlapping first set is compared: 21 > 19, so team 1 wins
	// despite team 2's extra recorded sets.
	if got := ResolveWinner("21-19", "19-21, 21-5, 21-5"); got != Team1 {
		t.Errorf("winner = %v, want Team1", got)
	}
}

func TestResolveWinnerIgnoresGarbledSecondHalf(t *testing.T) {
	// Winner resolution reads each side's own points only, so "21-xx" still
	// counts as 21 for the set comparison.
	if got := ResolveWinner("21-xx, 21-15", "19-21, 15-21"); got != Team1 {
		t.Errorf("winner = %v, want Team1", got)
	}
}
