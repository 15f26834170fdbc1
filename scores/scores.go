// Package scores parses badminton set-score strings and resolves match
// winners. A score string is a comma-separated list of set tokens, one
// "<points>-<points>" pair per set, e.g. "21-19, 19-21, 21-18". Submitted
// data is messy: tokens may be non-numeric, malformed, or the two sides'
// strings may disagree on set count. Every function here absorbs bad
// tokens instead of failing.
package scores

import (
	"strconv"
	"strings"
)

const setSeparator = ", "

// Outcome identifies which side of a match won.
type Outcome int

const (
	// Undetermined is reserved for future winner rules that can decline to
	// pick a side. ResolveWinner as specified today never returns it, but
	// callers are required to handle it rather than assume a winner exists.
	Undetermined Outcome = iota
	Team1
	Team2
)

func (o Outcome) String() string {
	switch o {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	default:
		return "undetermined"
	}
}

// splitSet parses one "a-b" token. ok is false for wrong arity or
// non-numeric parts.
func splitSet(token string) (a, b int, ok bool) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return a, b, true
}

// firstNumber extracts a side's own points from its token: the digits before
// the first dash. Winner resolution deliberately looks at no more than this,
// so a token with a garbled second half still counts toward set wins even
// though SideTotals drops it.
func firstNumber(token string) (int, bool) {
	head, _, _ := strings.Cut(token, "-")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SideTotals sums the point pairs of one side's score string across all
// parseable sets. Malformed tokens contribute nothing; a fully malformed
// or empty string yields (0, 0).
func SideTotals(score string) (own, opponent int) {
	for _, token := range strings.Split(score, setSeparator) {
		a, b, ok := splitSet(token)
		if !ok {
			continue
		}
		own += a
		opponent += b
	}
	return own, opponent
}

// SetCount returns the number of set tokens in a score string. Note that
// splitting an empty string still yields one (empty) token; the longest-match
// metric depends on this counting matching the split used everywhere else.
func SetCount(score string) int {
	return len(strings.Split(score, setSeparator))
}

// TotalPoints sums both numbers of every parseable set token, the metric
// behind the highest-scoring-match highlight.
func TotalPoints(score string) int {
	total := 0
	for _, token := range strings.Split(score, setSeparator) {
		a, b, ok := splitSet(token)
		if !ok {
			continue
		}
		total += a + b
	}
	return total
}

// ResolveWinner determines the winning side from the two raw score strings.
// Sets are compared pairwise up to the shorter token list, each side's own
// points taken from the first number of its own token. A set goes to team 1
// only when its points are strictly greater; ties fall to team 2. The match
// goes to team 1 only when it won strictly more sets, so a 0-0 set tally
// (including fully unparseable input) resolves to team 2. That asymmetry is
// long-standing recorded behavior and must not change.
func ResolveWinner(score1, score2 string) Outcome {
	sets1 := strings.Split(score1, setSeparator)
	sets2 := strings.Split(score2, setSeparator)

	n := len(sets1)
	if len(sets2) < n {
		n = len(sets2)
	}

	var wins1, wins2 int
	for i := 0; i < n; i++ {
		p1, ok1 := firstNumber(sets1[i])
		p2, ok2 := firstNumber(sets2[i])
		if !ok1 || !ok2 {
			continue
		}
		if p1 > p2 {
			wins1++
		} else {
			wins2++
		}
	}

	if wins1 > wins2 {
		return Team1
	}
	return Team2
}
