package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/jamietsang/courtlog/repositories"
	"github.com/jamietsang/courtlog/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated statistics from the database",
}

var statsPlayersCmd = &cobra.Command{
	Use:   "players",
	Short: "Show win/loss records for every player",
	Args:  cobra.NoArgs,
	RunE:  runStatsPlayers,
}

var statsTournamentCmd = &cobra.Command{
	Use:   "tournament <id>",
	Short: "Show the summary of one tournament",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatsTournament,
}

func init() {
	statsCmd.AddCommand(statsPlayersCmd)
	statsCmd.AddCommand(statsTournamentCmd)
}

func openAnalytics() (services.AnalyticsService, func() error, error) {
	conn, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}
	analytics := services.NewAnalyticsService(
		repositories.NewPostgresPlayerRepository(conn),
		repositories.NewPostgresTeamRepository(conn),
		repositories.NewPostgresTournamentRepository(conn),
		repositories.NewPostgresMatchRepository(conn),
	)
	return analytics, conn.Close, nil
}

func newStatsTable(cmd *cobra.Command) *tablewriter.Table {
	return tablewriter.NewTable(cmd.OutOrStdout(), tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func runStatsPlayers(cmd *cobra.Command, args []string) error {
	analytics, closeDB, err := openAnalytics()
	if err != nil {
		return err
	}
	defer closeDB()

	// No user scope on the command line: the operator sees every
	// tournament in the database.
	players, err := analytics.AllPlayerStats(cmd.Context(), nil)
	if err != nil {
		return fmt.Errorf("aggregate player stats: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No players recorded yet. Run 'courtctl seed' or submit results through the API.")
		return nil
	}

	table := newStatsTable(cmd)
	table.Header("ID", "NAME", "MATCHES", "WINS", "LOSSES", "WIN%", "PTS FOR", "PTS AGAINST")
	for _, p := range players {
		table.Append(
			strconv.Itoa(p.ID),
			p.Name,
			strconv.Itoa(p.Matches),
			strconv.Itoa(p.Wins),
			strconv.Itoa(p.Losses),
			fmt.Sprintf("%.1f%%", p.WinRate),
			strconv.Itoa(p.PointsScored),
			strconv.Itoa(p.PointsConceded),
		)
	}
	table.Render()
	return nil
}

func runStatsTournament(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid tournament id %q", args[0])
	}

	analytics, closeDB, err := openAnalytics()
	if err != nil {
		return err
	}
	defer closeDB()

	stats, err := analytics.TournamentStats(cmd.Context(), id, nil)
	if err != nil {
		return fmt.Errorf("aggregate tournament stats: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s — %s", stats.Name, stats.Date)
	if stats.Location != "" {
		fmt.Fprintf(out, " @ %s", stats.Location)
	}
	fmt.Fprintf(out, "\nMatches: %d   Players: %d\n\n", stats.MatchCount, stats.PlayerCount)

	if len(stats.MatchTypes) > 0 {
		table := newStatsTable(cmd)
		table.Header("MATCH TYPE", "COUNT")
		for _, label := range sortedKeys(stats.MatchTypes) {
			table.Append(label, strconv.Itoa(stats.MatchTypes[label]))
		}
		table.Render()
		fmt.Fprintln(out)
	}

	if stats.LongestMatch != nil {
		fmt.Fprintf(out, "Longest match (%d sets): %s vs %s  %s / %s\n",
			stats.LongestMatch.Sets, stats.LongestMatch.Team1, stats.LongestMatch.Team2,
			stats.LongestMatch.Score1, stats.LongestMatch.Score2)
	}
	if stats.HighestScore != nil {
		fmt.Fprintf(out, "Highest score (%d points): %s vs %s  %s / %s\n",
			stats.HighestScore.TotalPoints, stats.HighestScore.Team1, stats.HighestScore.Team2,
			stats.HighestScore.Score1, stats.HighestScore.Score2)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
