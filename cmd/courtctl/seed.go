package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamietsang/courtlog/db"
	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/repositories"
	"github.com/jamietsang/courtlog/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample users, players, tournaments and matches",
	Long: `Populate the database with a small, deterministic sample data set:
two accounts (admin and testuser) and three tournaments of singles and
doubles matches owned by testuser. Safe to run more than once; existing
accounts are reused.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

type seedTournament struct {
	name      string
	monthsAgo int
	location  string
	matches   []services.MatchInput
}

var seedTournaments = []seedTournament{
	{
		name:      "Spring Championship",
		monthsAgo: 2,
		location:  "University Sports Hall",
		matches: []services.MatchInput{
			{Round: "Semifinal", Team1: "James Wilson", Team2: "Michael Scott", Score1: "21-15, 21-18", Score2: "15-21, 18-21", MatchType: "Men's Singles"},
			{Round: "Semifinal", Team1: "David Mitchell", Team2: "Robert Brown", Score1: "19-21, 21-16, 18-21", Score2: "21-19, 16-21, 21-18", MatchType: "Men's Singles"},
			{Round: "Final", Team1: "James Wilson", Team2: "Robert Brown", Score1: "21-12, 22-20", Score2: "12-21, 20-22", MatchType: "Men's Singles"},
			{Round: "Final", Team1: "Emma Johnson, Olivia Williams", Team2: "Sarah Jones, Jessica Smith", Score1: "21-17, 19-21, 21-14", Score2: "17-21, 21-19, 14-21", MatchType: "Women's Doubles"},
		},
	},
	{
		name:      "Summer Open",
		monthsAgo: 1,
		location:  "City Recreation Center",
		matches: []services.MatchInput{
			{Round: "Group Stage", Group: "Group A", Team1: "Emma Johnson", Team2: "Sarah Jones", Score1: "21-19, 21-23, 21-16", Score2: "19-21, 23-21, 16-21", MatchType: "Women's Singles"},
			{Round: "Group Stage", Group: "Group A", Team1: "Olivia Williams", Team2: "Emma Johnson", Score1: "14-21, 12-21", Score2: "21-14, 21-12", MatchType: "Women's Singles"},
			{Round: "Final", Team1: "James Wilson, David Mitchell", Team2: "Michael Scott, Robert Brown", Score1: "21-18, 18-21, 23-21", Score2: "18-21, 21-18, 21-23", MatchType: "Men's Doubles"},
		},
	},
	{
		name:      "City Championship",
		monthsAgo: 0,
		location:  "Downtown Stadium",
		matches: []services.MatchInput{
			{Round: "Quarterfinal", Team1: "Michael Scott", Team2: "David Mitchell", Score1: "21-16, 21-11", Score2: "16-21, 11-21", MatchType: "Men's Singles"},
			{Round: "Final", Team1: "James Wilson, Emma Johnson", Team2: "Michael Scott, Sarah Jones", Score1: "18-21, 21-15, 21-19", Score2: "21-18, 15-21, 19-21", MatchType: "Mixed Doubles"},
		},
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := cmd.Context()
	if err := db.EnsureSchema(ctx, conn); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	userRepo := repositories.NewPostgresUserRepository(conn)
	playerRepo := repositories.NewPostgresPlayerRepository(conn)
	teamRepo := repositories.NewPostgresTeamRepository(conn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(conn)
	matchRepo := repositories.NewPostgresMatchRepository(conn)

	authService := services.NewAuthService(userRepo)
	rosterService := services.NewRosterService(playerRepo, teamRepo)
	resultService := services.NewResultService(
		services.NewTxBeginner(conn), rosterService,
		playerRepo, teamRepo, tournamentRepo, matchRepo,
	)

	out := cmd.OutOrStdout()

	if _, err := ensureUser(ctx, authService, userRepo, "admin", "admin@example.com", "Admin!Passw0rd"); err != nil {
		return err
	}
	owner, err := ensureUser(ctx, authService, userRepo, "testuser", "test@example.com", "Test!Passw0rd")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "users ready: admin, testuser")

	now := time.Now()
	for _, t := range seedTournaments {
		tournament, err := resultService.SubmitResults(ctx, owner.ID, services.SubmitResultsInput{
			TournamentName: t.name,
			Date:           now.AddDate(0, -t.monthsAgo, 0),
			Location:       t.location,
			Matches:        t.matches,
		})
		if err != nil {
			return fmt.Errorf("seed tournament %q: %w", t.name, err)
		}
		fmt.Fprintf(out, "tournament %q created (id %d, %d matches)\n", tournament.Name, tournament.ID, len(t.matches))
	}

	players, err := playerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	fmt.Fprintf(out, "seed complete: %d players in the database\n", len(players))
	return nil
}

// ensureUser registers an account, falling back to the existing one when
// the username is already taken.
func ensureUser(ctx context.Context, auth services.AuthService, users repositories.UserRepository, username, email, password string) (*models.User, error) {
	user, err := auth.Register(ctx, services.RegisterInput{Username: username, Email: email, Password: password})
	if err == nil {
		return user, nil
	}
	if errors.Is(err, services.ErrUserUsernameConflict) || errors.Is(err, services.ErrUserEmailConflict) {
		return users.GetByUsername(ctx, username)
	}
	return nil, fmt.Errorf("register %s: %w", username, err)
}
