package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jamietsang/courtlog/models"
	"github.com/lib/pq"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	// FindByPair looks a team up by its roster. A two-player pair is
	// unordered: (a, b) and (b, a) hit the same row. A nil player2 matches
	// the singles slot only.
	FindByPair(ctx context.Context, exec SQLExecutor, player1ID int, player2ID *int) (*models.Team, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error)
	// ListContainingPlayer returns every team the player has ever been part
	// of, in either slot, across singles and doubles.
	ListContainingPlayer(ctx context.Context, playerID int) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO teams (player1_id, player2_id) VALUES ($1, $2) RETURNING id`

	if err := executor.QueryRowContext(ctx, query, team.Player1ID, team.Player2ID).Scan(&team.ID); err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) FindByPair(ctx context.Context, exec SQLExecutor, player1ID int, player2ID *int) (*models.Team, error) {
	executor := r.getExecutor(exec)

	var row *sql.Row
	if player2ID != nil {
		query := `
			SELECT id, player1_id, player2_id FROM teams
			WHERE (player1_id = $1 AND player2_id = $2)
			   OR (player1_id = $2 AND player2_id = $1)
			ORDER BY id LIMIT 1`
		row = executor.QueryRowContext(ctx, query, player1ID, *player2ID)
	} else {
		query := `
			SELECT id, player1_id, player2_id FROM teams
			WHERE player1_id = $1 AND player2_id IS NULL
			ORDER BY id LIMIT 1`
		row = executor.QueryRowContext(ctx, query, player1ID)
	}

	team := &models.Team{}
	err := row.Scan(&team.ID, &team.Player1ID, &team.Player2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by pair: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	query := `SELECT id, player1_id, player2_id FROM teams WHERE id = ANY($1) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query teams by ids: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

func (r *postgresTeamRepository) ListContainingPlayer(ctx context.Context, playerID int) ([]*models.Team, error) {
	query := `
		SELECT id, player1_id, player2_id FROM teams
		WHERE player1_id = $1 OR player2_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams containing player %d: %w", playerID, err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

func scanTeams(rows *sql.Rows) ([]*models.Team, error) {
	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Player1ID, &t.Player2ID); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}
