package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jamietsang/courtlog/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchInvalidTournament = errors.New("match references an invalid tournament")
	ErrMatchInvalidTeam       = errors.New("match references an invalid team")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	// GetOwned returns the match only when its tournament belongs to the user.
	GetOwned(ctx context.Context, id, userID int) (*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, id int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// ListVisible returns matches from tournaments owned by or shared with
	// the user, newest first. A nil userID means every match.
	ListVisible(ctx context.Context, userID *int) ([]*models.Match, error)
	// ListBetweenTeamSets returns matches where one side's team is in setA
	// and the other side's is in setB, in either orientation.
	ListBetweenTeamSets(ctx context.Context, setA, setB []int) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, round_name, group_name, team1_id, team2_id, score1, score2, match_type, timestamp`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, round_name, group_name, team1_id, team2_id, score1, score2, match_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, timestamp`

	err := executor.QueryRowContext(ctx, query,
		m.TournamentID, m.RoundName, m.GroupName,
		m.Team1ID, m.Team2ID, m.Score1, m.Score2, m.MatchType,
	).Scan(&m.ID, &m.Timestamp)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetOwned(ctx context.Context, id, userID int) (*models.Match, error) {
	query := `
		SELECT m.id, m.tournament_id, m.round_name, m.group_name, m.team1_id, m.team2_id,
		       m.score1, m.score2, m.match_type, m.timestamp
		FROM matches m
		JOIN tournaments t ON t.id = m.tournament_id
		WHERE m.id = $1 AND t.user_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET tournament_id = $1, round_name = $2, group_name = $3,
		    team1_id = $4, team2_id = $5, score1 = $6, score2 = $7, match_type = $8
		WHERE id = $9`

	result, err := executor.ExecContext(ctx, query,
		m.TournamentID, m.RoundName, m.GroupName,
		m.Team1ID, m.Team2ID, m.Score1, m.Score2, m.MatchType, m.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func (r *postgresMatchRepository) ListVisible(ctx context.Context, userID *int) ([]*models.Match, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID != nil {
		query := `
			SELECT DISTINCT m.id, m.tournament_id, m.round_name, m.group_name, m.team1_id, m.team2_id,
			       m.score1, m.score2, m.match_type, m.timestamp
			FROM matches m
			JOIN tournaments t ON t.id = m.tournament_id
			LEFT JOIN shared_tournaments st ON st.tournament_id = t.id
			WHERE t.user_id = $1 OR st.shared_with_id = $1
			ORDER BY m.timestamp DESC, m.id DESC`
		rows, err = r.db.QueryContext(ctx, query, *userID)
	} else {
		query := `SELECT ` + matchColumns + ` FROM matches ORDER BY timestamp DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query visible matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func (r *postgresMatchRepository) ListBetweenTeamSets(ctx context.Context, setA, setB []int) ([]*models.Match, error) {
	if len(setA) == 0 || len(setB) == 0 {
		return []*models.Match{}, nil
	}
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE (team1_id = ANY($1) AND team2_id = ANY($2))
		   OR (team1_id = ANY($2) AND team2_id = ANY($1))
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(setA), pq.Array(setB))
	if err != nil {
		return nil, fmt.Errorf("failed to query matches between team sets: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func (r *postgresMatchRepository) scanOne(row *sql.Row) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.RoundName, &m.GroupName,
		&m.Team1ID, &m.Team2ID, &m.Score1, &m.Score2, &m.MatchType, &m.Timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return m, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchInvalidTournament
		case "matches_team1_id_fkey", "matches_team2_id_fkey":
			return ErrMatchInvalidTeam
		}
	}
	return err
}

func scanMatches(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.RoundName, &m.GroupName,
			&m.Team1ID, &m.Team2ID, &m.Score1, &m.Score2, &m.MatchType, &m.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}
