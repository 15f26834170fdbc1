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
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrTournamentInvalidRef = errors.New("invalid tournament owner reference")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	// GetOwned returns the tournament only when it belongs to the user.
	GetOwned(ctx context.Context, id, userID int) (*models.Tournament, error)
	// ListVisible returns tournaments owned by or shared with the user.
	// A nil userID means no scope filter (every tournament).
	ListVisible(ctx context.Context, userID *int) ([]*models.Tournament, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Tournament, error)
	// Delete removes the tournament; its matches go with it via the
	// ON DELETE CASCADE on matches.tournament_id.
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `id, name, date, location, created_at, user_id`

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (name, date, location, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, t.Name, t.Date, t.Location, t.UserID).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "tournaments_user_id_fkey" {
			return ErrTournamentInvalidRef
		}
		return fmt.Errorf("failed to create tournament %q: %w", t.Name, err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetOwned(ctx context.Context, id, userID int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *postgresTournamentRepository) ListVisible(ctx context.Context, userID *int) ([]*models.Tournament, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID != nil {
		query := `
			SELECT DISTINCT t.id, t.name, t.date, t.location, t.created_at, t.user_id
			FROM tournaments t
			LEFT JOIN shared_tournaments st ON st.tournament_id = t.id
			WHERE t.user_id = $1 OR st.shared_with_id = $1
			ORDER BY t.date DESC, t.id DESC`
		rows, err = r.db.QueryContext(ctx, query, *userID)
	} else {
		query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY date DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query visible tournaments: %w", err)
	}
	defer rows.Close()

	return scanTournaments(rows)
}

func (r *postgresTournamentRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Tournament, error) {
	if len(ids) == 0 {
		return []*models.Tournament{}, nil
	}
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = ANY($1) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments by ids: %w", err)
	}
	defer rows.Close()

	return scanTournaments(rows)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) scanOne(row *sql.Row) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(&t.ID, &t.Name, &t.Date, &t.Location, &t.CreatedAt, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament: %w", err)
	}
	return t, nil
}

func scanTournaments(rows *sql.Rows) ([]*models.Tournament, error) {
	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Date, &t.Location, &t.CreatedAt, &t.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}
