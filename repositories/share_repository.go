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
	ErrShareNotFound = errors.New("share not found")
	ErrShareConflict = errors.New("tournament is already shared with this user")
)

type ShareRepository interface {
	Create(ctx context.Context, share *models.SharedTournament) error
	// Delete removes a share, but only when the caller owns it.
	Delete(ctx context.Context, id, ownerID int) error
	ListByOwner(ctx context.Context, ownerID int) ([]*models.SharedTournament, error)
	ListBySharedWith(ctx context.Context, userID int) ([]*models.SharedTournament, error)
}

type postgresShareRepository struct {
	db *sql.DB
}

func NewPostgresShareRepository(db *sql.DB) ShareRepository {
	return &postgresShareRepository{db: db}
}

const shareColumns = `id, tournament_id, owner_id, shared_with_id, created_at`

func (r *postgresShareRepository) Create(ctx context.Context, s *models.SharedTournament) error {
	query := `
		INSERT INTO shared_tournaments (tournament_id, owner_id, shared_with_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, s.TournamentID, s.OwnerID, s.SharedWithID).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "shared_tournaments_unique" {
			return ErrShareConflict
		}
		return fmt.Errorf("failed to create share: %w", err)
	}
	return nil
}

func (r *postgresShareRepository) Delete(ctx context.Context, id, ownerID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shared_tournaments WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete share %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrShareNotFound)
}

func (r *postgresShareRepository) ListByOwner(ctx context.Context, ownerID int) ([]*models.SharedTournament, error) {
	query := `SELECT ` + shareColumns + ` FROM shared_tournaments WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, ownerID)
}

func (r *postgresShareRepository) ListBySharedWith(ctx context.Context, userID int) ([]*models.SharedTournament, error) {
	query := `SELECT ` + shareColumns + ` FROM shared_tournaments WHERE shared_with_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresShareRepository) list(ctx context.Context, query string, arg interface{}) ([]*models.SharedTournament, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query shares: %w", err)
	}
	defer rows.Close()

	shares := make([]*models.SharedTournament, 0)
	for rows.Next() {
		var s models.SharedTournament
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.OwnerID, &s.SharedWithID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan share row: %w", err)
		}
		shares = append(shares, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during share rows iteration: %w", err)
	}
	return shares, nil
}
