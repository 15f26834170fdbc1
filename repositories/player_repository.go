package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jamietsang/courtlog/models"
	"github.com/lib/pq"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	// GetByName is an exact-string lookup; callers trim before calling.
	GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Player, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO players (name) VALUES ($1) RETURNING id`

	if err := executor.QueryRowContext(ctx, query, player.Name).Scan(&player.ID); err != nil {
		return fmt.Errorf("failed to create player %q: %w", player.Name, err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, name FROM players WHERE id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&player.ID, &player.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by id %d: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Player, error) {
	executor := r.getExecutor(exec)
	// Oldest row wins when duplicates exist; duplicate names are a known
	// data condition resolved manually, not here.
	query := `SELECT id, name FROM players WHERE name = $1 ORDER BY id LIMIT 1`

	player := &models.Player{}
	err := executor.QueryRowContext(ctx, query, name).Scan(&player.ID, &player.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by name %q: %w", name, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	if len(ids) == 0 {
		return []*models.Player{}, nil
	}
	query := `SELECT id, name FROM players WHERE id = ANY($1) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query players by ids: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT id, name FROM players ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func scanPlayers(rows *sql.Rows) ([]*models.Player, error) {
	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}
