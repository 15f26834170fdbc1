package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema statements are idempotent so `courtctl migrate` can run repeatedly.
// Match rows hang off tournaments with ON DELETE CASCADE: deleting a
// tournament deletes its matches, never its teams or players.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(150) NOT NULL UNIQUE,
		email         VARCHAR(150) NOT NULL UNIQUE,
		password_hash VARCHAR(256) NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		last_login    TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tournaments (
		id         SERIAL PRIMARY KEY,
		name       VARCHAR(200) NOT NULL,
		date       DATE NOT NULL,
		location   VARCHAR(200),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		user_id    INTEGER NOT NULL REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id   SERIAL PRIMARY KEY,
		name VARCHAR(150) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id         SERIAL PRIMARY KEY,
		player1_id INTEGER NOT NULL REFERENCES players(id),
		player2_id INTEGER REFERENCES players(id)
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id            SERIAL PRIMARY KEY,
		tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		round_name    VARCHAR(100) NOT NULL,
		group_name    VARCHAR(100),
		team1_id      INTEGER NOT NULL REFERENCES teams(id),
		team2_id      INTEGER NOT NULL REFERENCES teams(id),
		score1        VARCHAR(100) NOT NULL,
		score2        VARCHAR(100) NOT NULL,
		match_type    VARCHAR(50) NOT NULL,
		timestamp     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS shared_tournaments (
		id             SERIAL PRIMARY KEY,
		tournament_id  INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		owner_id       INTEGER NOT NULL REFERENCES users(id),
		shared_with_id INTEGER NOT NULL REFERENCES users(id),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT shared_tournaments_unique UNIQUE (tournament_id, shared_with_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_tournament_id ON matches(tournament_id)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_player1_id ON teams(player1_id)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_player2_id ON teams(player2_id)`,
	`CREATE INDEX IF NOT EXISTS idx_shared_tournaments_shared_with ON shared_tournaments(shared_with_id)`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
