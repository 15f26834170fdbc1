package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/repositories"
	"github.com/jamietsang/courtlog/storage"
)

// ImportResultsInput describes a post-tournament results CSV upload.
// The CSV carries a header row followed by
// team1, team2, score1, score2, round, match_type columns.
type ImportResultsInput struct {
	TournamentName string
	Date           string
	Location       string
	Filename       string
	UserID         int
}

// ImportSummary reports what an import actually persisted.
type ImportSummary struct {
	PlayersCreated int    `json:"players_created,omitempty"`
	MatchesCreated int    `json:"matches_created,omitempty"`
	TournamentID   int    `json:"tournament_id,omitempty"`
	ArchiveURL     string `json:"archive_url,omitempty"`
}

// ImportService handles CSV bulk loads. Raw upload bytes are archived to
// object storage when an uploader is configured; archival failure is
// logged and never fails the import.
type ImportService interface {
	ImportPlayers(ctx context.Context, file io.Reader, filename string) (*ImportSummary, error)
	ImportResults(ctx context.Context, file io.Reader, input ImportResultsInput) (*ImportSummary, error)
}

type importService struct {
	db             TxBeginner
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	roster         RosterService
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewImportService(
	db TxBeginner,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	roster RosterService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ImportService {
	return &importService{
		db:             db,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		roster:         roster,
		uploader:       uploader,
		logger:         logger,
	}
}

// ImportPlayers loads a pre-tournament roster CSV: one player name in the
// first column of each row, header row skipped, names resolved with the
// same find-or-create as match submission.
func (s *importService) ImportPlayers(ctx context.Context, file io.Reader, filename string) (*ImportSummary, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	rows, err := readCSV(raw)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	summary := &ImportSummary{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if _, err := s.roster.GetOrCreatePlayer(ctx, tx, row[0]); err != nil {
			return nil, err
		}
		summary.PlayersCreated++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	summary.ArchiveURL = s.archive(ctx, "imports/players", filename, raw)
	return summary, nil
}

// ImportResults loads a post-tournament results CSV into a new tournament.
// The whole file lands in one transaction; a doubles self-play row aborts
// the entire import, same as manual submission.
func (s *importService) ImportResults(ctx context.Context, file io.Reader, input ImportResultsInput) (*ImportSummary, error) {
	if strings.TrimSpace(input.TournamentName) == "" || strings.TrimSpace(input.Date) == "" {
		return nil, ErrTournamentDetailsRequired
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tournament date %q", ErrValidationFailed, input.Date)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	rows, err := readCSV(raw)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tournament := &models.Tournament{
		Name:   strings.TrimSpace(input.TournamentName),
		Date:   date,
		UserID: input.UserID,
	}
	if loc := strings.TrimSpace(input.Location); loc != "" {
		tournament.Location = &loc
	}
	if err := s.tournamentRepo.Create(ctx, tx, tournament); err != nil {
		return nil, err
	}

	summary := &ImportSummary{TournamentID: tournament.ID}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 4 {
			continue // not enough columns to be a match row
		}

		team1, err := s.roster.ProcessTeam(ctx, tx, row[0])
		if err != nil {
			return nil, err
		}
		team2, err := s.roster.ProcessTeam(ctx, tx, row[1])
		if err != nil {
			return nil, err
		}

		match := &models.Match{
			TournamentID: tournament.ID,
			RoundName:    columnOrDefault(row, 4, "Unknown"),
			Team1ID:      team1.ID,
			Team2ID:      team2.ID,
			Score1:       row[2],
			Score2:       row[3],
			MatchType:    columnOrDefault(row, 5, "Unknown"),
			Timestamp:    time.Now(),
		}
		if match.IsDoubles() && !ValidateMatchPlayers(team1, team2) {
			return nil, fmt.Errorf("%w (in match #%d)", ErrPlayerBothSides, summary.MatchesCreated+1)
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return nil, err
		}
		summary.MatchesCreated++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	summary.ArchiveURL = s.archive(ctx, "imports/results", input.Filename, raw)
	return summary, nil
}

// archive stores the raw upload for audit. Best effort only.
func (s *importService) archive(ctx context.Context, prefix, filename string, raw []byte) string {
	if s.uploader == nil {
		return ""
	}
	key := fmt.Sprintf("%s/%d-%s", prefix, time.Now().UnixNano(), sanitizeFilename(filename))
	result, err := s.uploader.Upload(ctx, key, "text/csv", bytes.NewReader(raw))
	if err != nil {
		s.logger.Error("failed to archive import file", slog.String("key", key), slog.Any("error", err))
		return ""
	}
	return result.Location
}

func readCSV(raw []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1 // rows vary; short rows are filtered later
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed CSV: %v", ErrValidationFailed, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty CSV file", ErrValidationFailed)
	}
	return rows, nil
}

func columnOrDefault(row []string, idx int, fallback string) string {
	if idx >= len(row) {
		return fallback
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return fallback
	}
	return v
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload.csv"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	return replacer.Replace(name)
}
