package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/repositories"
)

// SharingService grants and revokes read visibility into a tournament.
// Shared users see the tournament in their analytics scope; they never
// gain edit rights.
type SharingService interface {
	// ShareTournament shares an owned tournament with the user identified
	// by username or email.
	ShareTournament(ctx context.Context, ownerID, tournamentID int, identifier string) (*models.SharedTournament, error)
	Unshare(ctx context.Context, shareID, ownerID int) error
	ListOutgoing(ctx context.Context, ownerID int) ([]*models.SharedTournament, error)
	ListIncoming(ctx context.Context, userID int) ([]*models.SharedTournament, error)
}

type sharingService struct {
	shareRepo      repositories.ShareRepository
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
}

func NewSharingService(
	shareRepo repositories.ShareRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
) SharingService {
	return &sharingService{
		shareRepo:      shareRepo,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
	}
}

func (s *sharingService) ShareTournament(ctx context.Context, ownerID, tournamentID int, identifier string) (*models.SharedTournament, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrValidationFailed
	}

	// Ownership check doubles as existence check.
	if _, err := s.tournamentRepo.GetOwned(ctx, tournamentID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	target, err := s.resolveUser(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if target.ID == ownerID {
		return nil, ErrShareSelf
	}

	share := &models.SharedTournament{
		TournamentID: tournamentID,
		OwnerID:      ownerID,
		SharedWithID: target.ID,
	}
	if err := s.shareRepo.Create(ctx, share); err != nil {
		if errors.Is(err, repositories.ErrShareConflict) {
			return nil, ErrShareConflict
		}
		return nil, err
	}
	return share, nil
}

func (s *sharingService) Unshare(ctx context.Context, shareID, ownerID int) error {
	err := s.shareRepo.Delete(ctx, shareID, ownerID)
	if errors.Is(err, repositories.ErrShareNotFound) {
		return ErrShareNotFound
	}
	return err
}

func (s *sharingService) ListOutgoing(ctx context.Context, ownerID int) ([]*models.SharedTournament, error) {
	return s.shareRepo.ListByOwner(ctx, ownerID)
}

func (s *sharingService) ListIncoming(ctx context.Context, userID int) ([]*models.SharedTournament, error) {
	return s.shareRepo.ListBySharedWith(ctx, userID)
}

// resolveUser accepts a username or an email; anything with an "@" is
// treated as an email first, falling back to username lookup.
func (s *sharingService) resolveUser(ctx context.Context, identifier string) (*models.User, error) {
	var lookups []func(context.Context, string) (*models.User, error)
	if strings.Contains(identifier, "@") {
		lookups = []func(context.Context, string) (*models.User, error){s.userRepo.GetByEmail, s.userRepo.GetByUsername}
	} else {
		lookups = []func(context.Context, string) (*models.User, error){s.userRepo.GetByUsername, s.userRepo.GetByEmail}
	}

	for _, lookup := range lookups {
		user, err := lookup(ctx, identifier)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, err
		}
	}
	return nil, ErrUserNotFound
}
