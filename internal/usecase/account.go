package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ezla-online/portal/internal/adapter/archive"
	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/domain/repository"
)

// AccountUseCase manages the account profile and its erasure.
type AccountUseCase struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	archive  archive.Archive
	logger   *slog.Logger
}

// NewAccountUseCase constructs AccountUseCase.
func NewAccountUseCase(users repository.UserRepository, profiles repository.ProfileRepository, store archive.Archive, logger *slog.Logger) *AccountUseCase {
	return &AccountUseCase{users: users, profiles: profiles, archive: store, logger: logger}
}

// Profile returns the stored profile of the account.
func (u *AccountUseCase) Profile(ctx context.Context, userID int64) (*model.Profile, error) {
	return u.profiles.GetByUser(ctx, userID)
}

// SaveProfile validates and creates or replaces the account profile.
func (u *AccountUseCase) SaveProfile(ctx context.Context, userID int64, in model.Profile) (*model.Profile, error) {
	if err := ValidateProfile(&in); err != nil {
		return nil, err
	}
	in.UserID = &userID

	existing, err := u.profiles.GetByUser(ctx, userID)
	switch {
	case err == nil:
		in.ID = existing.ID
		in.CreatedAt = existing.CreatedAt
		if err := u.profiles.Update(ctx, &in); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	case errors.Is(err, domainErrors.ErrNotFound):
		in.ID = uuid.NewString()
		if err := u.profiles.Create(ctx, &in); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	default:
		return nil, err
	}
	return &in, nil
}

// DeleteAccount erases the account with all its data. Archived summaries
// are removed afterwards; failures there are logged only.
func (u *AccountUseCase) DeleteAccount(ctx context.Context, userID int64) error {
	erased, err := u.users.Delete(ctx, userID)
	if err != nil {
		return err
	}
	u.logger.Info("account erased", slog.Int64("user_id", userID), slog.Int("cases", len(erased)))
	if len(erased) == 0 {
		return nil
	}
	if err := u.archive.Remove(ctx, erased); err != nil {
		u.logger.Warn("summary cleanup incomplete", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	return nil
}
