package repository

import (
	"context"

	"github.com/ezla-online/portal/internal/domain/model"
)

// ProfileRepository stores requester personal data.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUser(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
}
