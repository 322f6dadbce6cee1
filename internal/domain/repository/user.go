package repository

import (
	"context"

	"github.com/ezla-online/portal/internal/domain/model"
)

// UserRepository describes persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// Delete erases the account together with its profiles and cases.
	// It returns the ids of the erased cases.
	Delete(ctx context.Context, id int64) ([]string, error)
}
