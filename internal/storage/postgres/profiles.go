package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
)

const profileColumns = `id, user_id, first_name, last_name, pesel, date_of_birth, email, phone_number,
                        address, house_number, flat_number, postal_code, city, created_at, updated_at`

func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	const query = `INSERT INTO profiles (id, user_id, first_name, last_name, pesel, date_of_birth, email,
                       phone_number, address, house_number, flat_number, postal_code, city)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		p.ID, p.UserID, p.FirstName, p.LastName, p.PESEL, p.DateOfBirth, p.Email,
		p.PhoneNumber, p.Address, p.HouseNumber, p.FlatNumber, p.PostalCode, p.City,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	return r.get(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id)
}

func (r *profileRepository) GetByUser(ctx context.Context, userID int64) (*model.Profile, error) {
	return r.get(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id=$1`, userID)
}

func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	const query = `UPDATE profiles SET first_name=$2, last_name=$3, pesel=$4, date_of_birth=$5, email=$6,
                       phone_number=$7, address=$8, house_number=$9, flat_number=$10, postal_code=$11,
                       city=$12, updated_at=NOW()
                   WHERE id=$1
                   RETURNING updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		p.ID, p.FirstName, p.LastName, p.PESEL, p.DateOfBirth, p.Email,
		p.PhoneNumber, p.Address, p.HouseNumber, p.FlatNumber, p.PostalCode, p.City,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *profileRepository) get(ctx context.Context, query string, arg any) (*model.Profile, error) {
	var p model.Profile
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.PESEL, &p.DateOfBirth, &p.Email, &p.PhoneNumber,
		&p.Address, &p.HouseNumber, &p.FlatNumber, &p.PostalCode, &p.City, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
