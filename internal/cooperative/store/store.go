package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/cooperative"
)

// singletonID is the id of the only cooperative row.
const singletonID = 1

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetCooperative(ctx context.Context) (*cooperative.Cooperative, error) {
	query := `
		SELECT id, name, registration_number, address, email, phone, fax, created_at, updated_at
		FROM cooperative
		WHERE id = $1
	`

	var c cooperative.Cooperative

	var regNumber, address, email, phone, fax sql.NullString

	err := s.db.QueryRowContext(ctx, query, singletonID).Scan(
		&c.ID, &c.Name, &regNumber, &address, &email, &phone, &fax, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperr.NotFoundError{Entity: "cooperative", ID: fmt.Sprint(singletonID)}
		}

		return nil, fmt.Errorf("getting cooperative: %w", err)
	}

	c.RegistrationNumber = regNumber.String
	c.Address = address.String
	c.Email = email.String
	c.Phone = phone.String
	c.Fax = fax.String

	return &c, nil
}

// UpdateCooperative upserts the singleton row.
func (s *Store) UpdateCooperative(ctx context.Context, c *cooperative.Cooperative) error {
	query := `
		INSERT INTO cooperative (id, name, registration_number, address, email, phone, fax, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			registration_number = EXCLUDED.registration_number,
			address = EXCLUDED.address,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			fax = EXCLUDED.fax,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		singletonID,
		c.Name,
		c.RegistrationNumber,
		c.Address,
		c.Email,
		c.Phone,
		c.Fax,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating cooperative: %w", err)
	}

	return nil
}
