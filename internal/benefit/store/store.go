package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/benefit"
)

const foreignKeyViolation = "23503"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, member_id, benefit_type, amount, status, claimed_at, created_at, updated_at
func scanBenefit(s scanner) (*benefit.Benefit, error) {
	var b benefit.Benefit

	var status string

	if err := s.Scan(
		&b.ID, &b.MemberID, &b.BenefitType, &b.Amount, &status,
		&b.ClaimedAt, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Status = benefit.Status(status)

	return &b, nil
}

const selectBenefitColumns = `id, member_id, benefit_type, amount, status, claimed_at, created_at, updated_at`

func (s *Store) GetBenefit(ctx context.Context, id uuid.UUID) (*benefit.Benefit, error) {
	query := `SELECT ` + selectBenefitColumns + ` FROM benefits WHERE id = $1`

	b, err := scanBenefit(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperr.NotFoundError{Entity: "benefit", ID: id.String()}
		}

		return nil, fmt.Errorf("getting benefit: %w", err)
	}

	return b, nil
}

func (s *Store) ClaimIfAvailable(ctx context.Context, id uuid.UUID, claimedAt time.Time) (*benefit.Benefit, error) {
	query := `
		UPDATE benefits
		SET status = $1, claimed_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + selectBenefitColumns

	b, err := scanBenefit(s.db.QueryRowContext(ctx, query,
		benefit.StatusClaimed,
		claimedAt,
		id,
		benefit.StatusAvailable,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrAlreadyClaimed
		}

		return nil, fmt.Errorf("claiming benefit: %w", err)
	}

	return b, nil
}

func (s *Store) InsertBenefit(ctx context.Context, b *benefit.Benefit) error {
	query := `
		INSERT INTO benefits (id, member_id, benefit_type, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		b.ID,
		b.MemberID,
		b.BenefitType,
		b.Amount,
		b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return &apperr.NotFoundError{Entity: "member", ID: fmt.Sprint(b.MemberID)}
		}

		return fmt.Errorf("inserting benefit: %w", err)
	}

	return nil
}

func (s *Store) ListBenefits(ctx context.Context, filter benefit.ListFilter) ([]*benefit.Benefit, error) {
	query := `SELECT ` + selectBenefitColumns + ` FROM benefits WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.MemberID != nil {
		query += fmt.Sprintf(" AND member_id = $%d", argIdx)

		args = append(args, *filter.MemberID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing benefits: %w", err)
	}
	defer rows.Close()

	var benefits []*benefit.Benefit

	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning benefit: %w", err)
		}

		benefits = append(benefits, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating benefit rows: %w", err)
	}

	return benefits, nil
}
