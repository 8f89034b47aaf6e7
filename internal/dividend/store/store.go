package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/coopledger/internal/dividend"
	"github.com/MrJamesThe3rd/coopledger/internal/member"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ActiveHolders(ctx context.Context) ([]dividend.Holder, error) {
	query := `
		SELECT id, member_no, full_name, share_balance
		FROM members
		WHERE status = $1 AND share_balance > 0
		ORDER BY member_no
	`

	rows, err := s.db.QueryContext(ctx, query, member.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("listing active holders: %w", err)
	}
	defer rows.Close()

	var holders []dividend.Holder

	for rows.Next() {
		var h dividend.Holder
		if err := rows.Scan(&h.MemberID, &h.MemberNo, &h.FullName, &h.Share); err != nil {
			return nil, fmt.Errorf("scanning holder: %w", err)
		}

		holders = append(holders, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holder rows: %w", err)
	}

	return holders, nil
}

func (s *Store) PaidMembers(ctx context.Context, year string) ([]int64, error) {
	query := `
		SELECT DISTINCT member_id
		FROM transactions
		WHERE year = $1 AND LOWER(description) LIKE 'dividend%' AND amount_in > 0
	`

	rows, err := s.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("listing paid members: %w", err)
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member id rows: %w", err)
	}

	return ids, nil
}
