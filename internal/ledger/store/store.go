package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the connection pinned by AdvisoryLocker when ctx carries one.
func (s *Store) q(ctx context.Context) querier {
	if conn, ok := ctx.Value(lockedConnKey{}).(*sql.Conn); ok {
		return conn
	}

	return s.db
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row joined with its member.
// Expected column order: id, member_id, transaction_date, description, receipt_no, year,
// amount_in, amount_out, share_balance, bonus_balance, total_balance, remarks, created_by,
// created_at, member_no, full_name
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var receiptNo, year, remarks, memberNo, fullName sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.MemberID, &tx.Date, &tx.Description, &receiptNo, &year,
		&tx.AmountIn, &tx.AmountOut,
		&tx.Balances.Share, &tx.Balances.Bonus, &tx.Balances.Total,
		&remarks, &tx.CreatedBy, &tx.CreatedAt,
		&memberNo, &fullName,
	); err != nil {
		return nil, err
	}

	tx.ReceiptNo = receiptNo.String
	tx.Year = year.String
	tx.Remarks = remarks.String

	if memberNo.Valid {
		tx.Member = &ledger.MemberRef{
			ID:       tx.MemberID,
			MemberNo: memberNo.String,
			FullName: fullName.String,
		}
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.member_id, t.transaction_date, t.description, t.receipt_no, t.year,
	t.amount_in, t.amount_out, t.share_balance, t.bonus_balance, t.total_balance,
	t.remarks, t.created_by, t.created_at, m.member_no, m.full_name
`

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) FindMemberBalances(ctx context.Context, memberID int64) (ledger.Balances, error) {
	query := `SELECT share_balance, bonus_balance, total_balance FROM members WHERE id = $1`

	var b ledger.Balances

	err := s.q(ctx).QueryRowContext(ctx, query, memberID).Scan(&b.Share, &b.Bonus, &b.Total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Balances{}, &apperr.NotFoundError{Entity: "member", ID: fmt.Sprint(memberID)}
		}

		return ledger.Balances{}, fmt.Errorf("finding member balances: %w", err)
	}

	return b, nil
}

func (s *Store) InsertTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (
			member_id, transaction_date, description, receipt_no, year,
			amount_in, amount_out, share_balance, bonus_balance, total_balance,
			remarks, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING id, created_at
	`

	err := s.q(ctx).QueryRowContext(ctx, query,
		tx.MemberID,
		tx.Date,
		tx.Description,
		nullable(tx.ReceiptNo),
		nullable(tx.Year),
		tx.AmountIn,
		tx.AmountOut,
		tx.Balances.Share,
		tx.Balances.Bonus,
		tx.Balances.Total,
		nullable(tx.Remarks),
		tx.CreatedBy,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	return nil
}

func (s *Store) UpdateMemberBalances(ctx context.Context, memberID int64, expected, next ledger.Balances, updatedAt time.Time) error {
	query := `
		UPDATE members
		SET share_balance = $1, bonus_balance = $2, total_balance = $3, updated_at = $4
		WHERE id = $5 AND share_balance = $6 AND bonus_balance = $7
	`

	res, err := s.q(ctx).ExecContext(ctx, query,
		next.Share,
		next.Bonus,
		next.Total,
		updatedAt,
		memberID,
		expected.Share,
		expected.Bonus,
	)
	if err != nil {
		return fmt.Errorf("updating member balances: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return apperr.ErrConcurrentModification
	}

	return nil
}

// DeleteTransaction hard-deletes a ledger entry. Only compensation uses it.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := s.q(ctx).ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN members m ON t.member_id = m.id
		WHERE t.id = $1`

	tx, err := scanTransaction(s.q(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperr.NotFoundError{Entity: "transaction", ID: fmt.Sprint(id)}
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN members m ON t.member_id = m.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.MemberID != nil {
		query += fmt.Sprintf(" AND t.member_id = $%d", argIdx)

		args = append(args, *filter.MemberID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.transaction_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.transaction_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	if filter.MemberID != nil {
		query += " ORDER BY t.transaction_date ASC, t.id ASC"
	} else {
		query += " ORDER BY t.transaction_date DESC, t.id DESC"
	}

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}
