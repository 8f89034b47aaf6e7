package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
	"github.com/MrJamesThe3rd/coopledger/internal/member"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectMemberColumns = `
	m.id, m.member_no, m.title, m.full_name, m.national_id, m.date_of_birth,
	m.permanent_address, m.mailing_address, m.phone_number, m.email, m.occupation,
	m.join_date, m.approval_date, m.status, m.status_date, m.status_note,
	m.share_balance, m.bonus_balance, m.total_balance, m.created_at, m.updated_at
`

func memberDest(m *member.Member, status *string, email, statusNote *sql.NullString) []any {
	return []any{
		&m.ID, &m.MemberNo, &m.Title, &m.FullName, &m.NationalID, &m.DateOfBirth,
		&m.PermanentAddress, &m.MailingAddress, &m.PhoneNumber, email, &m.Occupation,
		&m.JoinDate, &m.ApprovalDate, status, &m.StatusDate, statusNote,
		&m.Balances.Share, &m.Balances.Bonus, &m.Balances.Total, &m.CreatedAt, &m.UpdatedAt,
	}
}

func scanMember(s scanner) (*member.Member, error) {
	var m member.Member

	var status string

	var email, statusNote sql.NullString

	if err := s.Scan(memberDest(&m, &status, &email, &statusNote)...); err != nil {
		return nil, err
	}

	m.Status = member.Status(status)
	m.Email = email.String
	m.StatusNote = statusNote.String

	return &m, nil
}

// scanMemberWithNominee expects the member columns followed by
// n.id, n.name, n.relationship, n.national_id, n.phone_number, n.created_at, n.updated_at
// from a LEFT JOIN on nominees.
func scanMemberWithNominee(s scanner) (*member.Member, error) {
	var m member.Member

	var status string

	var email, statusNote sql.NullString

	var (
		nomineeID                                sql.NullInt64
		name, relationship, nationalID, phoneNum sql.NullString
		nomineeCreated, nomineeUpdated           sql.NullTime
	)

	dest := append(memberDest(&m, &status, &email, &statusNote),
		&nomineeID, &name, &relationship, &nationalID, &phoneNum, &nomineeCreated, &nomineeUpdated,
	)

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	m.Status = member.Status(status)
	m.Email = email.String
	m.StatusNote = statusNote.String

	if nomineeID.Valid {
		m.Nominee = &member.Nominee{
			ID:           nomineeID.Int64,
			MemberID:     m.ID,
			Name:         name.String,
			Relationship: relationship.String,
			NationalID:   nationalID.String,
			PhoneNumber:  phoneNum.String,
			CreatedAt:    nomineeCreated.Time,
			UpdatedAt:    nomineeUpdated.Time,
		}
	}

	return &m, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func duplicateMemberNo(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "members_member_no_key" {
		return apperr.Invalid("memberNo", "Member number already exists")
	}

	return nil
}

// CreateMember inserts the member, its nominee and its opening ledger entry in
// one database transaction.
func (s *Store) CreateMember(ctx context.Context, m *member.Member, nominee *member.Nominee, initial *ledger.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	memberQuery := `
		INSERT INTO members (
			member_no, title, full_name, national_id, date_of_birth,
			permanent_address, mailing_address, phone_number, email, occupation,
			join_date, status, share_balance, bonus_balance, total_balance,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, memberQuery,
		m.MemberNo,
		m.Title,
		m.FullName,
		m.NationalID,
		m.DateOfBirth,
		m.PermanentAddress,
		m.MailingAddress,
		m.PhoneNumber,
		nullable(m.Email),
		m.Occupation,
		m.JoinDate,
		m.Status,
		m.Balances.Share,
		m.Balances.Bonus,
		m.Balances.Total,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if dup := duplicateMemberNo(err); dup != nil {
			return dup
		}

		return fmt.Errorf("inserting member: %w", err)
	}

	if nominee != nil {
		nominee.MemberID = m.ID
		if err := insertNominee(ctx, dbTx, nominee); err != nil {
			return err
		}
	}

	if initial != nil {
		initial.MemberID = m.ID

		txQuery := `
			INSERT INTO transactions (
				member_id, transaction_date, description, amount_in, amount_out,
				share_balance, bonus_balance, total_balance, created_by, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			RETURNING id, created_at
		`

		err := dbTx.QueryRowContext(ctx, txQuery,
			initial.MemberID,
			initial.Date,
			initial.Description,
			initial.AmountIn,
			initial.AmountOut,
			initial.Balances.Share,
			initial.Balances.Bonus,
			initial.Balances.Total,
			initial.CreatedBy,
		).Scan(&initial.ID, &initial.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting initial share transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func insertNominee(ctx context.Context, dbTx *sql.Tx, n *member.Nominee) error {
	query := `
		INSERT INTO nominees (member_id, name, relationship, national_id, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (member_id) DO UPDATE
		SET name = EXCLUDED.name,
			relationship = EXCLUDED.relationship,
			national_id = EXCLUDED.national_id,
			phone_number = EXCLUDED.phone_number,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := dbTx.QueryRowContext(ctx, query,
		n.MemberID,
		n.Name,
		nullable(n.Relationship),
		nullable(n.NationalID),
		nullable(n.PhoneNumber),
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting nominee: %w", err)
	}

	return nil
}

func (s *Store) GetMember(ctx context.Context, id int64) (*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + `,
			n.id, n.name, n.relationship, n.national_id, n.phone_number, n.created_at, n.updated_at
		FROM members m
		LEFT JOIN nominees n ON n.member_id = m.id
		WHERE m.id = $1`

	m, err := scanMemberWithNominee(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperr.NotFoundError{Entity: "member", ID: fmt.Sprint(id)}
		}

		return nil, fmt.Errorf("getting member: %w", err)
	}

	return m, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members m ORDER BY m.member_no ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*member.Member

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return members, nil
}

// UpdateMember writes the member's descriptive fields and applies the nominee
// change. Balance columns are not part of the statement.
func (s *Store) UpdateMember(ctx context.Context, m *member.Member, nominee member.NomineeChange) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE members
		SET member_no = $1, title = $2, full_name = $3, national_id = $4, date_of_birth = $5,
			permanent_address = $6, mailing_address = $7, phone_number = $8, email = $9,
			occupation = $10, join_date = $11, status = $12, status_date = $13, status_note = $14,
			updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		m.MemberNo,
		m.Title,
		m.FullName,
		m.NationalID,
		m.DateOfBirth,
		m.PermanentAddress,
		m.MailingAddress,
		m.PhoneNumber,
		nullable(m.Email),
		m.Occupation,
		m.JoinDate,
		m.Status,
		m.StatusDate,
		nullable(m.StatusNote),
		m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &apperr.NotFoundError{Entity: "member", ID: fmt.Sprint(m.ID)}
		}

		if dup := duplicateMemberNo(err); dup != nil {
			return dup
		}

		return fmt.Errorf("updating member: %w", err)
	}

	switch {
	case nominee.Set != nil:
		nominee.Set.MemberID = m.ID
		if err := insertNominee(ctx, dbTx, nominee.Set); err != nil {
			return err
		}
	case nominee.Remove:
		if _, err := dbTx.ExecContext(ctx, `DELETE FROM nominees WHERE member_id = $1`, m.ID); err != nil {
			return fmt.Errorf("deleting nominee: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeleteMember relies on ON DELETE CASCADE for nominees, transactions and
// benefits.
func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return &apperr.NotFoundError{Entity: "member", ID: fmt.Sprint(id)}
	}

	return nil
}

func (s *Store) Stats(ctx context.Context) (*member.Stats, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total_balance), 0)
		FROM members
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("computing member stats: %w", err)
	}
	defer rows.Close()

	stats := &member.Stats{ByStatus: make(map[member.Status]int)}

	for rows.Next() {
		var status string

		var count int

		var sum decimal.Decimal

		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, fmt.Errorf("scanning member stats: %w", err)
		}

		stats.ByStatus[member.Status(status)] = count
		stats.Total += count
		stats.TotalBalance = stats.TotalBalance.Add(sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member stats: %w", err)
	}

	return stats, nil
}
