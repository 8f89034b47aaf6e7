package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// FindMemberBalances returns apperr.ErrNotFound when the member does not exist.
	FindMemberBalances(ctx context.Context, memberID int64) (Balances, error)
	InsertTransaction(ctx context.Context, tx *Transaction) error
	// UpdateMemberBalances writes next only while the stored balances still
	// equal expected, and returns apperr.ErrConcurrentModification otherwise.
	UpdateMemberBalances(ctx context.Context, memberID int64, expected, next Balances, updatedAt time.Time) error
	DeleteTransaction(ctx context.Context, id int64) error

	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
}

// Locker scopes the read-compute-write sequence of one member. Repository
// calls made with the returned context run inside the lock's scope, so a
// locker backed by a database session can carry that session to the store.
type Locker interface {
	Lock(ctx context.Context, memberID int64) (locked context.Context, unlock func(), err error)
}

type Service struct {
	repo     Repository
	locker   Locker
	notifier views.Notifier
	tracer   trace.Tracer
	now      func() time.Time
}

// NewService builds the ledger engine. A nil locker defaults to a LocalLocker
// and a nil notifier to views.Nop.
func NewService(repo Repository, locker Locker, notifier views.Notifier) *Service {
	if locker == nil {
		locker = NewLocalLocker()
	}

	if notifier == nil {
		notifier = views.Nop
	}

	return &Service{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		tracer:   otel.Tracer("github.com/MrJamesThe3rd/coopledger/internal/ledger"),
		now:      time.Now,
	}
}

// RecordTransaction validates raw, applies it to the member's balances and
// persists both the ledger entry and the new balances. If the balance update
// fails after the entry was inserted, the entry is deleted again.
func (s *Service) RecordTransaction(ctx context.Context, raw validation.Values) (*Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.RecordTransaction")
	defer span.End()

	tx, err := s.record(ctx, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("ledger.member_id", tx.MemberID),
		attribute.Int64("ledger.transaction_id", tx.ID),
	)

	return tx, nil
}

func (s *Service) record(ctx context.Context, raw validation.Values) (*Transaction, error) {
	req, err := validation.Parse[validation.TransactionRequest](raw)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(validation.DateLayout, req.TransactionDate)
	if err != nil {
		return nil, apperr.Invalid("transactionDate", "Expected a date in YYYY-MM-DD format")
	}

	ctx, unlock, err := s.locker.Lock(ctx, req.MemberID)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "lock member balances", Err: err}
	}
	defer unlock()

	current, err := s.repo.FindMemberBalances(ctx, req.MemberID)
	if err != nil {
		return nil, &apperr.MemberLookupError{MemberID: req.MemberID, Err: err}
	}

	move, err := Compute(Type(req.TransactionType), req.Amount, current)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = req.TransactionType
	}

	tx := &Transaction{
		MemberID:    req.MemberID,
		Date:        date,
		Description: description,
		ReceiptNo:   req.ReceiptNo,
		Year:        req.Year,
		AmountIn:    move.AmountIn,
		AmountOut:   move.AmountOut,
		Balances:    move.Balances,
		Remarks:     req.Remarks,
		CreatedBy:   SystemActor,
	}

	if err := s.repo.InsertTransaction(ctx, tx); err != nil {
		return nil, &apperr.PersistenceError{Op: "insert transaction", Err: err}
	}

	if err := s.repo.UpdateMemberBalances(ctx, req.MemberID, current, move.Balances, s.now()); err != nil {
		s.compensate(ctx, tx, err)
		return nil, &apperr.PersistenceError{Op: "update member balances", Err: err}
	}

	s.notifier.Changed(ctx, views.MemberDetail(req.MemberID))
	s.notifier.Changed(ctx, views.Transactions)

	return tx, nil
}

// compensate deletes a ledger entry whose balance update failed. A failed
// delete leaves an orphaned entry behind; it is logged for reconciliation and
// otherwise ignored.
func (s *Service) compensate(ctx context.Context, tx *Transaction, cause error) {
	ctx = context.WithoutCancel(ctx)

	if err := s.repo.DeleteTransaction(ctx, tx.ID); err != nil {
		slog.ErrorContext(ctx, "ledger compensation failed, orphaned transaction needs reconciliation",
			"transaction_id", tx.ID,
			"member_id", tx.MemberID,
			"cause", cause,
			"error", err,
		)

		return
	}

	slog.WarnContext(ctx, "ledger transaction compensated",
		"transaction_id", tx.ID,
		"member_id", tx.MemberID,
		"cause", cause,
	)
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction %d: %w", id, err)
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Statement lists a member's transactions oldest first.
func (s *Service) Statement(ctx context.Context, memberID int64) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{MemberID: &memberID})
}
