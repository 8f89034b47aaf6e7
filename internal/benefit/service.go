package benefit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=benefit
type Repository interface {
	GetBenefit(ctx context.Context, id uuid.UUID) (*Benefit, error)
	// ClaimIfAvailable marks the benefit claimed only while its status is still
	// available, and returns apperr.ErrAlreadyClaimed when nothing was updated.
	ClaimIfAvailable(ctx context.Context, id uuid.UUID, claimedAt time.Time) (*Benefit, error)
	InsertBenefit(ctx context.Context, b *Benefit) error
	ListBenefits(ctx context.Context, filter ListFilter) ([]*Benefit, error)
}

// ListFilter narrows ListBenefits. Results are newest first.
type ListFilter struct {
	MemberID *int64
	Status   *Status
}

type Service struct {
	repo     Repository
	notifier views.Notifier
	tracer   trace.Tracer
	now      func() time.Time
}

func NewService(repo Repository, notifier views.Notifier) *Service {
	if notifier == nil {
		notifier = views.Nop
	}

	return &Service{
		repo:     repo,
		notifier: notifier,
		tracer:   otel.Tracer("github.com/MrJamesThe3rd/coopledger/internal/benefit"),
		now:      time.Now,
	}
}

// Claim moves an available benefit to claimed.
func (s *Service) Claim(ctx context.Context, id string) (*Benefit, error) {
	ctx, span := s.tracer.Start(ctx, "benefit.Claim")
	defer span.End()

	b, err := s.claim(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(
		attribute.String("benefit.id", b.ID.String()),
		attribute.Int64("benefit.member_id", b.MemberID),
	)

	return b, nil
}

func (s *Service) claim(ctx context.Context, id string) (*Benefit, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Invalid("benefitId", "Benefit is required")
	}

	benefitID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Invalid("benefitId", "Invalid benefit id")
	}

	current, err := s.repo.GetBenefit(ctx, benefitID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}

		return nil, &apperr.PersistenceError{Op: "get benefit", Err: err}
	}

	if current.Status != StatusAvailable {
		return nil, &apperr.AlreadyClaimedError{BenefitID: id, ClaimedAt: current.ClaimedAt}
	}

	claimed, err := s.repo.ClaimIfAvailable(ctx, benefitID, s.now())
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyClaimed) {
			return nil, &apperr.AlreadyClaimedError{BenefitID: id}
		}

		return nil, &apperr.PersistenceError{Op: "claim benefit", Err: err}
	}

	s.notifier.Changed(ctx, views.MemberDetail(claimed.MemberID))

	return claimed, nil
}

// Grant creates an available benefit for a member.
func (s *Service) Grant(ctx context.Context, raw validation.Values) (*Benefit, error) {
	req, err := validation.Parse[validation.BenefitRequest](raw)
	if err != nil {
		return nil, err
	}

	b := &Benefit{
		ID:          uuid.New(),
		MemberID:    req.MemberID,
		BenefitType: req.BenefitType,
		Amount:      req.Amount,
		Status:      StatusAvailable,
	}

	if err := s.repo.InsertBenefit(ctx, b); err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}

		return nil, &apperr.PersistenceError{Op: "insert benefit", Err: err}
	}

	s.notifier.Changed(ctx, views.MemberDetail(b.MemberID))

	return b, nil
}

func (s *Service) ListByMember(ctx context.Context, memberID int64) ([]*Benefit, error) {
	benefits, err := s.repo.ListBenefits(ctx, ListFilter{MemberID: &memberID})
	if err != nil {
		return nil, fmt.Errorf("listing benefits of member %d: %w", memberID, err)
	}

	return benefits, nil
}

// ListAvailable returns every benefit still waiting to be claimed.
func (s *Service) ListAvailable(ctx context.Context) ([]*Benefit, error) {
	status := StatusAvailable

	benefits, err := s.repo.ListBenefits(ctx, ListFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("listing available benefits: %w", err)
	}

	return benefits, nil
}
