package member

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=member
type Repository interface {
	// CreateMember inserts the member, its nominee and its opening ledger entry
	// atomically. nominee and initial may be nil.
	CreateMember(ctx context.Context, mem *Member, nominee *Nominee, initial *ledger.Transaction) error
	GetMember(ctx context.Context, id int64) (*Member, error)
	ListMembers(ctx context.Context) ([]*Member, error)
	UpdateMember(ctx context.Context, mem *Member, nominee NomineeChange) error
	DeleteMember(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*Stats, error)
}

type Service struct {
	repo     Repository
	notifier views.Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier views.Notifier) *Service {
	if notifier == nil {
		notifier = views.Nop
	}

	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// parseBoth validates the member part and the nominee part of one input and
// reports the errors of both together.
func parseBoth[T any](raw validation.Values) (T, validation.NomineeRequest, error) {
	res := validation.SafeParse[T](raw)
	nom := validation.SafeParse[validation.NomineeRequest](raw)

	if !res.OK || !nom.OK {
		var zero T

		fields := append(append([]apperr.FieldError{}, res.Errors...), nom.Errors...)

		return zero, validation.NomineeRequest{}, &apperr.ValidationError{Fields: fields}
	}

	return res.Value, nom.Value, nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(validation.DateLayout, s)
	if err != nil {
		return nil
	}

	return &t
}

func nomineeFrom(req validation.NomineeRequest) *Nominee {
	if req.Name == nil || *req.Name == "" {
		return nil
	}

	return &Nominee{
		Name:         *req.Name,
		Relationship: req.Relationship,
		NationalID:   req.NationalID,
		PhoneNumber:  req.PhoneNumber,
	}
}

// Create registers a member. A positive initial share opens the member's
// ledger with an "Initial Share" entry dated on the join date, or today.
func (s *Service) Create(ctx context.Context, raw validation.Values) (*Member, error) {
	req, nomReq, err := parseBoth[validation.MemberRequest](raw)
	if err != nil {
		return nil, err
	}

	initial := req.InitialShare.Round(2)

	m := &Member{
		MemberNo:         req.MemberNo,
		Title:            req.Title,
		FullName:         req.FullName,
		NationalID:       req.NationalID,
		DateOfBirth:      parseDate(req.DateOfBirth),
		PermanentAddress: req.PermanentAddress,
		MailingAddress:   req.MailingAddress,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		Occupation:       req.Occupation,
		JoinDate:         parseDate(req.JoinDate),
		Status:           StatusActive,
		Balances: ledger.Balances{
			Share: initial,
			Bonus: decimal.Zero,
			Total: initial,
		},
	}

	var opening *ledger.Transaction

	if initial.IsPositive() {
		date := s.today()
		if m.JoinDate != nil {
			date = *m.JoinDate
		}

		opening = &ledger.Transaction{
			Date:        date,
			Description: InitialShareDescription,
			AmountIn:    initial,
			AmountOut:   decimal.Zero,
			Balances:    m.Balances,
			CreatedBy:   ledger.SystemActor,
		}
	}

	nominee := nomineeFrom(nomReq)

	if err := s.repo.CreateMember(ctx, m, nominee, opening); err != nil {
		if apperr.IsClientError(err) {
			return nil, err
		}

		return nil, &apperr.PersistenceError{Op: "create member", Err: err}
	}

	m.Nominee = nominee

	s.notifier.Changed(ctx, views.Members)

	return m, nil
}

func (s *Service) today() time.Time {
	y, mo, d := s.now().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Update applies the fields present in raw. Balances are never touched. A
// present but empty nomineeName removes the nominee.
func (s *Service) Update(ctx context.Context, id int64, raw validation.Values) (*Member, error) {
	req, nomReq, err := parseBoth[validation.MemberUpdateRequest](raw)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting member %d: %w", id, err)
	}

	setString(&m.MemberNo, req.MemberNo)
	setString(&m.Title, req.Title)
	setString(&m.FullName, req.FullName)
	setString(&m.NationalID, req.NationalID)
	setDate(&m.DateOfBirth, req.DateOfBirth)
	setString(&m.PermanentAddress, req.PermanentAddress)
	setString(&m.MailingAddress, req.MailingAddress)
	setString(&m.PhoneNumber, req.PhoneNumber)
	setString(&m.Email, req.Email)
	setString(&m.Occupation, req.Occupation)
	setDate(&m.JoinDate, req.JoinDate)
	setDate(&m.StatusDate, req.StatusDate)
	setString(&m.StatusNote, req.StatusNote)

	if req.Status != nil {
		m.Status = Status(*req.Status)
	}

	var change NomineeChange

	if nomReq.Name != nil {
		if n := nomineeFrom(nomReq); n != nil {
			n.MemberID = id
			change.Set = n
		} else if m.Nominee != nil {
			change.Remove = true
		}
	}

	if err := s.repo.UpdateMember(ctx, m, change); err != nil {
		if apperr.IsClientError(err) {
			return nil, err
		}

		return nil, &apperr.PersistenceError{Op: "update member", Err: err}
	}

	switch {
	case change.Set != nil:
		m.Nominee = change.Set
	case change.Remove:
		m.Nominee = nil
	}

	s.notifier.Changed(ctx, views.MemberDetail(id))
	s.notifier.Changed(ctx, views.Members)

	return m, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDate(dst **time.Time, v *string) {
	if v != nil {
		*dst = parseDate(*v)
	}
}

// Delete removes the member together with its nominee, transactions and
// benefits.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMember(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return err
		}

		return &apperr.PersistenceError{Op: "delete member", Err: err}
	}

	s.notifier.Changed(ctx, views.MemberDetail(id))
	s.notifier.Changed(ctx, views.Members)

	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Member, error) {
	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting member %d: %w", id, err)
	}

	return m, nil
}

// List returns every member ordered by member number.
func (s *Service) List(ctx context.Context) ([]*Member, error) {
	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	return members, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing member stats: %w", err)
	}

	return stats, nil
}
