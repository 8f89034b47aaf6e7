package cooperative

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

// Cooperative holds the settings of the single cooperative the ledger belongs to.
type Cooperative struct {
	ID                 int64
	Name               string
	RegistrationNumber string
	Address            string
	Email              string
	Phone              string
	Fax                string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=cooperative
type Repository interface {
	GetCooperative(ctx context.Context) (*Cooperative, error)
	UpdateCooperative(ctx context.Context, c *Cooperative) error
}

type Service struct {
	repo     Repository
	notifier views.Notifier
}

func NewService(repo Repository, notifier views.Notifier) *Service {
	if notifier == nil {
		notifier = views.Nop
	}

	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) Get(ctx context.Context) (*Cooperative, error) {
	c, err := s.repo.GetCooperative(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting cooperative: %w", err)
	}

	return c, nil
}

func (s *Service) Update(ctx context.Context, raw validation.Values) (*Cooperative, error) {
	req, err := validation.Parse[validation.CooperativeRequest](raw)
	if err != nil {
		return nil, err
	}

	c := &Cooperative{
		Name:               req.Name,
		RegistrationNumber: req.RegNumber,
		Address:            req.Address,
		Email:              req.Email,
		Phone:              req.Phone,
		Fax:                req.Fax,
	}

	if err := s.repo.UpdateCooperative(ctx, c); err != nil {
		return nil, &apperr.PersistenceError{Op: "update cooperative", Err: err}
	}

	s.notifier.Changed(ctx, views.Settings)

	return c, nil
}
