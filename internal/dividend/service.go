package dividend

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=dividend
type Repository interface {
	ActiveHolders(ctx context.Context) ([]Holder, error)
	// PaidMembers lists members already holding a dividend entry for year.
	PaidMembers(ctx context.Context, year string) ([]int64, error)
}

var hundred = decimal.NewFromInt(100)

type Service struct {
	repo   Repository
	tracer trace.Tracer
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		tracer: otel.Tracer("github.com/MrJamesThe3rd/coopledger/internal/dividend"),
	}
}

// Preview computes what a dividend at the requested rate would pay each
// active holder. Nothing is written.
func (s *Service) Preview(ctx context.Context, raw validation.Values) (*Plan, error) {
	ctx, span := s.tracer.Start(ctx, "dividend.Preview")
	defer span.End()

	req, err := validation.Parse[validation.DividendRequest](raw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	date, err := time.Parse(validation.DateLayout, req.Date)
	if err != nil {
		return nil, apperr.Invalid("date", "Expected a date in YYYY-MM-DD format")
	}

	span.SetAttributes(attribute.String("dividend.year", req.Year), attribute.String("dividend.rate", req.Rate.String()))

	var (
		holders []Holder
		paidIDs []int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if holders, err = s.repo.ActiveHolders(gctx); err != nil {
			return &apperr.PersistenceError{Op: "list active holders", Err: err}
		}

		return nil
	})

	g.Go(func() error {
		var err error
		if paidIDs, err = s.repo.PaidMembers(gctx, req.Year); err != nil {
			return &apperr.PersistenceError{Op: "list paid members", Err: err}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	p := plan(holders, paidIDs, req.Rate)
	p.Date = date
	p.Year = req.Year
	p.Description = Description(req.Year, req.Rate)

	return p, nil
}

func plan(holders []Holder, paidIDs []int64, rate decimal.Decimal) *Plan {
	paid := make(map[int64]bool, len(paidIDs))
	for _, id := range paidIDs {
		paid[id] = true
	}

	p := &Plan{Rate: rate}

	for _, h := range holders {
		p.ShareBase = p.ShareBase.Add(h.Share)

		if paid[h.MemberID] {
			p.AlreadyPaid = append(p.AlreadyPaid, h)
			continue
		}

		amount := h.Share.Mul(rate).Div(hundred).Round(2)
		if !amount.IsPositive() {
			continue
		}

		p.Lines = append(p.Lines, Line{Holder: h, Amount: amount})
		p.Total = p.Total.Add(amount)
	}

	return p
}
