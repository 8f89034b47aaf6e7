package benefit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusClaimed   Status = "claimed"
)

// Benefit is an entitlement granted to a member. It moves from available to
// claimed exactly once.
type Benefit struct {
	ID          uuid.UUID
	MemberID    int64
	BenefitType string
	Amount      decimal.Decimal
	Status      Status
	ClaimedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
