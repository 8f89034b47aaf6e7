package member

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusResigned Status = "resigned"
	StatusDeceased Status = "deceased"
)

// InitialShareDescription labels the ledger entry written when a member joins
// with a non-zero share.
const InitialShareDescription = "Initial Share"

type Member struct {
	ID               int64
	MemberNo         string
	Title            string
	FullName         string
	NationalID       string
	DateOfBirth      *time.Time
	PermanentAddress string
	MailingAddress   string
	PhoneNumber      string
	Email            string
	Occupation       string
	JoinDate         *time.Time
	ApprovalDate     *time.Time
	Status           Status
	StatusDate       *time.Time
	StatusNote       string
	Balances         ledger.Balances
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Nominee          *Nominee // Loaded by GetMember only
}

// Nominee is the person designated to receive a member's entitlements. A
// member has at most one.
type Nominee struct {
	ID           int64
	MemberID     int64
	Name         string
	Relationship string
	NationalID   string
	PhoneNumber  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NomineeChange describes what an update does to the member's nominee. The
// zero value leaves it untouched.
type NomineeChange struct {
	Set    *Nominee
	Remove bool
}

type Stats struct {
	Total        int
	ByStatus     map[Status]int
	TotalBalance decimal.Decimal
}
