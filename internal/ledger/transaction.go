package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the kind of balance movement requested. It decides which of
// AmountIn/AmountOut is set and which balance moves; it is not persisted.
type Type string

const (
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
	TypeDividend   Type = "dividend"
	TypeFee        Type = "fee"
)

// SystemActor is recorded as the creator of engine-generated transactions.
const SystemActor = "System"

// Balances are the three monetary fields of a member. Total is always
// Share + Bonus.
type Balances struct {
	Share decimal.Decimal
	Bonus decimal.Decimal
	Total decimal.Decimal
}

// Transaction is an immutable ledger entry. Balances is the member's balance
// snapshot as of immediately after this entry.
type Transaction struct {
	ID          int64
	MemberID    int64
	Date        time.Time
	Description string
	ReceiptNo   string
	Year        string
	AmountIn    decimal.Decimal
	AmountOut   decimal.Decimal
	Balances    Balances
	Remarks     string
	CreatedBy   string
	CreatedAt   time.Time
	Member      *MemberRef // Loaded via JOIN
}

// MemberRef is the slice of a member shown next to its transactions.
type MemberRef struct {
	ID       int64
	MemberNo string
	FullName string
}

// ListFilter narrows ListTransactions. With MemberID set the result is the
// member's statement in chronological order; otherwise newest first.
type ListFilter struct {
	MemberID  *int64
	StartDate *time.Time
	EndDate   *time.Time
}
