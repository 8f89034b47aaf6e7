// Package dividend computes a yearly dividend across active members as a
// percentage of their share balance. It only plans: payouts are recorded by
// hand as ordinary dividend entries through the ledger.
package dividend

import (
	"time"

	"github.com/shopspring/decimal"
)

// Description suggests the label of a payout entry for year at rate percent.
func Description(year string, rate decimal.Decimal) string {
	return "Dividend " + year + " @ " + rate.StringFixed(2) + "%"
}

// Holder is an active member with a positive share balance.
type Holder struct {
	MemberID int64
	MemberNo string
	FullName string
	Share    decimal.Decimal
}

// Line is the payout planned for one holder.
type Line struct {
	Holder Holder
	Amount decimal.Decimal
}

type Plan struct {
	Rate        decimal.Decimal
	Date        time.Time
	Year        string
	Description string

	// ShareBase is the summed share balance of every active holder, paid or not.
	ShareBase   decimal.Decimal
	Total       decimal.Decimal
	Lines       []Line
	AlreadyPaid []Holder
}
