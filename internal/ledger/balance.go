package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
)

// Movement is the outcome of applying a transaction to a member's balances.
type Movement struct {
	AmountIn  decimal.Decimal
	AmountOut decimal.Decimal
	Balances  Balances
}

// Compute applies a transaction of type t and the given amount to cur.
//
// Withdrawals are checked against the share balance. Fees are checked against
// the total balance but deducted from the share balance, so a member with a
// large bonus balance can end up with a negative share balance. Unknown types
// credit the share balance for positive amounts and debit it by the magnitude
// otherwise, without any sufficiency check.
func Compute(t Type, amount decimal.Decimal, cur Balances) (Movement, error) {
	in, out := decimal.Zero, decimal.Zero
	share, bonus := cur.Share, cur.Bonus

	switch t {
	case TypeDeposit:
		in = amount
		share = share.Add(amount)
	case TypeWithdrawal:
		if cur.Share.LessThan(amount) {
			return Movement{}, &apperr.InsufficientBalanceError{Available: cur.Share, Requested: amount}
		}

		out = amount
		share = share.Sub(amount)
	case TypeDividend:
		in = amount
		bonus = bonus.Add(amount)
	case TypeFee:
		if cur.Total.LessThan(amount) {
			return Movement{}, &apperr.InsufficientBalanceError{Available: cur.Total, Requested: amount}
		}

		out = amount
		share = share.Sub(amount)
	default:
		if amount.IsPositive() {
			in = amount
			share = share.Add(amount)
		} else {
			out = amount.Abs()
			share = share.Sub(out)
		}
	}

	return Movement{
		AmountIn:  in,
		AmountOut: out,
		Balances: Balances{
			Share: share,
			Bonus: bonus,
			Total: share.Add(bonus),
		},
	}, nil
}
