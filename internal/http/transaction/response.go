package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

type transactionResponse struct {
	ID              int64           `json:"id"`
	MemberID        int64           `json:"member_id"`
	TransactionDate string          `json:"transaction_date"`
	Description     string          `json:"description"`
	ReceiptNo       string          `json:"receipt_no,omitempty"`
	Year            string          `json:"year,omitempty"`
	AmountIn        decimal.Decimal `json:"amount_in"`
	AmountOut       decimal.Decimal `json:"amount_out"`
	ShareBalance    decimal.Decimal `json:"share_balance"`
	BonusBalance    decimal.Decimal `json:"bonus_balance"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	Remarks         string          `json:"remarks,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	Member          *memberResponse `json:"member,omitempty"`
}

type memberResponse struct {
	ID       int64  `json:"id"`
	MemberNo string `json:"member_no"`
	FullName string `json:"full_name"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:              tx.ID,
		MemberID:        tx.MemberID,
		TransactionDate: tx.Date.Format(validation.DateLayout),
		Description:     tx.Description,
		ReceiptNo:       tx.ReceiptNo,
		Year:            tx.Year,
		AmountIn:        tx.AmountIn,
		AmountOut:       tx.AmountOut,
		ShareBalance:    tx.Balances.Share,
		BonusBalance:    tx.Balances.Bonus,
		TotalBalance:    tx.Balances.Total,
		Remarks:         tx.Remarks,
		CreatedBy:       tx.CreatedBy,
		CreatedAt:       tx.CreatedAt,
	}

	if tx.Member != nil {
		resp.Member = &memberResponse{
			ID:       tx.Member.ID,
			MemberNo: tx.Member.MemberNo,
			FullName: tx.Member.FullName,
		}
	}

	return resp
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
