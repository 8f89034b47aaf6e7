package member

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/member"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

type memberResponse struct {
	ID               int64            `json:"id"`
	MemberNo         string           `json:"member_no"`
	Title            string           `json:"title"`
	FullName         string           `json:"full_name"`
	NationalID       string           `json:"national_id"`
	DateOfBirth      *string          `json:"date_of_birth"`
	PermanentAddress string           `json:"permanent_address"`
	MailingAddress   string           `json:"mailing_address"`
	PhoneNumber      string           `json:"phone_number"`
	Email            string           `json:"email"`
	Occupation       string           `json:"occupation"`
	JoinDate         *string          `json:"join_date"`
	ApprovalDate     *string          `json:"approval_date"`
	Status           member.Status    `json:"status"`
	StatusDate       *string          `json:"status_date"`
	StatusNote       string           `json:"status_note,omitempty"`
	ShareBalance     decimal.Decimal  `json:"share_balance"`
	BonusBalance     decimal.Decimal  `json:"bonus_balance"`
	TotalBalance     decimal.Decimal  `json:"total_balance"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Nominee          *nomineeResponse `json:"nominee,omitempty"`
}

type nomineeResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	NationalID   string `json:"national_id,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

type statsResponse struct {
	Total        int                   `json:"total"`
	ByStatus     map[member.Status]int `json:"by_status"`
	TotalBalance decimal.Decimal       `json:"total_balance"`
}

func date(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(validation.DateLayout)

	return &s
}

func toResponse(m *member.Member) memberResponse {
	resp := memberResponse{
		ID:               m.ID,
		MemberNo:         m.MemberNo,
		Title:            m.Title,
		FullName:         m.FullName,
		NationalID:       m.NationalID,
		DateOfBirth:      date(m.DateOfBirth),
		PermanentAddress: m.PermanentAddress,
		MailingAddress:   m.MailingAddress,
		PhoneNumber:      m.PhoneNumber,
		Email:            m.Email,
		Occupation:       m.Occupation,
		JoinDate:         date(m.JoinDate),
		ApprovalDate:     date(m.ApprovalDate),
		Status:           m.Status,
		StatusDate:       date(m.StatusDate),
		StatusNote:       m.StatusNote,
		ShareBalance:     m.Balances.Share,
		BonusBalance:     m.Balances.Bonus,
		TotalBalance:     m.Balances.Total,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	if m.Nominee != nil {
		resp.Nominee = &nomineeResponse{
			ID:           m.Nominee.ID,
			Name:         m.Nominee.Name,
			Relationship: m.Nominee.Relationship,
			NationalID:   m.Nominee.NationalID,
			PhoneNumber:  m.Nominee.PhoneNumber,
		}
	}

	return resp
}

func toResponseList(members []*member.Member) []memberResponse {
	resp := make([]memberResponse, len(members))
	for i, m := range members {
		resp[i] = toResponse(m)
	}

	return resp
}
