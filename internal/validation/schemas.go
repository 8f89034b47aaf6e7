package validation

import (
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

// TransactionRequest is the input of a ledger transaction.
type TransactionRequest struct {
	MemberID        int64           `form:"memberId" validate:"gt=0" message:"Valid member is required"`
	TransactionDate string          `form:"transactionDate" validate:"required,datetime=2006-01-02" message:"Transaction date is required"`
	TransactionType string          `form:"transactionType" validate:"oneof=deposit withdrawal dividend fee"`
	Description     string          `form:"description"`
	ReceiptNo       string          `form:"receiptNo"`
	Year            string          `form:"year"`
	Amount          decimal.Decimal `form:"amount" validate:"gt=0,money" message:"Amount must be positive"`
	Remarks         string          `form:"remarks"`
}

// MemberRequest is the input of member registration.
type MemberRequest struct {
	MemberNo         string          `form:"memberNo" validate:"required" message:"Member number is required"`
	Title            string          `form:"title" validate:"required" message:"Title is required"`
	FullName         string          `form:"fullName" validate:"required" message:"Full name is required"`
	NationalID       string          `form:"nationalId" validate:"required" message:"National ID is required"`
	DateOfBirth      string          `form:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	PermanentAddress string          `form:"permanentAddress" validate:"required" message:"Permanent address is required"`
	MailingAddress   string          `form:"mailingAddress" validate:"required" message:"Mailing address is required"`
	PhoneNumber      string          `form:"phoneNumber" validate:"required" message:"Phone number is required"`
	Email            string          `form:"email" validate:"omitempty,email" message:"Invalid email address"`
	Occupation       string          `form:"occupation" validate:"required" message:"Occupation is required"`
	JoinDate         string          `form:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	InitialShare     decimal.Decimal `form:"initialShare" validate:"gte=0" message:"Initial share must be positive"`
}

// MemberUpdateRequest is a partial member edit. A nil field is left unchanged;
// balances are never part of it.
type MemberUpdateRequest struct {
	MemberNo         *string `form:"memberNo" validate:"omitnil,min=1" message:"Member number is required"`
	Title            *string `form:"title" validate:"omitnil,min=1" message:"Title is required"`
	FullName         *string `form:"fullName" validate:"omitnil,min=1" message:"Full name is required"`
	NationalID       *string `form:"nationalId" validate:"omitnil,min=1" message:"National ID is required"`
	DateOfBirth      *string `form:"dateOfBirth" validate:"omitnil,isodate"`
	PermanentAddress *string `form:"permanentAddress" validate:"omitnil,min=1" message:"Permanent address is required"`
	MailingAddress   *string `form:"mailingAddress" validate:"omitnil,min=1" message:"Mailing address is required"`
	PhoneNumber      *string `form:"phoneNumber" validate:"omitnil,min=1" message:"Phone number is required"`
	Email            *string `form:"email" validate:"omitnil,email_or_empty" message:"Invalid email address"`
	Occupation       *string `form:"occupation" validate:"omitnil,min=1" message:"Occupation is required"`
	JoinDate         *string `form:"joinDate" validate:"omitnil,isodate"`
	Status           *string `form:"status" validate:"omitnil,oneof=active resigned deceased"`
	StatusDate       *string `form:"statusDate" validate:"omitnil,isodate"`
	StatusNote       *string `form:"statusNote"`
}

// NomineeRequest travels alongside member create and update input. A nil Name
// means the nominee is not part of the request; an empty one removes it.
type NomineeRequest struct {
	Name         *string `form:"nomineeName"`
	Relationship string  `form:"nomineeRelationship"`
	NationalID   string  `form:"nomineeId"`
	PhoneNumber  string  `form:"nomineePhone"`
}

// CooperativeRequest edits the cooperative settings.
type CooperativeRequest struct {
	Name      string `form:"name" validate:"required" message:"Name is required"`
	RegNumber string `form:"regNumber"`
	Address   string `form:"address"`
	Email     string `form:"email" validate:"omitempty,email" message:"Invalid email"`
	Phone     string `form:"phone"`
	Fax       string `form:"fax"`
}

// BenefitRequest grants a claimable benefit to a member.
type BenefitRequest struct {
	MemberID    int64           `form:"memberId" validate:"gt=0" message:"Valid member is required"`
	BenefitType string          `form:"benefitType" validate:"required" message:"Benefit type is required"`
	Amount      decimal.Decimal `form:"amount" validate:"gt=0,money" message:"Amount must be positive"`
}

// DividendRequest sets the parameters of a dividend run. Rate is a percentage
// of each active member's share balance.
type DividendRequest struct {
	Rate decimal.Decimal `form:"rate" validate:"gt=0,lte=100" message:"Rate must be between 0 and 100"`
	Date string          `form:"date" validate:"required,datetime=2006-01-02" message:"Distribution date is required"`
	Year string          `form:"year" validate:"required,len=4,numeric" message:"Year must have four digits"`
}
