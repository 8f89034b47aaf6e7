package dividend_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/dividend"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

var (
	alice = dividend.Holder{MemberID: 1, MemberNo: "M001", FullName: "Alice", Share: dec("1000")}
	bob   = dividend.Holder{MemberID: 2, MemberNo: "M002", FullName: "Bob", Share: dec("500")}
	carol = dividend.Holder{MemberID: 3, MemberNo: "M003", FullName: "Carol", Share: dec("0.10")}
	dave  = dividend.Holder{MemberID: 4, MemberNo: "M004", FullName: "Dave", Share: dec("250.50")}
)

func run(rate, date, year string) validation.Values {
	return validation.Values{"rate": rate, "date": date, "year": year}
}

func TestService_Preview(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := dividend.NewMockRepository(ctrl)

	repo.EXPECT().ActiveHolders(gomock.Any()).Return([]dividend.Holder{alice, bob, carol, dave}, nil)
	repo.EXPECT().PaidMembers(gomock.Any(), "2024").Return([]int64{2}, nil)

	svc := dividend.NewService(repo)

	plan, err := svc.Preview(context.Background(), run("3", "2024-12-31", "2024"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), plan.Date)
	assert.Equal(t, "2024", plan.Year)
	assert.Equal(t, "Dividend 2024 @ 3.00%", plan.Description)
	assertDecimal(t, "1750.60", plan.ShareBase)

	// Carol's 0.003 rounds to zero and is left out.
	require.Len(t, plan.Lines, 2)
	assert.Equal(t, alice, plan.Lines[0].Holder)
	assertDecimal(t, "30", plan.Lines[0].Amount)
	assert.Equal(t, dave, plan.Lines[1].Holder)
	assertDecimal(t, "7.52", plan.Lines[1].Amount)
	assertDecimal(t, "37.52", plan.Total)

	assert.Equal(t, []dividend.Holder{bob}, plan.AlreadyPaid)
}

func TestService_PreviewEverybodyPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := dividend.NewMockRepository(ctrl)

	repo.EXPECT().ActiveHolders(gomock.Any()).Return([]dividend.Holder{alice}, nil)
	repo.EXPECT().PaidMembers(gomock.Any(), "2024").Return([]int64{1}, nil)

	plan, err := dividend.NewService(repo).Preview(context.Background(), run("3", "2024-12-31", "2024"))
	require.NoError(t, err)

	assert.Empty(t, plan.Lines)
	assert.True(t, plan.Total.IsZero())
	assertDecimal(t, "1000", plan.ShareBase)
}

func TestService_PreviewValidation(t *testing.T) {
	svc := dividend.NewService(nil)

	_, err := svc.Preview(context.Background(), run("0", "", "24"))
	require.ErrorIs(t, err, apperr.ErrValidation)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = f.Field
	}

	assert.ElementsMatch(t, []string{"rate", "date", "year"}, fields)
}

func TestService_PreviewRepositoryError(t *testing.T) {
	type testCase struct {
		name    string
		holders error
		paid    error
	}

	tests := []testCase{
		{name: "ActiveHolders", holders: errors.New("db down")},
		{name: "PaidMembers", paid: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := dividend.NewMockRepository(ctrl)

			repo.EXPECT().ActiveHolders(gomock.Any()).Return([]dividend.Holder{alice}, tt.holders).AnyTimes()
			repo.EXPECT().PaidMembers(gomock.Any(), "2024").Return(nil, tt.paid).AnyTimes()

			_, err := dividend.NewService(repo).Preview(context.Background(), run("3", "2024-12-31", "2024"))
			assert.ErrorIs(t, err, apperr.ErrPersistence)
		})
	}
}
