package transaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/http/transaction"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
)

func balances(share, bonus int64) ledger.Balances {
	return ledger.Balances{
		Share: decimal.NewFromInt(share),
		Bonus: decimal.NewFromInt(bonus),
		Total: decimal.NewFromInt(share + bonus),
	}
}

func newServer(repo ledger.Repository) http.Handler {
	h := transaction.NewHandler(ledger.NewService(repo, nil, nil))

	r := chi.NewRouter()
	r.Route("/transactions", h.Routes)
	r.Route("/members", h.MemberRoutes)

	return r
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

func TestHandler_Record(t *testing.T) {
	type testCase struct {
		name       string
		form       url.Values
		setupMock  func(m *ledger.MockRepository)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}

	valid := func(typ, amount string) url.Values {
		return url.Values{
			"memberId":        {"1"},
			"transactionDate": {"2024-01-15"},
			"transactionType": {typ},
			"amount":          {amount},
		}
	}

	tests := []testCase{
		{
			name: "Created",
			form: valid("deposit", "50"),
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().FindMemberBalances(gomock.Any(), int64(1)).Return(balances(100, 0), nil)
				m.EXPECT().
					InsertTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
						tx.ID = 7
						return nil
					})
				m.EXPECT().UpdateMemberBalances(gomock.Any(), int64(1), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				assert.EqualValues(t, 7, body["id"])
				assert.Equal(t, "150", body["share_balance"])
				assert.Equal(t, "2024-01-15", body["transaction_date"])
				assert.Equal(t, "deposit", body["description"])
			},
		},
		{
			name:       "ValidationFailed",
			form:       valid("deposit", "0"),
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, []any{map[string]any{"field": "amount", "message": "Amount must be positive"}}, body["fields"])
			},
		},
		{
			name: "InsufficientBalance",
			form: valid("withdrawal", "150"),
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().FindMemberBalances(gomock.Any(), int64(1)).Return(balances(100, 0), nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "100.00", body["available"])
			},
		},
		{
			name: "MemberNotFound",
			form: valid("deposit", "10"),
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().FindMemberBalances(gomock.Any(), int64(1)).Return(ledger.Balances{}, &apperr.NotFoundError{Entity: "member", ID: "1"})
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := httptest.NewRecorder()
			newServer(repo).ServeHTTP(rec, postForm("/transactions/", tt.form))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.check != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				tt.check(t, body)
			}
		})
	}
}

func TestHandler_Statement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	memberID := int64(3)

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{MemberID: &memberID}).
		Return([]*ledger.Transaction{
			{ID: 1, MemberID: 3, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Balances: balances(10, 0)},
			{ID: 2, MemberID: 3, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Balances: balances(20, 0)},
		}, nil)

	rec := httptest.NewRecorder()
	newServer(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members/3/transactions", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "2024-01-01", body[0]["transaction_date"])
}

func TestHandler_Get_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rec := httptest.NewRecorder()
	newServer(ledger.NewMockRepository(ctrl)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
