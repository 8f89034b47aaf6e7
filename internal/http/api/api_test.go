package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/http/api"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

func TestWriteError(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]any
	}

	tests := []testCase{
		{
			name:       "Validation",
			err:        apperr.Invalid("amount", "Amount must be positive"),
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":  "validation failed: amount: Amount must be positive",
				"fields": []any{map[string]any{"field": "amount", "message": "Amount must be positive"}},
			},
		},
		{
			name:       "NotFound",
			err:        &apperr.NotFoundError{Entity: "benefit", ID: "x"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "MemberLookupNotFound",
			err:        &apperr.MemberLookupError{MemberID: 9, Err: &apperr.NotFoundError{Entity: "member", ID: "9"}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "InsufficientBalance",
			err:        &apperr.InsufficientBalanceError{Available: decimal.NewFromInt(100), Requested: decimal.NewFromInt(150)},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody: map[string]any{
				"error":     "insufficient balance: available 100.00, requested 150.00",
				"available": "100.00",
			},
		},
		{
			name:       "AlreadyClaimed",
			err:        &apperr.AlreadyClaimedError{BenefitID: "b1"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "InternalHidesDetail",
			err:        &apperr.PersistenceError{Op: "insert transaction", Err: errors.New("pq: connection refused")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)

			api.WriteError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantBody != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantBody, body)
			}
		})
	}
}

func TestReadValues(t *testing.T) {
	t.Run("Form", func(t *testing.T) {
		form := url.Values{"memberId": {"3"}, "amount": {"12.50"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		got, err := api.ReadValues(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Equal(t, validation.Values{"memberId": "3", "amount": "12.50"}, got)
	})

	t.Run("JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memberId": 3, "amount": 12.5, "description": "x", "remarks": null}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		got, err := api.ReadValues(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Equal(t, validation.Values{"memberId": "3", "amount": "12.5", "description": "x"}, got)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memberId":`))
		req.Header.Set("Content-Type", "application/json")

		_, err := api.ReadValues(httptest.NewRecorder(), req)
		assert.Error(t, err)
	})
}
