package member_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	httpmember "github.com/MrJamesThe3rd/coopledger/internal/http/member"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
	"github.com/MrJamesThe3rd/coopledger/internal/member"
	"github.com/MrJamesThe3rd/coopledger/internal/viewcache"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

func newServer(repo member.Repository, cache viewcache.Cache) http.Handler {
	svc := member.NewService(repo, viewcache.NewInvalidator(cache))
	h := httpmember.NewHandler(svc, cache, time.Minute)

	r := chi.NewRouter()
	r.Route("/members", h.Routes)

	return r
}

func sample() *member.Member {
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	return &member.Member{
		ID:          3,
		MemberNo:    "M-003",
		FullName:    "Jane Doe",
		DateOfBirth: &dob,
		Status:      member.StatusActive,
		Balances: ledger.Balances{
			Share: decimal.NewFromInt(100),
			Bonus: decimal.NewFromInt(20),
			Total: decimal.NewFromInt(120),
		},
		Nominee: &member.Nominee{ID: 1, MemberID: 3, Name: "John Doe"},
	}
}

func TestHandler_Get_ReadThroughCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := viewcache.NewMemory()

	repo := member.NewMockRepository(ctrl)
	repo.EXPECT().GetMember(gomock.Any(), int64(3)).Return(sample(), nil).Times(1)

	srv := newServer(repo, cache)

	first := httptest.NewRecorder()
	srv.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/members/3", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	srv.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/members/3", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "1990-05-17", body["date_of_birth"])
	assert.Equal(t, "120", body["total_balance"])
	assert.Equal(t, "John Doe", body["nominee"].(map[string]any)["name"])
}

func TestHandler_Update_EvictsCachedDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := viewcache.NewMemory()

	repo := member.NewMockRepository(ctrl)
	repo.EXPECT().GetMember(gomock.Any(), int64(3)).DoAndReturn(func(_ context.Context, _ int64) (*member.Member, error) {
		return sample(), nil
	}).Times(3)
	repo.EXPECT().UpdateMember(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	srv := newServer(repo, cache)

	srv.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/members/3", nil))

	req := httptest.NewRequest(http.MethodPatch, "/members/3", strings.NewReader(`{"fullName": "Jane Smith"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	after := httptest.NewRecorder()
	srv.ServeHTTP(after, httptest.NewRequest(http.MethodGet, "/members/3", nil))
	assert.Equal(t, "miss", after.Header().Get("X-Cache"))
}

func TestHandler_Get_EvictionDuringLoadIsNotOverwritten(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := viewcache.NewMemory()

	stale := sample()
	fresh := sample()
	fresh.Balances.Share = decimal.NewFromInt(150)
	fresh.Balances.Total = decimal.NewFromInt(170)

	repo := member.NewMockRepository(ctrl)
	gomock.InOrder(
		// A ledger write lands after the member row was read but before the
		// view is cached.
		repo.EXPECT().GetMember(gomock.Any(), int64(3)).DoAndReturn(func(ctx context.Context, _ int64) (*member.Member, error) {
			viewcache.NewInvalidator(cache).Changed(ctx, views.MemberDetail(3))
			return stale, nil
		}),
		repo.EXPECT().GetMember(gomock.Any(), int64(3)).Return(fresh, nil),
	)

	srv := newServer(repo, cache)

	first := httptest.NewRecorder()
	srv.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/members/3", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	srv.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/members/3", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "miss", second.Header().Get("X-Cache"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "170", body["total_balance"])

	third := httptest.NewRecorder()
	srv.ServeHTTP(third, httptest.NewRequest(http.MethodGet, "/members/3", nil))
	assert.Equal(t, "hit", third.Header().Get("X-Cache"))
}

func TestHandler_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := member.NewMockRepository(ctrl)
	repo.EXPECT().GetMember(gomock.Any(), int64(8)).Return(nil, &apperr.NotFoundError{Entity: "member", ID: "8"})

	rec := httptest.NewRecorder()
	newServer(repo, viewcache.NewMemory()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members/8", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Create_ValidationErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := httptest.NewRequest(http.MethodPost, "/members/", strings.NewReader(`{"memberNo": "M-1"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	newServer(member.NewMockRepository(ctrl), viewcache.NewMemory()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Fields []apperr.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Fields, 7)
	assert.Equal(t, apperr.FieldError{Field: "title", Message: "Title is required"}, body.Fields[0])
}
