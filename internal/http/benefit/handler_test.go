package benefit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/benefit"
	httpbenefit "github.com/MrJamesThe3rd/coopledger/internal/http/benefit"
)

func newServer(repo benefit.Repository) http.Handler {
	h := httpbenefit.NewHandler(benefit.NewService(repo, nil))

	r := chi.NewRouter()
	r.Route("/benefits", h.Routes)

	return r
}

func TestHandler_Claim(t *testing.T) {
	id := uuid.New()
	claimedAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name       string
		path       string
		setupMock  func(m *benefit.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Claimed",
			path: "/benefits/" + id.String() + "/claim",
			setupMock: func(m *benefit.MockRepository) {
				m.EXPECT().GetBenefit(gomock.Any(), id).Return(&benefit.Benefit{ID: id, Status: benefit.StatusAvailable}, nil)
				m.EXPECT().ClaimIfAvailable(gomock.Any(), id, gomock.Any()).Return(&benefit.Benefit{ID: id, Status: benefit.StatusClaimed, ClaimedAt: &claimedAt}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "AlreadyClaimed",
			path: "/benefits/" + id.String() + "/claim",
			setupMock: func(m *benefit.MockRepository) {
				m.EXPECT().GetBenefit(gomock.Any(), id).Return(&benefit.Benefit{ID: id, Status: benefit.StatusClaimed, ClaimedAt: &claimedAt}, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "NotFound",
			path: "/benefits/" + id.String() + "/claim",
			setupMock: func(m *benefit.MockRepository) {
				m.EXPECT().GetBenefit(gomock.Any(), id).Return(nil, &apperr.NotFoundError{Entity: "benefit", ID: id.String()})
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "MalformedID",
			path:       "/benefits/abc/claim",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := benefit.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := httptest.NewRecorder()
			newServer(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
