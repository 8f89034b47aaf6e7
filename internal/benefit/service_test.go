package benefit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/benefit"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

type recordingNotifier struct {
	keys []views.Key
}

func (n *recordingNotifier) Changed(_ context.Context, key views.Key) {
	n.keys = append(n.keys, key)
}

func TestService_Claim(t *testing.T) {
	id := uuid.New()
	claimedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		id        string
		setupMock func(m *benefit.MockRepository)
		wantErr   error
		wantKeys  []views.Key
	}

	tests := []testCase{
		{
			name: "Success",
			id:   id.String(),
			setupMock: func(m *benefit.MockRepository) {
				m.EXPECT().GetBenefit(gomock.Any(), id).Return(&benefit.Benefit{ID: id, MemberID: 4, Status: benefit.StatusAvailable}, nil)
				m.EXPECT().
					ClaimIfAvailable(gomock.Any(), id, gomock.Any()).
					Return(&benefit.Benefit{ID: id, MemberID: 4, Status: benefit.StatusClaimed, ClaimedAt: &claimedAt}, nil)
			},
			wantKeys: []views.Key{views.MemberDetail(4)},
		},
		{
			name:    "EmptyID",
			id:      "  ",
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "MalformedID",
			id:      "not-a-uuid",
			wantErr: apperr.ErrValidation,
		},
		{
			name: "NotFound",
			id:   id.String(),
			setupMock: func(m *benefit.MockRepository) {
				m.EXPECT().GetBenefit(gomock.Any(), id).Return(nil, &apperr.NotFoundError{Entity: "benefit", ID: id.String()})
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "AlreadyClaimed",
			id:   id.String(),
			setupMock: func(m *benefit.MockRepository) {
				m.EXPECT().GetBenefit(gomock.Any(), id).Return(&benefit.Benefit{ID: id, Status: benefit.StatusClaimed, ClaimedAt: &claimedAt}, nil)
			},
			wantErr: apperr.ErrAlreadyClaimed,
		},
		{
			name: "LostRaceToConcurrentClaim",
			id:   id.String(),
			setupMock: func(m *benefit.MockRepository) {
				m.EXPECT().GetBenefit(gomock.Any(), id).Return(&benefit.Benefit{ID: id, Status: benefit.StatusAvailable}, nil)
				m.EXPECT().ClaimIfAvailable(gomock.Any(), id, gomock.Any()).Return(nil, apperr.ErrAlreadyClaimed)
			},
			wantErr: apperr.ErrAlreadyClaimed,
		},
		{
			name: "StoreFails",
			id:   id.String(),
			setupMock: func(m *benefit.MockRepository) {
				m.EXPECT().GetBenefit(gomock.Any(), id).Return(&benefit.Benefit{ID: id, Status: benefit.StatusAvailable}, nil)
				m.EXPECT().ClaimIfAvailable(gomock.Any(), id, gomock.Any()).Return(nil, errors.New("db error"))
			},
			wantErr: apperr.ErrPersistence,
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

			notifier := &recordingNotifier{}
			svc := benefit.NewService(repo, notifier)

			got, err := svc.Claim(context.Background(), tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Empty(t, notifier.keys)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, benefit.StatusClaimed, got.Status)
			assert.Equal(t, tt.wantKeys, notifier.keys)
		})
	}
}

func TestService_Claim_AlreadyClaimedCarriesTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	claimedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	repo := benefit.NewMockRepository(ctrl)
	repo.EXPECT().GetBenefit(gomock.Any(), id).Return(&benefit.Benefit{ID: id, Status: benefit.StatusClaimed, ClaimedAt: &claimedAt}, nil)

	_, err := benefit.NewService(repo, nil).Claim(context.Background(), id.String())

	var claimed *apperr.AlreadyClaimedError
	require.True(t, errors.As(err, &claimed))
	assert.Equal(t, id.String(), claimed.BenefitID)
	assert.Equal(t, &claimedAt, claimed.ClaimedAt)
}

func TestService_Grant(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := benefit.NewMockRepository(ctrl)
		repo.EXPECT().
			InsertBenefit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *benefit.Benefit) error {
				assert.NotEqual(t, uuid.Nil, b.ID)
				assert.Equal(t, benefit.StatusAvailable, b.Status)
				assert.True(t, decimal.NewFromInt(500).Equal(b.Amount))
				return nil
			})

		notifier := &recordingNotifier{}

		got, err := benefit.NewService(repo, notifier).Grant(context.Background(), validation.Values{
			"memberId":    "2",
			"benefitType": "Funeral assistance",
			"amount":      "500",
		})
		require.NoError(t, err)
		assert.Equal(t, "Funeral assistance", got.BenefitType)
		assert.Equal(t, []views.Key{views.MemberDetail(2)}, notifier.keys)
	})

	t.Run("Invalid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := benefit.NewMockRepository(ctrl)

		_, err := benefit.NewService(repo, nil).Grant(context.Background(), validation.Values{"memberId": "2"})

		var verr *apperr.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 2)
	})

	t.Run("UnknownMember", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := benefit.NewMockRepository(ctrl)
		repo.EXPECT().InsertBenefit(gomock.Any(), gomock.Any()).Return(&apperr.NotFoundError{Entity: "member", ID: "9"})

		_, err := benefit.NewService(repo, nil).Grant(context.Background(), validation.Values{
			"memberId":    "9",
			"benefitType": "Scholarship",
			"amount":      "100",
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestService_ListByMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	memberID := int64(7)

	repo := benefit.NewMockRepository(ctrl)
	repo.EXPECT().
		ListBenefits(gomock.Any(), benefit.ListFilter{MemberID: &memberID}).
		Return([]*benefit.Benefit{{MemberID: 7}}, nil)

	got, err := benefit.NewService(repo, nil).ListByMember(context.Background(), memberID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
