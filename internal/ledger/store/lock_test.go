package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger/store"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

func deposit(memberID string) validation.Values {
	return validation.Values{
		"memberId":        memberID,
		"transactionDate": "2024-03-01",
		"transactionType": "deposit",
		"amount":          "25",
	}
}

// A pool of one connection leaves nothing spare once the lock is held, so
// every statement of the write has to reuse the locked connection.
func TestAdvisoryLocker_WriteRunsOnLockedConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	db.SetMaxOpenConns(1)

	mock.ExpectExec(`SELECT pg_advisory_lock\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT share_balance, bonus_balance, total_balance FROM members`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"share_balance", "bonus_balance", "total_balance"}).AddRow("100.00", "0.00", "100.00"))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))
	mock.ExpectExec(`UPDATE members`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT pg_advisory_unlock\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	svc := ledger.NewService(store.New(db), store.NewAdvisoryLocker(db), nil)

	tx, err := svc.RecordTransaction(ctx, deposit("1"))
	require.NoError(t, err)

	assert.Equal(t, int64(7), tx.ID)
	assert.Equal(t, "125", tx.Balances.Share.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvisoryLocker_ReleasesConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	db.SetMaxOpenConns(1)

	for range 2 {
		mock.ExpectExec(`SELECT pg_advisory_lock\(\$1\)`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`SELECT pg_advisory_unlock\(\$1\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	locker := store.NewAdvisoryLocker(db)

	// The second lock only gets a connection if the first unlock returned it.
	for _, memberID := range []int64{1, 2} {
		_, unlock, err := locker.Lock(ctx, memberID)
		require.NoError(t, err)
		unlock()
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvisoryLocker_LockFailureReleasesConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	db.SetMaxOpenConns(1)

	mock.ExpectExec(`SELECT pg_advisory_lock\(\$1\)`).WillReturnError(context.DeadlineExceeded)
	mock.ExpectQuery(`SELECT share_balance, bonus_balance, total_balance FROM members`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"share_balance", "bonus_balance", "total_balance"}).AddRow("5.00", "0.00", "5.00"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err = store.NewAdvisoryLocker(db).Lock(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	b, err := store.New(db).FindMemberBalances(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "5", b.Share.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
