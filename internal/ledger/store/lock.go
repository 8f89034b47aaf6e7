package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"
)

// AdvisoryLocker serializes ledger writes per member across processes with a
// PostgreSQL session advisory lock. Each held lock pins one pooled connection,
// and the returned context carries it so Store statements run on that same
// connection instead of waiting for a second one from the pool.
type AdvisoryLocker struct {
	db *sql.DB
}

func NewAdvisoryLocker(db *sql.DB) *AdvisoryLocker {
	return &AdvisoryLocker{db: db}
}

func memberLockKey(memberID int64) int64 {
	h := fnv.New64a()
	h.Write([]byte("member-balances"))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(memberID, 10)))

	return int64(h.Sum64())
}

type lockedConnKey struct{}

func withConn(ctx context.Context, conn *sql.Conn) context.Context {
	return context.WithValue(ctx, lockedConnKey{}, conn)
}

func (l *AdvisoryLocker) Lock(ctx context.Context, memberID int64) (context.Context, func(), error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquiring lock connection: %w", err)
	}

	key := memberLockKey(memberID)

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("acquiring member lock: %w", err)
	}

	return withConn(ctx, conn), func() {
		// Unlock must run even when the request context is already cancelled.
		if _, err := conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", key); err != nil {
			slog.Error("failed to release member lock", "member_id", memberID, "error", err)

			// The session still holds the lock; drop the connection instead of
			// returning it to the pool.
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}

		conn.Close()
	}, nil
}
