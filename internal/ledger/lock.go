package ledger

import (
	"context"
	"sync"
)

// LocalLocker serializes ledger writes per member inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[int64]*memberLock
}

type memberLock struct {
	held chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[int64]*memberLock)}
}

// Lock blocks until the member's lock is free or ctx is done.
func (l *LocalLocker) Lock(ctx context.Context, memberID int64) (context.Context, func(), error) {
	l.mu.Lock()

	ml, ok := l.locks[memberID]
	if !ok {
		ml = &memberLock{held: make(chan struct{}, 1)}
		l.locks[memberID] = ml
	}

	ml.refs++
	l.mu.Unlock()

	select {
	case ml.held <- struct{}{}:
	case <-ctx.Done():
		l.release(memberID, ml)
		return nil, nil, ctx.Err()
	}

	var once sync.Once

	return ctx, func() {
		once.Do(func() {
			<-ml.held
			l.release(memberID, ml)
		})
	}, nil
}

func (l *LocalLocker) release(memberID int64, ml *memberLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ml.refs--
	if ml.refs == 0 {
		delete(l.locks, memberID)
	}
}

// NopLocker does not serialize anything. Concurrent writers for one member are
// then only caught by the guarded balance update.
type NopLocker struct{}

func (NopLocker) Lock(ctx context.Context, _ int64) (context.Context, func(), error) {
	return ctx, func() {}, nil
}
