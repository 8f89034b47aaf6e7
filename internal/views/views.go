// Package views carries "this view is stale" signals from the services to
// whatever presentation layer caches rendered data.
package views

import (
	"context"
	"strconv"
	"sync"
)

type Kind string

const (
	KindMembers      Kind = "members"
	KindTransactions Kind = "transactions"
	KindSettings     Kind = "settings"
)

// Key identifies a materialized view. An empty ID names the collection view.
type Key struct {
	Kind Kind
	ID   string
}

// Path is the logical path of the view, e.g. "members/12" or "transactions".
func (k Key) Path() string {
	if k.ID == "" {
		return string(k.Kind)
	}

	return string(k.Kind) + "/" + k.ID
}

func (k Key) String() string {
	return k.Path()
}

var (
	Members      = Key{Kind: KindMembers}
	Transactions = Key{Kind: KindTransactions}
	Settings     = Key{Kind: KindSettings}
)

// MemberDetail is the detail view of one member.
func MemberDetail(memberID int64) Key {
	return Key{Kind: KindMembers, ID: strconv.FormatInt(memberID, 10)}
}

// Notifier is told when the data behind a view changed.
type Notifier interface {
	Changed(ctx context.Context, key Key)
}

type nop struct{}

func (nop) Changed(context.Context, Key) {}

// Nop discards every signal.
var Nop Notifier = nop{}

type multi []Notifier

func (m multi) Changed(ctx context.Context, key Key) {
	for _, n := range m {
		n.Changed(ctx, key)
	}
}

// Multi fans a signal out to every notifier in order. Nil entries are skipped.
func Multi(notifiers ...Notifier) Notifier {
	var m multi

	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}

	return m
}

// Hub broadcasts signals to in-process subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Key
	nextID int
	buffer int
}

// NewHub returns a Hub whose subscriber channels hold up to buffer pending keys.
func NewHub(buffer int) *Hub {
	return &Hub{
		subs:   make(map[int]chan Key),
		buffer: buffer,
	}
}

// Subscribe returns a channel of stale keys and a function that ends the
// subscription and closes the channel.
func (h *Hub) Subscribe() (<-chan Key, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan Key, h.buffer)
	h.subs[id] = ch

	var once sync.Once

	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			delete(h.subs, id)
			close(ch)
		})
	}

	return ch, cancel
}

// Changed never blocks: a subscriber whose buffer is full misses the signal.
func (h *Hub) Changed(_ context.Context, key Key) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- key:
		default:
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}
