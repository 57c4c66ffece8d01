package database

import (
	"context"
	"sync"
)

// Table identifies a watchable table for change notifications.
type Table string

const (
	TableBooks Table = "books"
	TableLogs  Table = "reading_logs"
)

// Notifier fans out committed-write notifications to reactive query
// subscribers. Repositories publish after every successful write; each
// subscriber holds a buffered signal channel, so pending notifications
// coalesce but a subscriber always observes the state of the latest commit.
type Notifier struct {
	mu   sync.Mutex
	subs map[Table]map[int]chan struct{}
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[Table]map[int]chan struct{})}
}

// Subscribe registers interest in writes to table. The returned channel
// receives a signal after each committed write (coalesced while the
// subscriber is busy). The cancel func must be called to release the
// subscription.
func (n *Notifier) Subscribe(table Table) (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs[table] == nil {
		n.subs[table] = make(map[int]chan struct{})
	}

	id := n.next
	n.next++
	ch := make(chan struct{}, 1)
	n.subs[table][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[table], id)
	}
	return ch, cancel
}

// Publish signals all subscribers of table that a write committed. The send
// never blocks: a subscriber with a pending signal simply keeps it.
func (n *Notifier) Publish(table Table) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Watch turns a point-in-time query into a reactive one: the query result is
// delivered immediately on subscription and re-delivered after every
// committed write to table, in commit order, until ctx is cancelled. Query
// errors skip the emission; the subscription stays alive.
func Watch[T any](ctx context.Context, n *Notifier, table Table, query func() (T, error)) <-chan T {
	out := make(chan T)
	signal, cancel := n.Subscribe(table)

	go func() {
		defer close(out)
		defer cancel()

		deliver := func() {
			result, err := query()
			if err != nil {
				return
			}
			select {
			case out <- result:
			case <-ctx.Done():
			}
		}

		deliver()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				deliver()
			}
		}
	}()

	return out
}
