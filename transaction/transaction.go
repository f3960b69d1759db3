// SPDX-License-Identifier: Unlicense OR MIT

/*
Package transaction synchronizes multi-window size changes.

A single user action can resize several windows at once; their new
sizes must become visible in the same frame. Each participating
window registers a notification on a shared transaction when its
configure is sent and clears it when the client acknowledges. Once
the last notification clears, the whole group commits atomically.
A deadline force-completes the transaction so one slow client
cannot freeze the layout.
*/
package transaction

import (
	"time"

	"strata.dev/anim"
)

// Deadline after which a transaction completes regardless of
// missing acknowledgements.
const Deadline = 150 * time.Millisecond

// Transaction is a reference-counted "all pending acks received"
// barrier. The zero value is not useful; use New.
type Transaction struct {
	pending   int
	completed bool

	deadline   time.Duration
	timerToken anim.TimerToken
	timerSet   bool

	onComplete []func()
}

// New returns an empty transaction with its deadline measured
// from now.
func New(now time.Duration) *Transaction {
	return &Transaction{deadline: now + Deadline}
}

// AddNotification registers one pending acknowledgement and
// returns a handle used to clear it.
func (t *Transaction) AddNotification() *Notification {
	if t.completed {
		return &Notification{}
	}
	t.pending++
	return &Notification{txn: t}
}

// OnComplete registers a callback to run when the transaction
// completes. On a transaction that has already completed the
// callback runs immediately.
func (t *Transaction) OnComplete(f func()) {
	if t.completed {
		f()
		return
	}
	t.onComplete = append(t.onComplete, f)
}

// IsCompleted reports whether the barrier has cleared.
func (t *Transaction) IsCompleted() bool {
	return t.completed
}

// PendingCount returns the number of uncleared notifications.
func (t *Transaction) PendingCount() int {
	return t.pending
}

// DeadlineAt returns the force-complete time.
func (t *Transaction) DeadlineAt() time.Duration {
	return t.deadline
}

// RegisterDeadline arms the force-complete timer on the queue.
func (t *Transaction) RegisterDeadline(timers *anim.TimerQueue) {
	if t.completed || t.timerSet {
		return
	}
	t.timerSet = true
	t.timerToken = timers.Insert(t.deadline, func(time.Duration) {
		t.timerSet = false
		t.forceComplete()
	})
}

// CancelDeadline disarms the deadline timer.
func (t *Transaction) CancelDeadline(timers *anim.TimerQueue) {
	if t.timerSet {
		timers.Cancel(t.timerToken)
		t.timerSet = false
	}
}

func (t *Transaction) forceComplete() {
	if t.completed {
		return
	}
	t.complete()
}

func (t *Transaction) complete() {
	t.completed = true
	callbacks := t.onComplete
	t.onComplete = nil
	for _, f := range callbacks {
		f()
	}
}

// Notification is one participant's pending acknowledgement.
type Notification struct {
	txn     *Transaction
	cleared bool
}

// Clear acknowledges this participant. When it is the last
// pending one, the transaction completes.
func (n *Notification) Clear() {
	if n.cleared || n.txn == nil {
		n.cleared = true
		return
	}
	n.cleared = true
	n.txn.pending--
	if n.txn.pending <= 0 && !n.txn.completed {
		n.txn.complete()
	}
}

// Completed reports whether the owning transaction has cleared.
// Participants that registered after completion report true.
func (n *Notification) Completed() bool {
	return n.txn == nil || n.txn.completed
}
