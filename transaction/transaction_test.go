// SPDX-License-Identifier: Unlicense OR MIT

package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strata.dev/anim"
)

func TestCompletesWhenAllClear(t *testing.T) {
	txn := New(0)
	n1 := txn.AddNotification()
	n2 := txn.AddNotification()

	completed := false
	txn.OnComplete(func() { completed = true })

	n1.Clear()
	assert.False(t, txn.IsCompleted())
	n2.Clear()
	assert.True(t, txn.IsCompleted())
	assert.True(t, completed)
}

func TestClearIsIdempotent(t *testing.T) {
	txn := New(0)
	n1 := txn.AddNotification()
	n2 := txn.AddNotification()
	n1.Clear()
	n1.Clear()
	assert.False(t, txn.IsCompleted())
	n2.Clear()
	assert.True(t, txn.IsCompleted())
}

func TestDeadlineForceCompletes(t *testing.T) {
	// Scenario: three windows resize; two ack quickly, one never
	// does. The deadline releases the two ready ones.
	var timers anim.TimerQueue
	txn := New(0)
	n1 := txn.AddNotification()
	n2 := txn.AddNotification()
	n3 := txn.AddNotification()
	txn.RegisterDeadline(&timers)

	completed := false
	txn.OnComplete(func() { completed = true })

	timers.Advance(10 * time.Millisecond)
	n1.Clear()
	n2.Clear()
	require.False(t, completed)
	require.Equal(t, 1, txn.PendingCount())

	timers.Advance(140 * time.Millisecond)
	timers.Advance(Deadline)
	assert.True(t, completed, "deadline must force-complete the barrier")
	assert.True(t, txn.IsCompleted())

	// The laggard's late clear is harmless.
	n3.Clear()
	assert.True(t, txn.IsCompleted())
}

func TestCancelDeadline(t *testing.T) {
	var timers anim.TimerQueue
	txn := New(0)
	n := txn.AddNotification()
	txn.RegisterDeadline(&timers)
	n.Clear()
	require.True(t, txn.IsCompleted())

	txn.CancelDeadline(&timers)
	assert.Equal(t, 0, timers.Len())
	// Firing past the deadline must not double-complete.
	timers.Advance(time.Second)
}

func TestOnCompleteAfterCompletionRunsImmediately(t *testing.T) {
	txn := New(0)
	n := txn.AddNotification()
	n.Clear()
	ran := false
	txn.OnComplete(func() { ran = true })
	assert.True(t, ran)
}

func TestNotificationAfterCompletion(t *testing.T) {
	txn := New(0)
	n := txn.AddNotification()
	n.Clear()
	late := txn.AddNotification()
	assert.True(t, late.Completed())
	late.Clear()
	assert.True(t, txn.IsCompleted())
}
