package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestAccount(t *testing.T, id int, balance float64) *Account {
	t.Helper()

	a := NewAccount(id, balance)
	t.Cleanup(a.Close)
	return a
}

func requireBalance(t *testing.T, a *Account, want float64) {
	t.Helper()

	got, err := a.Balance().Get(testContext(t))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestConcurrentDeposits(t *testing.T) {
	const n = 1000
	a := newTestAccount(t, 1, 50)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			ok, err := a.Deposit(1.5).Get(context.Background())
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("deposit failed")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	requireBalance(t, a, 50+n*1.5)
}

func TestOvercommittedWithdraws(t *testing.T) {
	a := newTestAccount(t, 1, 95)

	futures := make([]*Future[bool], 50)
	for i := range futures {
		futures[i] = a.Withdraw(10)
	}
	succeeded := 0
	for _, f := range futures {
		ok, err := f.Get(testContext(t))
		require.NoError(t, err)
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, 9, succeeded)
	requireBalance(t, a, 5)
}

func TestSubmissionOrder(t *testing.T) {
	a := newTestAccount(t, 1, 0)

	deposit := a.Deposit(10)
	withdraw := a.Withdraw(10)
	overdraw := a.Withdraw(1)

	ok, err := overdraw.Get(testContext(t))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mustGet(t, deposit))
	assert.True(t, mustGet(t, withdraw))
}

func TestNegativeDeposit(t *testing.T) {
	a := newTestAccount(t, 1, 0)

	assert.False(t, mustGet(t, a.Deposit(-5)))
	requireBalance(t, a, 0)
	assert.Equal(t, 1, a.ID())
}

func TestTransfer(t *testing.T) {
	a := newTestAccount(t, 1, 0)
	b := newTestAccount(t, 2, 0)

	assert.True(t, mustGet(t, a.Deposit(1000)))
	assert.True(t, mustGet(t, Transfer(a, 150, b)))
	requireBalance(t, a, 850)
	requireBalance(t, b, 150)

	assert.False(t, mustGet(t, Transfer(a, 1000, b)))
	requireBalance(t, a, 850)
	requireBalance(t, b, 150)
}

func TestTransferFailedDepositIsNotCompensated(t *testing.T) {
	a := newTestAccount(t, 1, 0)
	b := newTestAccount(t, 2, 0)

	assert.False(t, mustGet(t, Transfer(a, -5, b)))
	requireBalance(t, a, 5)
	requireBalance(t, b, 0)
}

func TestTransfersBothWays(t *testing.T) {
	const k = 300
	a := newTestAccount(t, 1, k)
	b := newTestAccount(t, 2, k)

	futures := make([]*Future[bool], 0, 2*k)
	for i := 0; i < k; i++ {
		futures = append(futures, Transfer(a, 1, b), Transfer(b, 1, a))
	}
	for _, f := range futures {
		assert.True(t, mustGet(t, f))
	}
	requireBalance(t, a, k)
	requireBalance(t, b, k)
}

func TestClose(t *testing.T) {
	a := NewAccount(1, 0)

	queued := a.Deposit(10)
	a.Close()
	a.Close()

	assert.True(t, mustGet(t, queued))
	_, err := a.Balance().Get(testContext(t))
	assert.ErrorIs(t, err, actor.ErrClosed)

	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("account did not stop")
	}

	// a transfer out of a closed account never reaches the destination
	b := newTestAccount(t, 2, 0)
	_, err = Transfer(a, 1, b).Get(testContext(t))
	assert.ErrorIs(t, err, actor.ErrClosed)
	requireBalance(t, b, 0)
}

func mustGet[T any](t *testing.T, f *Future[T]) T {
	t.Helper()

	v, err := f.Get(testContext(t))
	require.NoError(t, err)
	return v
}
