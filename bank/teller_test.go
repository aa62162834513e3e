package bank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

func TestTeller(t *testing.T) {
	as := newTestSystem(t)
	a := newTestAccount(t, as, 1, 0)
	b := newTestAccount(t, as, 2, 0)

	report, err := RunTeller(testContext(t), as, TellerConfig{
		A:         a,
		B:         b,
		Transfers: 250,
		Amount:    2,
		Seed:      500,
		Progress:  time.Millisecond,
		Deadline:  testTimeout,
	})
	require.NoError(t, err)
	assert.Equal(t, 500, report.Done)
	assert.Equal(t, 0, report.Failed)
	assert.Positive(t, report.Elapsed)

	audit, err := Audit(testContext(t), []*actor.ActorRef{a, b})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, audit.Total)
	assert.Equal(t, 500.0, audit.Balances["account-1"])
	assert.Equal(t, 500.0, audit.Balances["account-2"])
}

func TestTellerWithoutTransfers(t *testing.T) {
	as := newTestSystem(t)
	a := newTestAccount(t, as, 1, 0)
	b := newTestAccount(t, as, 2, 0)

	report, err := RunTeller(testContext(t), as, TellerConfig{A: a, B: b, Seed: 10})
	require.NoError(t, err)
	assert.Zero(t, report.Done+report.Failed)
	requireBalance(t, a, 10)
	requireBalance(t, b, 10)
}

func TestTellerDeadline(t *testing.T) {
	as := newTestSystem(t)
	release := make(chan struct{})
	stuck, err := as.NewActor("stuck", func(actor.ActorContext, actor.ActorMsg) {
		<-release
	})
	require.NoError(t, err)
	defer close(release)
	b := newTestAccount(t, as, 2, 0)

	report, err := RunTeller(testContext(t), as, TellerConfig{
		A:         stuck,
		B:         b,
		Transfers: 10,
		Amount:    1,
		Seed:      10,
		Deadline:  20 * time.Millisecond,
	})
	assert.ErrorIs(t, err, actor.ErrTimeout)
	assert.ErrorIs(t, report.Err, actor.ErrTimeout)
	assert.Zero(t, report.Done)
}

func TestTellerInvalid(t *testing.T) {
	as := newTestSystem(t)
	_, err := StartTeller(as, TellerConfig{}, nil)
	assert.ErrorIs(t, err, actor.ErrInvalid)
}
