package bank

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

const testTimeout = 5 * time.Second

func newTestSystem(t *testing.T) *actor.ActorSystem {
	t.Helper()

	as := actor.BuildActorSystem().
		WithAskTimeout(testTimeout).
		Run()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = as.Shutdown(ctx)
	})
	return as
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

func newTestAccount(t *testing.T, as *actor.ActorSystem, id int, balance float64, opts ...Option) *actor.ActorRef {
	t.Helper()

	ref, err := NewAccountActor(as, id, balance, opts...)
	require.NoError(t, err)
	return ref
}

func requireBalance(t *testing.T, ref *actor.ActorRef, want float64) {
	t.Helper()

	got, err := AskBalance(testContext(t), ref)
	require.NoError(t, err)
	require.Equal(t, want, got, "balance of %v", ref.Name())
}

// recorder is an actor keeping every message it receives.
type recorder struct {
	ref  *actor.ActorRef
	msgs chan actor.ActorMsg
}

func newRecorder(t *testing.T, as *actor.ActorSystem, name string) *recorder {
	t.Helper()

	r := &recorder{msgs: make(chan actor.ActorMsg, 1000)}
	ref, err := as.NewActor(name, func(_ actor.ActorContext, msg actor.ActorMsg) {
		r.msgs <- msg
	})
	require.NoError(t, err)
	r.ref = ref
	return r
}

func (r *recorder) next(t *testing.T) actor.ActorMsg {
	t.Helper()

	select {
	case msg := <-r.msgs:
		return msg
	case <-time.After(testTimeout):
		require.FailNow(t, "no message for "+r.ref.Name())
		return nil
	}
}
