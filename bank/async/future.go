package async

import (
	"context"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

// Future is a value that becomes available once an operation completes.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Completed returns a future that already holds v.
func Completed[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.complete(v, nil)
	return f
}

// Failed returns a future that already holds err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.complete(zero, err)
	return f
}

// complete must be called exactly once.
func (f *Future[T]) complete(v T, err error) {
	f.value = v
	f.err = err
	close(f.done)
}

// Done is closed when the future is completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Get waits for the value. If ctx ends first Get returns actor.ErrTimeout;
// the operation behind the future is not cancelled and still completes.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, actor.NewError("Get", ctx.Err(), actor.ErrCodeTimeout)
	}
}

// Then chains fn to f: the returned future completes with the future fn
// returns for the value of f. An error of f skips fn and is passed on.
func Then[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	next := newFuture[U]()
	go func() {
		<-f.done
		if f.err != nil {
			var zero U
			next.complete(zero, f.err)
			return
		}
		g := fn(f.value)
		<-g.done
		next.complete(g.value, g.err)
	}()
	return next
}
