package async

import (
	"sync"

	"github.com/Tarjei400/actors-vs-locks/actor"
	"github.com/Tarjei400/actors-vs-locks/bank"
)

// defaultQueueCap is the capacity of the operation queue of an account.
const defaultQueueCap = 256

// Account offers the operations of a bank.Account as futures. One
// goroutine owns the account and runs the queued operations one after
// the other in submission order; operations never overlap.
type Account struct {
	mu       sync.RWMutex
	closed   bool
	requests chan func()
	done     chan struct{}
	account  *bank.Account
}

// NewAccount starts the goroutine owning a new account.
func NewAccount(id int, balance float64) *Account {
	a := &Account{
		requests: make(chan func(), defaultQueueCap),
		done:     make(chan struct{}),
		account:  bank.NewAccount(id, balance),
	}
	go a.backend()
	return a
}

func (a *Account) backend() {
	defer close(a.done)
	for req := range a.requests {
		req()
	}
}

// submit queues fn. The lock guards the queue against Close, never the
// account itself.
func submit[T any](a *Account, op string, fn func(*bank.Account) T) *Future[T] {
	f := newFuture[T]()
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		var zero T
		f.complete(zero, actor.NewError(op, nil, actor.ErrCodeClosed))
		return f
	}
	a.requests <- func() {
		f.complete(fn(a.account), nil)
	}
	return f
}

// ID of the account.
func (a *Account) ID() int {
	return a.account.ID()
}

// Withdraw queues a withdraw of amount.
func (a *Account) Withdraw(amount float64) *Future[bool] {
	return submit(a, "Withdraw", func(acc *bank.Account) bool {
		return acc.Withdraw(amount)
	})
}

// Deposit queues a deposit of amount.
func (a *Account) Deposit(amount float64) *Future[bool] {
	return submit(a, "Deposit", func(acc *bank.Account) bool {
		return acc.Deposit(amount)
	})
}

// Balance queues a balance query.
func (a *Account) Balance() *Future[float64] {
	return submit(a, "Balance", func(acc *bank.Account) float64 {
		return acc.Balance()
	})
}

// Close stops accepting operations. Operations queued before still run;
// later ones fail with actor.ErrClosed. Done is closed once the queue is
// drained.
func (a *Account) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	close(a.requests)
}

// Done is closed when the account has stopped.
func (a *Account) Done() <-chan struct{} {
	return a.done
}

// Transfer withdraws amount from from and, if that succeeds, deposits it
// into to. It resolves to false without touching to when the withdraw
// fails. A failed deposit is not compensated: the amount stays withdrawn.
func Transfer(from *Account, amount float64, to *Account) *Future[bool] {
	return Then(from.Withdraw(amount), func(ok bool) *Future[bool] {
		if !ok {
			return Completed(false)
		}
		return to.Deposit(amount)
	})
}
