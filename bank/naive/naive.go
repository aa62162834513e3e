// Package naive is the counter-example to package bank: accounts with a
// lock each and a transfer that takes both locks. It deadlocks when two
// transfers run between the same accounts in opposite directions. Nothing
// outside its tests uses it.
package naive

import (
	"sync"
)

// Account is a balance with a lock. Withdraw and Deposit do not take the
// lock; concurrent callers lose updates unless they hold it.
type Account struct {
	sync.Mutex
	balance float64
}

// NewAccount creates an account.
func NewAccount(balance float64) *Account {
	return &Account{balance: balance}
}

// Withdraw takes amount if the balance covers it.
func (a *Account) Withdraw(amount float64) bool {
	if amount > a.balance {
		return false
	}
	a.balance -= amount
	return true
}

// Deposit adds a non-negative amount.
func (a *Account) Deposit(amount float64) bool {
	if amount < 0 {
		return false
	}
	a.balance += amount
	return true
}

// Balance returns the balance without locking.
func (a *Account) Balance() float64 {
	return a.balance
}

// Transfer locks from, then to, and moves amount. Two transfers in
// opposite directions can each hold their first lock and wait forever
// for the second.
func Transfer(from *Account, amount float64, to *Account) bool {
	return transfer(from, amount, to, nil)
}

// transfer calls held, if set, between taking the first and the second lock.
func transfer(from *Account, amount float64, to *Account, held func()) bool {
	from.Lock()
	defer from.Unlock()
	if held != nil {
		held()
	}
	to.Lock()
	defer to.Unlock()

	if !from.Withdraw(amount) {
		return false
	}
	to.Deposit(amount)
	return true
}
