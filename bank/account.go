package bank

// Account is a plain balance holder. It has no synchronization of its own:
// its owner, an account actor or an async.Account, makes sure only one
// operation runs at a time.
type Account struct {
	id      int
	balance float64
}

// NewAccount creates an account with an initial balance.
func NewAccount(id int, balance float64) *Account {
	return &Account{id: id, balance: balance}
}

// ID of the account.
func (a *Account) ID() int {
	return a.id
}

// Withdraw takes amount from the balance. It returns false and leaves the
// balance alone if the amount exceeds it. Negative amounts are not checked
// and add to the balance.
func (a *Account) Withdraw(amount float64) bool {
	if amount > a.balance {
		return false
	}
	a.balance -= amount
	return true
}

// Deposit adds amount to the balance. A negative amount is refused.
func (a *Account) Deposit(amount float64) bool {
	if amount < 0 {
		return false
	}
	a.balance += amount
	return true
}

// Balance returns the current balance.
func (a *Account) Balance() float64 {
	return a.balance
}
