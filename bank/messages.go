package bank

import (
	"fmt"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

// Requests understood by an account actor.
type (
	Deposit struct {
		Amount float64
	}

	Withdraw struct {
		Amount float64
	}

	BalanceQuery struct{}
)

// TransactionResult is the reply to Deposit and Withdraw.
type TransactionResult int

const (
	Done TransactionResult = iota + 1
	Failed
)

func (r TransactionResult) String() string {
	switch r {
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("TransactionResult(%d)", int(r))
	}
}

func result(ok bool) TransactionResult {
	if ok {
		return Done
	}
	return Failed
}

// BalanceReply is the reply to BalanceQuery.
type BalanceReply struct {
	Value float64
}

// Transfer moves Amount from the account behind From to the account behind To.
type Transfer struct {
	From   *actor.ActorRef
	To     *actor.ActorRef
	Amount float64
}

// TransferStatus is what a transfer saga reports to its customer.
type TransferStatus int

const (
	TransferDone TransferStatus = iota + 1
	TransferFailed
)

func (s TransferStatus) String() string {
	switch s {
	case TransferDone:
		return "done"
	case TransferFailed:
		return "failed"
	default:
		return fmt.Sprintf("TransferStatus(%d)", int(s))
	}
}
