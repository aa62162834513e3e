package bank

import (
	"context"
	"fmt"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

// AskDeposit deposits amount through the account actor behind ref and
// waits for the result. Running out of time is an error, never Failed.
// A timeout does not mean the deposit was dropped: once the request sits
// in the mailbox the account applies it even if nobody waits for the
// answer. Read the balance to learn the outcome.
func AskDeposit(ctx context.Context, ref *actor.ActorRef, amount float64) (TransactionResult, error) {
	return transact(ctx, ref, Deposit{Amount: amount})
}

// AskWithdraw withdraws amount through the account actor behind ref and
// waits for the result. As with AskDeposit, a timed out withdraw that
// was already queued may still be applied.
func AskWithdraw(ctx context.Context, ref *actor.ActorRef, amount float64) (TransactionResult, error) {
	return transact(ctx, ref, Withdraw{Amount: amount})
}

// AskBalance queries the balance of the account actor behind ref.
func AskBalance(ctx context.Context, ref *actor.ActorRef) (float64, error) {
	return balance(ctx, ref, BalanceQuery{})
}

func balance(ctx context.Context, ref *actor.ActorRef, req interface{}) (float64, error) {
	rsp, err := ref.Ask(ctx, req)
	if err != nil {
		return 0, err
	}
	switch reply := rsp.Data().(type) {
	case BalanceReply:
		return reply.Value, nil
	case error:
		return 0, reply
	default:
		return 0, unexpectedReply(ref, reply)
	}
}

func transact(ctx context.Context, ref *actor.ActorRef, req interface{}) (TransactionResult, error) {
	rsp, err := ref.Ask(ctx, req)
	if err != nil {
		return Failed, err
	}
	switch reply := rsp.Data().(type) {
	case TransactionResult:
		return reply, nil
	case error:
		return Failed, reply
	default:
		return Failed, unexpectedReply(ref, reply)
	}
}

func unexpectedReply(ref *actor.ActorRef, reply interface{}) error {
	return actor.NewError("Ask "+ref.Name(), fmt.Errorf("unexpected reply %T", reply), actor.ErrCodeProtocol)
}
