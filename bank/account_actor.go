package bank

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

const accountPrefix = "account-"

// AccountName is the directory name of the actor owning account id.
func AccountName(id int) string {
	return accountPrefix + strconv.Itoa(id)
}

type accountActor struct {
	account *Account
	metrics *Metrics
}

// NewAccountActor starts an actor that owns a new account and registers
// it as AccountName(id). The actor handles Withdraw, Deposit and
// BalanceQuery and replies to the sender of each with exactly one
// TransactionResult or BalanceReply. Replies are posted, so the account
// never waits on a requester whose mailbox is full.
//
// Anything else is answered with actor.ErrProtocol and written to the
// dead letter queue. The usual advice for an actor that receives a
// message outside its protocol is to stop it; an account actor departs
// from that on purpose. A stray message cannot touch the balance, and
// stopping the actor would lose the account, so the account is left
// untouched and the actor keeps serving.
func NewAccountActor(as *actor.ActorSystem, id int, balance float64, opts ...Option) (*actor.ActorRef, error) {
	o := newOptions(opts)
	aa := &accountActor{
		account: NewAccount(id, balance),
		metrics: o.metrics,
	}
	b := as.BuildActor(AccountName(id), aa.receive)
	if o.mailboxSize > 0 {
		b = b.WithMailboxSize(o.mailboxSize)
	}
	return b.Run()
}

func (aa *accountActor) receive(ac actor.ActorContext, msg actor.ActorMsg) {
	ctx := context.Background()
	switch req := msg.Data().(type) {
	case Withdraw:
		r := result(aa.account.Withdraw(req.Amount))
		aa.metrics.accountOp(ctx, "withdraw", r)
		log.WithFields(log.Fields{
			"account": aa.account.ID(),
			"amount":  req.Amount,
			"result":  r,
		}).Debug("withdraw")
		_ = msg.Reply(r, ac.Self())
	case Deposit:
		r := result(aa.account.Deposit(req.Amount))
		aa.metrics.accountOp(ctx, "deposit", r)
		log.WithFields(log.Fields{
			"account": aa.account.ID(),
			"amount":  req.Amount,
			"result":  r,
		}).Debug("deposit")
		_ = msg.Reply(r, ac.Self())
	case BalanceQuery:
		_ = msg.Reply(BalanceReply{Value: aa.account.Balance()}, ac.Self())
	default:
		aa.reject(ac, msg)
	}
}

func (aa *accountActor) reject(ac actor.ActorContext, msg actor.ActorMsg) {
	err := actor.NewError(ac.Name(), fmt.Errorf("unexpected message %T", msg.Data()), actor.ErrCodeProtocol)
	log.WithFields(log.Fields{
		"account": aa.account.ID(),
		"sender":  msg.Sender().Name(),
	}).Error(err)
	aa.metrics.violation(context.Background(), ac.Name())
	ac.ActorSystem().ReportProblem(ac.Name() + " protocol violation")
	if !msg.Sender().IsNoreply() {
		_ = msg.Reply(err, ac.Self())
	}
	ac.ActorSystem().ToDeadLetter(msg.Wrap(err.Error(), ac.Self()))
}
