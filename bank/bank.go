package bank

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

const routerName = "bank"

// addressed carries a request to the account with the given id.
type addressed struct {
	id  int
	req interface{}
}

// Bank opens accounts in an actor system and addresses them by id.
// Requests by id go through a router actor that hands them to the
// account actor with the original sender, so the account answers the
// caller directly. The router does not wait for an account with a full
// mailbox; such a request is answered with actor.ErrMailboxFull so the
// other accounts stay reachable.
type Bank struct {
	as     *actor.ActorSystem
	router *actor.ActorRef
	opts   options
}

// New creates a bank on as. Without WithEvents the bank publishes
// transfer outcomes on a bus of its own.
func New(as *actor.ActorSystem, opts ...Option) (*Bank, error) {
	b := &Bank{
		as:   as,
		opts: newOptions(opts),
	}
	if b.opts.events == nil {
		b.opts.events = actor.NewEventBus(nil)
	}
	router, err := as.NewRouter(routerName, b.route)
	if err != nil {
		return nil, err
	}
	b.router = router
	return b, nil
}

func (b *Bank) route(d interface{}) (*actor.ActorRef, interface{}) {
	m, ok := d.(addressed)
	if !ok {
		return nil, nil
	}
	ref, err := b.as.Lookup(AccountName(m.id))
	if err != nil {
		return nil, nil
	}
	return ref, m.req
}

// Open starts the actor of a new account. Opening an id twice fails
// with actor.ErrInvalid.
func (b *Bank) Open(id int, balance float64) (*actor.ActorRef, error) {
	return NewAccountActor(b.as, id, balance, b.opts.asOptions()...)
}

// Account returns the actor of account id or actor.ErrNoRoute.
func (b *Bank) Account(id int) (*actor.ActorRef, error) {
	ref, err := b.as.Lookup(AccountName(id))
	if err != nil {
		return nil, actor.NewError("Account", fmt.Errorf("no account %d", id), actor.ErrCodeNoRoute)
	}
	return ref, nil
}

// Accounts returns the ids of all open accounts in ascending order.
func (b *Bank) Accounts() []int {
	var ids []int
	for _, name := range b.as.ListActors() {
		if !strings.HasPrefix(name, accountPrefix) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(name, accountPrefix))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Deposit into account id.
func (b *Bank) Deposit(ctx context.Context, id int, amount float64) (TransactionResult, error) {
	return transact(ctx, b.router, addressed{id, Deposit{Amount: amount}})
}

// Withdraw from account id.
func (b *Bank) Withdraw(ctx context.Context, id int, amount float64) (TransactionResult, error) {
	return transact(ctx, b.router, addressed{id, Withdraw{Amount: amount}})
}

// Balance of account id.
func (b *Bank) Balance(ctx context.Context, id int) (float64, error) {
	return balance(ctx, b.router, addressed{id, BalanceQuery{}})
}

// Transfer runs a transfer saga between two accounts and waits for it.
func (b *Bank) Transfer(ctx context.Context, from, to int, amount float64) (TransferStatus, error) {
	src, err := b.Account(from)
	if err != nil {
		return TransferFailed, err
	}
	dst, err := b.Account(to)
	if err != nil {
		return TransferFailed, err
	}
	return RunTransfer(ctx, b.as, src, dst, amount, b.opts.asOptions()...)
}

// Audit collects the balances of all accounts.
func (b *Bank) Audit(ctx context.Context) (AuditReport, error) {
	ids := b.Accounts()
	refs := make([]*actor.ActorRef, 0, len(ids))
	for _, id := range ids {
		ref, err := b.Account(id)
		if err != nil {
			// closed since listed
			continue
		}
		refs = append(refs, ref)
	}
	return Audit(ctx, refs)
}

// Events is the bus transfer outcomes are published on.
func (b *Bank) Events() *actor.EventBus {
	return b.opts.events
}

// Options returns the options accounts and transfers of this bank use.
func (b *Bank) Options() []Option {
	return b.opts.asOptions()
}
