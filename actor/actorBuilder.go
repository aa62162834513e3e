package actor

import (
	"fmt"
)

// ActorBuilder is used to build and
// decorate actors. An ActorBuilder instance
// is created by calling ActorSystem.BuildActor.
type ActorBuilder struct {
	actorBuilder
}

// Data required by concrete
// actor builder.
type actorBuilder struct {
	as    *ActorSystem
	actor *Actor
	err   error
}

// Build a basic actor with a message handling function. The
// actor invokes the message handling function when it reads
// a message from its mailbox.
func (as *ActorSystem) BuildActor(name string, doFunc func(ActorContext, ActorMsg)) *ActorBuilder {
	a := &Actor{
		as:      as,
		mailbox: make(chan ActorMsg, as.mailboxSize),
		done:    make(chan struct{}),
		doFunc:  doFunc,
		name:    name,
	}
	err := a.validName()
	if err == nil && doFunc == nil {
		err = NewError("BuildActor", fmt.Errorf("actor %v has no message handler", name), ErrCodeInvalid)
	}
	return &ActorBuilder{
		actorBuilder{
			as,
			a,
			err,
		}}
}

// Add an enter function to the actor. The enter function
// gets called once when the actor starts.
func (b *ActorBuilder) WithEnter(enterFunc func(ActorContext)) *ActorBuilder {
	if b.err == nil {
		b.actor.enterFunc = enterFunc
	}
	return b
}

// Add an exit function to the actor. The exit function
// gets called once when the actor exits.
func (b *ActorBuilder) WithExit(exitFunc func(ActorContext)) *ActorBuilder {
	if b.err == nil {
		b.actor.exitFunc = exitFunc
	}
	return b
}

// Override the mailbox capacity of the system for this actor.
// A full mailbox makes Send wait, which is the backpressure
// callers feel from a slow actor.
func (b *ActorBuilder) WithMailboxSize(size int) *ActorBuilder {
	if b.err != nil {
		return b
	}
	if size < 1 {
		b.err = NewError("WithMailboxSize", fmt.Errorf("mailbox must hold at least 1 message (%v)", size), ErrCodeInvalid)
		return b
	}
	b.actor.mailbox = make(chan ActorMsg, size)
	return b
}

// Exclude the actor from the actor system directory.
// Used for transient actors such as sagas, which are
// known only to whoever created them.
func (b *ActorBuilder) Hidden() *ActorBuilder {
	if b.err == nil {
		b.actor.hidden = true
	}
	return b
}

// This must be the last call in the builder chain.
// It registers the actor in the actor system
// directory, calls the actor entry function, and
// starts the actor reading from its mailbox.
func (b *actorBuilder) Run() (*ActorRef, error) {
	if b.err != nil {
		return nil, b.err
	}
	a := b.actor
	a.ref = &ActorRef{
		as:      b.as,
		mailbox: a.mailbox,
		done:    a.done,
		name:    a.name,
		outbox:  &outbox{},
	}
	return a.run(b.as)
}
