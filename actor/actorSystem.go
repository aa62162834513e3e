package actor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Topics on the System Message Bus
const (
	ActorLifecycle = "actorLifecycle"
	ActorProblem   = "actorProblem"
)

const (
	deadLetterName = "dlq"

	// DefaultMailboxSize is the mailbox capacity of actors built
	// without an explicit size.
	DefaultMailboxSize = 10

	// DefaultAskTimeout bounds Ask calls made without a deadline.
	DefaultAskTimeout = 5 * time.Second
)

// The system that all actors operate in.
type ActorSystem struct {
	sync.Mutex
	actors      map[string]*ActorRef
	live        map[*ActorRef]struct{}
	sysBus      *EventBus
	dlq         *ActorRef
	userData    interface{}
	mailboxSize int
	askTimeout  time.Duration
}

// Create an actor system.
func NewActorSystem() *ActorSystem {
	return BuildActorSystem().Run()
}

// Register the actor.
func (as *ActorSystem) register(ar *ActorRef) error {
	as.Lock()
	if _, ok := as.actors[ar.name]; ok {
		as.Unlock()
		return NewError("Register", fmt.Errorf("actor %v already registered", ar.name), ErrCodeInvalid)
	}
	as.actors[ar.name] = ar
	as.Unlock()

	as.sysBus.Publish(ActorLifecycle, ar.name+" registered")

	return nil
}

// Unregister the actor.
func (as *ActorSystem) unregister(name string) {
	as.Lock()
	delete(as.actors, name)
	as.Unlock()

	as.sysBus.Publish(ActorLifecycle, name+" unregistered")
}

// remember tracks every running actor, hidden ones included,
// so Shutdown can reach them.
func (as *ActorSystem) remember(ar *ActorRef) {
	as.Lock()
	as.live[ar] = struct{}{}
	as.Unlock()
}

func (as *ActorSystem) forget(ar *ActorRef) {
	as.Lock()
	delete(as.live, ar)
	as.Unlock()
}

// problem publishes on the ActorProblem topic.
func (as *ActorSystem) problem(msg string) {
	as.sysBus.Publish(ActorProblem, msg)
}

// ReportProblem lets actors built on the system announce a problem,
// e.g. a protocol violation, to everyone watching the system bus.
func (as *ActorSystem) ReportProblem(msg string) {
	as.problem(msg)
}

// Get an ActorRef by the name of the actor.
func (as *ActorSystem) Lookup(name string) (*ActorRef, error) {
	as.Lock()
	ref, ok := as.actors[name]
	as.Unlock()
	if !ok {
		return nil, NewError("Lookup", fmt.Errorf("no actor named [%v]", name), ErrCodeNoRoute)
	}
	return ref, nil
}

// Return a sorted list of all the actors in the directory.
func (as *ActorSystem) ListActors() []string {
	as.Lock()
	keys := make([]string, 0, len(as.actors))
	for k := range as.actors {
		keys = append(keys, k)
	}
	as.Unlock()

	sort.Strings(keys)
	return keys
}

// Send an ActorMsg to the DLQ.
func (as *ActorSystem) ToDeadLetter(msg ActorMsg) {
	_ = as.dlq.Forward(msg)
}

// Get the system bus. This is a special bus that publishes
// actor lifecycle events:
// registered
// enterFunc
// running
// exitFunc
// unregistered
// caught panic
// and, on the ActorProblem topic, overload and
// undeliverable replies as well as problems reported
// by the actors themselves.
func (as *ActorSystem) SystemBus() *EventBus {
	return as.sysBus
}

// Get the system data.
func (as *ActorSystem) SystemData() interface{} {
	return as.userData
}

// MailboxSize is the default mailbox capacity of new actors.
func (as *ActorSystem) MailboxSize() int {
	return as.mailboxSize
}

// AskTimeout is the bound applied to Ask calls without a deadline.
func (as *ActorSystem) AskTimeout() time.Duration {
	return as.askTimeout
}

// Shutdown kills every running actor and waits until all of them
// have exited. The dead letter queue goes last so it can still take
// the letters of the others.
func (as *ActorSystem) Shutdown(ctx context.Context) error {
	as.Lock()
	refs := make([]*ActorRef, 0, len(as.live))
	for ref := range as.live {
		if ref != as.dlq {
			refs = append(refs, ref)
		}
	}
	as.Unlock()

	for _, ref := range refs {
		go ref.Kill()
	}
	for _, ref := range refs {
		select {
		case <-ref.Done():
		case <-ctx.Done():
			return NewError("Shutdown", ctx.Err(), ErrCodeTimeout)
		}
	}
	as.dlq.Kill()
	select {
	case <-as.dlq.Done():
		return nil
	case <-ctx.Done():
		return NewError("Shutdown", ctx.Err(), ErrCodeTimeout)
	}
}
