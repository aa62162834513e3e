package actor

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Actor is the core of the actor package. It is
// created by an ActorBuilder. An actor does not have
// any methods accessible from outside; it can only
// be accessed by passing messages to its ActorRef.
//
// An Actor runs in its own goroutine. It processes
// messages that it receives in its mailbox by
// calling the message handling function, one message
// at a time and in the order they were queued. It can
// communicate with other actors by sending messages
// or asking them. References of the actors to
// communicate with can be obtained by name from the
// actor system directory.
type Actor struct {
	as        *ActorSystem
	mailbox   chan ActorMsg
	done      chan struct{}
	doFunc    func(ActorContext, ActorMsg)
	enterFunc func(ActorContext)
	exitFunc  func(ActorContext)
	name      string
	hidden    bool
	stopping  bool
	ref       *ActorRef
}

// Create an actor in the system. This is a
// convenience method to create an actor
// without calling ActorBuilder.
func (as *ActorSystem) NewActor(name string, doFunc func(ActorContext, ActorMsg)) (*ActorRef, error) {
	return as.BuildActor(name, doFunc).Run()
}

// This is the main loop that reads messages from the
// actor mailbox and invokes the message handler.
// If the message is a poison message it is intercepted,
// the exit function is called and the actor terminates.
// The same happens after a handler called Stop.
func mainLoop(a *Actor) {
	defer a.exit()
	for msg := range a.mailbox {
		if msg.IsPoison() {
			log.Debugf("%v swallowed poison - exiting", a.name)
			return
		}
		protect(a, msg, a.doFunc)
		if a.stopping {
			return
		}
	}
}

// exit runs the exit function and removes the actor from the system.
func (a *Actor) exit() {
	if a.exitFunc != nil {
		a.as.sysBus.Publish(ActorLifecycle, a.name+" exitFunc")
		protectFunc(a, a.exitFunc)
	}
	if !a.hidden {
		a.as.unregister(a.name)
	}
	a.as.forget(a.ref)
	close(a.done)
}

// Function to handle panics thrown by an actor. The message
// that was being handled is wrapped with the panic reason and
// written to the Dead Letter Queue; the actor continues with
// processing the next message.
// Note: if the DLQ also panics (which should not be possible),
// the actor dies.
func protect(a *Actor, m ActorMsg, doFunc func(ActorContext, ActorMsg)) {
	defer func() {
		if x := recover(); x != nil {
			reason := fmt.Sprintf("%v caught panic: %v", a.name, x)
			a.as.sysBus.Publish(ActorLifecycle, reason)
			if a.name == deadLetterName {
				log.Fatalf("Urgh! DLQ loop - really dying")
			}
			a.as.ToDeadLetter(m.Wrap(reason, a.ref))
		}
	}()
	doFunc(a, m)
}

// protectFunc guards the enter and exit functions.
func protectFunc(a *Actor, fn func(ActorContext)) {
	defer func() {
		if x := recover(); x != nil {
			a.as.sysBus.Publish(ActorLifecycle, fmt.Sprintf("%v caught panic: %v", a.name, x))
		}
	}()
	fn(a)
}

// run the actor
func (a *Actor) run(as *ActorSystem) (*ActorRef, error) {
	if !a.hidden {
		if err := as.register(a.ref); err != nil {
			log.Error(err)
			return nil, err
		}
	}
	as.remember(a.ref)

	if a.enterFunc != nil {
		as.sysBus.Publish(ActorLifecycle, a.name+" enterFunc")
		protectFunc(a, a.enterFunc)
	}
	as.sysBus.Publish(ActorLifecycle, a.name+" running")
	go mainLoop(a)

	return a.ref, nil
}

// check valid name
func (a *Actor) validName() error {
	name := a.name
	if name == "" || name[0] == '!' {
		return NewError("BuildActor", fmt.Errorf("invalid actor name %q", name), ErrCodeInvalid)
	}
	return nil
}

// Get the ActorRef for this actor - used to set Sender in messages.
func (a *Actor) Self() *ActorRef {
	return a.ref
}

// Get the name for this actor.
func (a *Actor) Name() string {
	return a.name
}

// Stop the actor once the current message has been handled.
// Messages still queued are not processed.
func (a *Actor) Stop() {
	a.stopping = true
}

// Send self a message after the specified duration. This
// fires one-off. Nothing is sent if the actor has exited.
func (a *Actor) After(d time.Duration, data interface{}) {
	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			_ = a.ref.SendMsg(newActorMsg(MsgTypeTimeout, data, a.ref))
		case <-a.done:
		}
	}()
}

// Send self a message every specified duration. This
// fires repeatedly until the returned function is called
// or the actor exits.
func (a *Actor) Every(d time.Duration, data interface{}) func() {
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if a.ref.TrySend(data, a.ref) != nil {
					continue
				}
			case <-stop:
				return
			case <-a.done:
				return
			}
		}
	}()
	return func() {
		once.Do(func() { close(stop) })
	}
}

// Get the ActorSystem in which the actor is running.
func (a *Actor) ActorSystem() *ActorSystem {
	return a.as
}

// Get the SystemData for the ActorSystem in which the actor is running.
func (a *Actor) SystemData() interface{} {
	return a.as.SystemData()
}
