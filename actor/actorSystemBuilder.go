// actorSystemBuilder
package actor

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Builder for actor system.
type ActorSystemBuilder struct {
	as         *ActorSystem
	dlqBuilder *ActorBuilder
}

// Start building an actor system.
func BuildActorSystem() *ActorSystemBuilder {
	as := &ActorSystem{
		actors:      make(map[string]*ActorRef),
		live:        make(map[*ActorRef]struct{}),
		mailboxSize: DefaultMailboxSize,
		askTimeout:  DefaultAskTimeout,
	}
	// create the system event bus
	as.sysBus = NewEventBus(nil)

	return &ActorSystemBuilder{
		as,
		nil,
	}
}

// logDeadLetter is the default DLQ handler.
func logDeadLetter(_ ActorContext, msg ActorMsg) {
	log.WithFields(log.Fields{
		"reason": "DLQ",
		"source": msg.Sender().Name(),
	}).Error(msg.Data())
	for {
		if msg = msg.Unwrap(); msg == nil {
			break
		}
		log.WithFields(log.Fields{
			"reason": "DLQ (wrapped)",
			"source": msg.Sender().Name(),
		}).Error(msg.Data())
	}
}

// Assign user data to the actor system.
func (sb *ActorSystemBuilder) WithSystemData(userData interface{}) *ActorSystemBuilder {
	sb.as.userData = userData
	return sb
}

// Default mailbox capacity for actors of this system.
// Values below 1 are ignored.
func (sb *ActorSystemBuilder) WithMailboxSize(size int) *ActorSystemBuilder {
	if size > 0 {
		sb.as.mailboxSize = size
	}
	return sb
}

// Bound for Ask calls whose context has no deadline.
// Values below or equal to zero are ignored.
func (sb *ActorSystemBuilder) WithAskTimeout(timeout time.Duration) *ActorSystemBuilder {
	if timeout > 0 {
		sb.as.askTimeout = timeout
	}
	return sb
}

func (sb *ActorSystemBuilder) WithDeadLetterQueue(dlqFn func(ActorContext, ActorMsg)) *ActorSystemBuilder {
	sb.dlqBuilder = sb.as.BuildActor(deadLetterName, dlqFn).Hidden()
	return sb
}

func (sb *ActorSystemBuilder) Run() *ActorSystem {
	if sb.dlqBuilder == nil {
		sb.dlqBuilder = sb.as.BuildActor(deadLetterName, logDeadLetter).Hidden()
	}
	// the DLQ must keep up with every other actor
	sb.dlqBuilder.WithMailboxSize(sb.as.mailboxSize * 100)
	dlqRef, err := sb.dlqBuilder.Run()
	if err != nil {
		log.Fatalf("DLQ actor failed to start: %v", err)
	}
	sb.as.dlq = dlqRef
	return sb.as
}
