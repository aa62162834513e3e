// actorRef
package actor

// handle for other actors to send messages
type ActorRef struct {
	as      *ActorSystem
	mailbox chan ActorMsg
	done    chan struct{}
	name    string
	outbox  *outbox
}

const (
	noreply = "!noreply"
)

// Name of the referenced actor.
func (ref *ActorRef) Name() string {
	if ref == nil {
		return "<nil>"
	}
	return ref.name
}

// Done is closed when the referenced actor has exited.
func (ref *ActorRef) Done() <-chan struct{} {
	return ref.done
}

// send a message to an actor. Blocks while the mailbox is full and
// fails once the actor has exited.
func (ref *ActorRef) SendMsg(msg ActorMsg) error {
	if ref == nil || ref.mailbox == nil {
		return NewError("Send to "+ref.Name(), nil, ErrCodeClosed)
	}
	// checked first so a full mailbox of a dead actor is never chosen
	select {
	case <-ref.done:
		return NewError("Send to "+ref.name, nil, ErrCodeClosed)
	default:
	}
	select {
	case ref.mailbox <- msg:
		return nil
	case <-ref.done:
		return NewError("Send to "+ref.name, nil, ErrCodeClosed)
	}
}

// convenience method to build ActorMsg and send
func (ref *ActorRef) Send(data interface{}, sender *ActorRef) error {
	if sender == nil {
		sender = NoreplyActorRef()
	}
	return ref.SendMsg(NewActorMsg(data, sender))
}

// TrySend is Send without waiting for mailbox space. A full mailbox
// is reported as an overload problem on the system bus.
func (ref *ActorRef) TrySend(data interface{}, sender *ActorRef) error {
	if sender == nil {
		sender = NoreplyActorRef()
	}
	return ref.TrySendMsg(NewActorMsg(data, sender))
}

// TrySendMsg is SendMsg without waiting for mailbox space.
func (ref *ActorRef) TrySendMsg(msg ActorMsg) error {
	if ref == nil || ref.mailbox == nil {
		return NewError("Send to "+ref.Name(), nil, ErrCodeClosed)
	}
	select {
	case <-ref.done:
		return NewError("Send to "+ref.name, nil, ErrCodeClosed)
	default:
	}
	select {
	case ref.mailbox <- msg:
		return nil
	default:
		if ref.as != nil {
			ref.as.problem(ref.name + " overload")
		}
		return NewError("Send to "+ref.name, nil, ErrCodeMailboxFull)
	}
}

// forward a message to an actor
func (ref *ActorRef) Forward(msg ActorMsg) error {
	return ref.SendMsg(msg)
}

// kill an actor. The poison is queued behind the messages already in
// the mailbox. Killing a dead actor has no effect.
func (ref *ActorRef) Kill() {
	_ = ref.SendMsg(newActorMsg(MsgTypePoison, "", nil))
}

// Noreply ActorRef
func NoreplyActorRef() *ActorRef {
	return makeSomething(noreply)
}

// is it the noreply actor?
func (ref *ActorRef) IsNoreply() bool {
	return isSomething(ref, noreply)
}

// make a thing
func makeSomething(something string) *ActorRef {
	return &ActorRef{name: something}
}

// is it a thing?
func isSomething(ref *ActorRef, something string) bool {
	return ref != nil && ref.name == something
}
