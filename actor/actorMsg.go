// actorMsg
package actor

import (
	log "github.com/sirupsen/logrus"
)

const (
	MsgTypeMessage = iota
	MsgTypeEvent
)
const (
	MsgTypePoison = iota + 9000
	MsgTypeTimeout
)

// all inter-actor messages have this structure
type ActorMsg interface {
	Type() int
	Data() interface{}
	Sender() *ActorRef
	Reply(interface{}, *ActorRef) error
	Wrap(wrapper interface{}, who *ActorRef) ActorMsg
	Unwrap() ActorMsg
	IsPoison() bool
	IsTimeout() bool
}

type actorMsg struct {
	msgType int
	data    interface{}
	sender  *ActorRef
	wrapped *actorMsg
}

// Type method
func (am actorMsg) Type() int {
	return am.msgType
}

// Data method
func (am actorMsg) Data() interface{} {
	return am.data
}

// Sender method
func (am actorMsg) Sender() *ActorRef {
	return am.sender
}

// create an ActorMsg
func NewActorMsg(data interface{}, sender *ActorRef) ActorMsg {
	return newActorMsg(MsgTypeMessage, data, sender)
}

func newActorMsg(msgType int, data interface{}, sender *ActorRef) actorMsg {
	return actorMsg{msgType, data, sender, nil}
}

// Reply to the sender of a message. A reply is posted: the replying
// actor never waits for room in the sender's mailbox. A reply to a
// sender that has gone away is reported as undeliverable and handed
// to the dead letter queue of the sender's system.
func (msg actorMsg) Reply(data interface{}, replyTo *ActorRef) error {
	if msg.sender == nil || msg.sender.IsNoreply() {
		log.WithFields(log.Fields{
			"reason": "noreply",
			"data":   data,
		}).Debug("Reply dropped: message has no sender")
		return NewError("Reply", nil, ErrCodeClosed)
	}
	err := msg.sender.Post(data, replyTo)
	if err != nil {
		log.WithFields(log.Fields{
			"reason": "undeliverable",
			"target": msg.sender.Name(),
		}).Debugf("Reply failed: %v", err)
		if as := msg.sender.as; as != nil {
			as.problem(msg.sender.Name() + " undeliverable")
			as.ToDeadLetter(NewActorMsg(data, replyTo))
		}
	}
	return err
}

// wrap the message
func (msg actorMsg) Wrap(wrapper interface{}, who *ActorRef) ActorMsg {
	return actorMsg{msg.Type(), wrapper, who, &msg}
}

// unwrap the message
func (msg actorMsg) Unwrap() ActorMsg {
	w := msg.wrapped
	// this code looks crazy, but is needed to avoid typed nil
	if w == nil {
		return nil
	}
	return *w
}

// check poison message
func (msg actorMsg) IsPoison() bool {
	return msg.Type() == MsgTypePoison
}

// check timeout message
func (msg actorMsg) IsTimeout() bool {
	return msg.Type() == MsgTypeTimeout
}
