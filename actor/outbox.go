// outbox
package actor

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// messages posted while the mailbox was full, oldest first
type outbox struct {
	sync.Mutex
	queue    []ActorMsg
	draining bool
}

// Post delivers data without ever waiting for the receiver. If the
// mailbox is full the message is queued behind earlier posts and a
// single goroutine hands the queue over in order as the receiver
// catches up. Post fails only when the receiver has exited; posts
// still queued when it exits go to the DLQ.
func (ref *ActorRef) Post(data interface{}, sender *ActorRef) error {
	if sender == nil {
		sender = NoreplyActorRef()
	}
	return ref.PostMsg(NewActorMsg(data, sender))
}

// PostMsg is Post for a ready made message.
func (ref *ActorRef) PostMsg(msg ActorMsg) error {
	if ref == nil || ref.mailbox == nil || ref.outbox == nil {
		return NewError("Post to "+ref.Name(), nil, ErrCodeClosed)
	}
	select {
	case <-ref.done:
		return NewError("Post to "+ref.name, nil, ErrCodeClosed)
	default:
	}
	ob := ref.outbox
	ob.Lock()
	defer ob.Unlock()
	// a post may only skip the queue when nothing is waiting in it
	if !ob.draining {
		select {
		case ref.mailbox <- msg:
			return nil
		default:
		}
		ob.draining = true
		go ref.drain()
	}
	ob.queue = append(ob.queue, msg)
	return nil
}

// Pending is the number of posted messages waiting for mailbox space.
func (ref *ActorRef) Pending() int {
	if ref == nil || ref.outbox == nil {
		return 0
	}
	ref.outbox.Lock()
	defer ref.outbox.Unlock()
	return len(ref.outbox.queue)
}

func (ref *ActorRef) drain() {
	ob := ref.outbox
	for {
		ob.Lock()
		if len(ob.queue) == 0 {
			ob.draining = false
			ob.Unlock()
			return
		}
		msg := ob.queue[0]
		ob.Unlock()

		select {
		case ref.mailbox <- msg:
			ob.Lock()
			ob.queue[0] = nil
			ob.queue = ob.queue[1:]
			ob.Unlock()
		case <-ref.done:
			ob.Lock()
			lost := ob.queue
			ob.queue = nil
			ob.draining = false
			ob.Unlock()
			ref.undeliverable(lost)
			return
		}
	}
}

func (ref *ActorRef) undeliverable(lost []ActorMsg) {
	if len(lost) == 0 {
		return
	}
	log.WithFields(log.Fields{
		"reason": "undeliverable",
		"target": ref.name,
		"count":  len(lost),
	}).Debug("Posted messages outlived their receiver")
	if ref.as == nil {
		return
	}
	ref.as.problem(ref.name + " undeliverable")
	for _, msg := range lost {
		if msg.IsPoison() {
			continue
		}
		ref.as.ToDeadLetter(msg)
	}
}
