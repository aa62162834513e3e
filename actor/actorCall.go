// actorCall
package actor

import (
	"context"
	"strconv"
	"sync/atomic"
)

var askSeq atomic.Uint64

// Ask sends data to the actor and waits for the first reply.
// The message carries a one-shot sender reference that is not an
// actor and not in the directory, so the target replies to it like
// to any other sender. If ctx has no deadline the system's ask
// timeout applies.
//
// Ask waits for mailbox space only as long as ctx allows. If ctx ends
// before the request is queued, Ask returns ErrTimeout and the request
// is never delivered. If ctx ends after the request was queued, Ask
// also returns ErrTimeout, but the target still handles the request
// and its reply is dropped, so any state change it makes stands.
func (ref *ActorRef) Ask(ctx context.Context, data interface{}) (ActorMsg, error) {
	op := "Ask " + ref.Name()
	if ref == nil || ref.mailbox == nil {
		return nil, NewError(op, nil, ErrCodeClosed)
	}
	if _, ok := ctx.Deadline(); !ok && ref.as != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ref.as.askTimeout)
		defer cancel()
	}

	replyTo := &ActorRef{
		as:      ref.as,
		mailbox: make(chan ActorMsg, 1),
		done:    make(chan struct{}),
		name:    "!ask-" + strconv.FormatUint(askSeq.Add(1), 10),
		outbox:  &outbox{},
	}
	defer close(replyTo.done)

	// checked first so a dead target is never mistaken for a slow one
	// and an expired ctx never queues anything
	select {
	case <-ref.done:
		return nil, NewError(op, nil, ErrCodeClosed)
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, NewError(op, err, ErrCodeTimeout)
	}
	select {
	case ref.mailbox <- NewActorMsg(data, replyTo):
	case <-ref.done:
		return nil, NewError(op, nil, ErrCodeClosed)
	case <-ctx.Done():
		return nil, NewError(op, ctx.Err(), ErrCodeTimeout)
	}

	select {
	case rsp := <-replyTo.mailbox:
		return rsp, nil
	case <-ref.done:
		// the target may have replied just before exiting
		select {
		case rsp := <-replyTo.mailbox:
			return rsp, nil
		default:
		}
		return nil, NewError(op, nil, ErrCodeClosed)
	case <-ctx.Done():
		return nil, NewError(op, ctx.Err(), ErrCodeTimeout)
	}
}
