package actor

import (
	"fmt"
)

// A route inspects the data of a message and returns the actor
// it should go to together with the payload to deliver, or a nil
// ref if the route does not apply.
type routeFunc func(interface{}) (*ActorRef, interface{})

type routeBuilder struct {
	as     *ActorSystem
	name   string
	routes []routeFunc
}

// convenience method to quickly create a router without using builder
func (as *ActorSystem) NewRouter(name string, fn func(interface{}) (*ActorRef, interface{})) (*ActorRef, error) {
	return as.BuildRouter(name).AddRoute(fn).Run()
}

func (as *ActorSystem) BuildRouter(name string) *routeBuilder {
	return &routeBuilder{
		as,
		name,
		[]routeFunc{},
	}
}

func (rb *routeBuilder) AddRoute(fn func(interface{}) (*ActorRef, interface{})) *routeBuilder {
	rb.routes = append(rb.routes, fn)
	return rb
}

// Run starts the router. Routed payloads keep the original sender,
// so the target replies straight to whoever sent to the router.
// The router never waits for a target: a target with a full mailbox
// is reported as overloaded and the sender is answered with
// ErrMailboxFull, so one busy target does not hold up the others.
// A message no route accepts is answered with ErrNoRoute and
// written to the DLQ.
func (rb *routeBuilder) Run() (*ActorRef, error) {
	return rb.as.BuildActor(rb.name, func(ac ActorContext, am ActorMsg) {
		for _, route := range rb.routes {
			ref, payload := route(am.Data())
			if ref == nil {
				continue
			}
			if err := ref.TrySendMsg(NewActorMsg(payload, am.Sender())); err != nil {
				if am.Sender().IsNoreply() {
					rb.as.ToDeadLetter(am.Wrap(err.Error(), ac.Self()))
					return
				}
				_ = am.Reply(err, ac.Self())
			}
			return
		}
		err := NewError("Route", fmt.Errorf("%v has no route for %T", rb.name, am.Data()), ErrCodeNoRoute)
		if !am.Sender().IsNoreply() {
			_ = am.Reply(err, ac.Self())
		}
		rb.as.ToDeadLetter(am.Wrap(err.Error(), ac.Self()))
	}).Run()
}
