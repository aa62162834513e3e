// actorContext
package actor

import (
	"time"
)

// interface for callback functions to use. Only the
// actor's own goroutine may call these methods.
type ActorContext interface {
	Name() string
	Self() *ActorRef
	Stop()
	After(time.Duration, interface{})
	Every(time.Duration, interface{}) func()
	ActorSystem() *ActorSystem
	SystemData() interface{}
}

var _ ActorContext = (*Actor)(nil)
