// actor project doc.go

/*
The actor package provides a lightweight Actor framework for go.
It is consciously based on the Akka framework, which in turn derives from Erlang.
The main restriction of actor is that it is not a distributed framework -
all actors live in one process.

The actor framework provides a simple model to implement asynchronous concurrent
processing. Actors deal with one message at a time, in the order the messages
arrived in their mailbox, so developers do not need to handle locking and
synchronization of the state an actor owns. Parallelism is achieved by running
several actors in parallel.

Actors encapsulate functionality and state. They communicate via
message passing. Developers define functions to handle the messages that an
actor receives. An actor can receive multiple message types. Every message
carries the reference of its sender, so the receiver can reply without
knowing who asked.

As well as point-to-point message passing, the actor framework also supports
a pub-sub model. Actors subscribing to a topic receive messages in the same
handler function as normal messages.

Although the framework focuses on asynchronous communications, it also supports
a request/response mechanism: Ask sends a message with a one-shot reply address
and waits for the reply within a bounded time.

Mailboxes are bounded. Send waits for space, which is the backpressure a slow
actor puts on its callers; TrySend fails fast instead. Post never waits and
never fails for a live receiver: what does not fit in the mailbox is queued
and delivered in order later. Replies are posted, so an actor answering a
busy sender cannot get stuck on it.

The package provides a simple directory service to make actors discoverable.
*/
package actor
