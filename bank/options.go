package bank

import (
	"github.com/Tarjei400/actors-vs-locks/actor"
)

type options struct {
	metrics     *Metrics
	events      *actor.EventBus
	mailboxSize int
}

// Option configures account actors, transfer sagas, tellers and banks.
// Options that do not apply to a component are ignored by it.
type Option func(*options)

// WithMetrics records operations on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithEvents publishes transfer outcomes on bus.
func WithEvents(bus *actor.EventBus) Option {
	return func(o *options) {
		o.events = bus
	}
}

// WithMailboxSize overrides the mailbox capacity of account actors.
func WithMailboxSize(size int) Option {
	return func(o *options) {
		o.mailboxSize = size
	}
}

func newOptions(opts []Option) options {
	o := options{metrics: NopMetrics()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) asOptions() []Option {
	return []Option{WithMetrics(o.metrics), WithEvents(o.events), WithMailboxSize(o.mailboxSize)}
}
