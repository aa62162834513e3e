package bank

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

// Topics of transfer events.
const (
	TopicTransferDone     = "transfer.done"
	TopicTransferFailed   = "transfer.failed"
	TopicTransferStranded = "transfer.stranded"
)

// TransferEvent is published when a saga ends.
type TransferEvent struct {
	SagaID   string
	From     string
	To       string
	Amount   float64
	State    SagaState
	Stranded bool
	Err      error
}

// withdrawUnsent tells a saga that its withdraw never reached the source.
type withdrawUnsent struct {
	err error
}

// TransferSaga is the handle of a running transfer. The saga itself is a
// hidden actor; the handle only observes it.
type TransferSaga struct {
	id       string
	transfer Transfer
	customer *actor.ActorRef
	ref      *actor.ActorRef
	metrics  *Metrics
	events   *actor.EventBus

	state    atomic.Int32
	stranded bool
	err      error
}

// StartTransfer starts a saga moving t.Amount from t.From to t.To and sends
// the withdraw to the source. The saga reports one TransferStatus to
// customer when it ends, or an *actor.ActorError if a peer broke the
// protocol. A nil customer gets nothing; use Wait instead.
func StartTransfer(as *actor.ActorSystem, t Transfer, customer *actor.ActorRef, opts ...Option) (*TransferSaga, error) {
	if t.From == nil || t.To == nil {
		return nil, actor.NewError("StartTransfer", errors.New("transfer needs a source and a destination"), actor.ErrCodeInvalid)
	}
	if customer == nil {
		customer = actor.NoreplyActorRef()
	}
	o := newOptions(opts)
	s := &TransferSaga{
		id:       uuid.NewString(),
		transfer: t,
		customer: customer,
		metrics:  o.metrics,
		events:   o.events,
	}
	s.state.Store(int32(AwaitingWithdraw))

	ref, err := as.BuildActor("transfer-"+s.id, s.receive).
		WithEnter(s.begin).
		Hidden().
		Run()
	if err != nil {
		return nil, err
	}
	s.ref = ref
	return s, nil
}

// RunTransfer runs a transfer and waits for its outcome.
func RunTransfer(ctx context.Context, as *actor.ActorSystem, from, to *actor.ActorRef, amount float64, opts ...Option) (TransferStatus, error) {
	s, err := StartTransfer(as, Transfer{From: from, To: to, Amount: amount}, nil, opts...)
	if err != nil {
		return TransferFailed, err
	}
	return s.Wait(ctx)
}

// ID of the saga.
func (s *TransferSaga) ID() string {
	return s.id
}

// Done is closed when the saga has ended.
func (s *TransferSaga) Done() <-chan struct{} {
	return s.ref.Done()
}

// State of the saga.
func (s *TransferSaga) State() SagaState {
	return SagaState(s.state.Load())
}

// Stranded reports whether the saga ended after withdrawing from the
// source without crediting the destination. Valid once Done is closed.
func (s *TransferSaga) Stranded() bool {
	select {
	case <-s.Done():
		return s.stranded
	default:
		return false
	}
}

// Err is the protocol or delivery error that ended the saga, if any.
// A business failure is not an error. Valid once Done is closed.
func (s *TransferSaga) Err() error {
	select {
	case <-s.Done():
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the saga ends or ctx is done. A timeout leaves the
// saga running.
func (s *TransferSaga) Wait(ctx context.Context) (TransferStatus, error) {
	select {
	case <-s.Done():
		if s.State() == TerminalDone {
			return TransferDone, nil
		}
		return TransferFailed, s.err
	case <-ctx.Done():
		return TransferFailed, actor.NewError("Wait transfer-"+s.id, ctx.Err(), actor.ErrCodeTimeout)
	}
}

func (s *TransferSaga) begin(ac actor.ActorContext) {
	log.WithFields(s.fields()).Debug("transfer started")
	if err := s.transfer.From.Send(Withdraw{Amount: s.transfer.Amount}, ac.Self()); err != nil {
		// the mailbox is empty, this cannot block
		_ = ac.Self().Post(withdrawUnsent{err: err}, nil)
	}
}

func (s *TransferSaga) receive(ac actor.ActorContext, msg actor.ActorMsg) {
	if u, ok := msg.Data().(withdrawUnsent); ok {
		s.finish(ac, TerminalFailed, false, u.err)
		return
	}

	next, action, err := transition(s.State(), msg.Data())
	if err != nil {
		s.violate(ac, msg, err)
		return
	}
	s.state.Store(int32(next))

	switch action {
	case actionSendDeposit:
		log.WithFields(s.fields()).Debug("transfer withdraw done")
		if err := s.transfer.To.Send(Deposit{Amount: s.transfer.Amount}, ac.Self()); err != nil {
			s.finish(ac, TerminalFailed, true, err)
		}
	case actionReportDone:
		s.finish(ac, TerminalDone, false, nil)
	case actionReportFailed:
		s.finish(ac, TerminalFailed, false, nil)
	case actionReportStranded:
		s.finish(ac, TerminalFailed, true, nil)
	}
}

func (s *TransferSaga) violate(ac actor.ActorContext, msg actor.ActorMsg, err error) {
	log.WithFields(s.fields()).WithField("sender", msg.Sender().Name()).Error(err)
	s.metrics.violation(context.Background(), "transfer")
	ac.ActorSystem().ReportProblem(ac.Name() + " protocol violation")
	ac.ActorSystem().ToDeadLetter(msg.Wrap(err.Error(), ac.Self()))
	s.finish(ac, TerminalFailed, s.State() == AwaitingDeposit, err)
}

// finish ends the saga. The customer gets a TransferStatus, or the error
// if the protocol was broken.
func (s *TransferSaga) finish(ac actor.ActorContext, state SagaState, stranded bool, err error) {
	s.state.Store(int32(state))
	s.stranded = stranded
	s.err = err

	status := TransferDone
	topic := TopicTransferDone
	if state != TerminalDone {
		status = TransferFailed
		topic = TopicTransferFailed
	}
	if stranded {
		topic = TopicTransferStranded
		log.WithFields(s.fields()).Warn("transfer failed after withdraw, funds are stranded")
	} else {
		log.WithFields(s.fields()).Debugf("transfer %v", status)
	}
	s.metrics.transfer(context.Background(), status, stranded)

	if s.events != nil {
		_ = s.events.Publish(topic, TransferEvent{
			SagaID:   s.id,
			From:     s.transfer.From.Name(),
			To:       s.transfer.To.Name(),
			Amount:   s.transfer.Amount,
			State:    state,
			Stranded: stranded,
			Err:      err,
		})
	}

	if !s.customer.IsNoreply() {
		var reply interface{} = status
		if errors.Is(err, actor.ErrProtocol) {
			reply = err
		}
		if serr := s.customer.Post(reply, ac.Self()); serr != nil {
			log.WithFields(s.fields()).Errorf("customer %v unreachable: %v", s.customer.Name(), serr)
		}
	}
	ac.Stop()
}

func (s *TransferSaga) fields() log.Fields {
	return log.Fields{
		"saga":   s.id,
		"from":   s.transfer.From.Name(),
		"to":     s.transfer.To.Name(),
		"amount": s.transfer.Amount,
		"state":  s.State(),
	}
}

// String implements the Stringer interface.
func (s *TransferSaga) String() string {
	return fmt.Sprintf("transfer-%s %v -> %v (%v): %v",
		s.id, s.transfer.From.Name(), s.transfer.To.Name(), s.transfer.Amount, s.State())
}
