package bank

import (
	"fmt"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

// SagaState is the phase a transfer saga is in.
type SagaState int32

const (
	AwaitingWithdraw SagaState = iota
	AwaitingDeposit
	TerminalDone
	TerminalFailed
)

func (s SagaState) String() string {
	switch s {
	case AwaitingWithdraw:
		return "awaiting withdraw"
	case AwaitingDeposit:
		return "awaiting deposit"
	case TerminalDone:
		return "done"
	case TerminalFailed:
		return "failed"
	default:
		return fmt.Sprintf("SagaState(%d)", int32(s))
	}
}

// Terminal reports whether the saga has ended.
func (s SagaState) Terminal() bool {
	return s == TerminalDone || s == TerminalFailed
}

// sagaAction is the side effect a transition asks the saga to perform.
type sagaAction int

const (
	actionNone sagaAction = iota
	actionSendDeposit
	actionReportDone
	actionReportFailed
	actionReportStranded
)

// transition is the whole saga protocol: the next state and action for a
// message received in state. Any pair not listed is a protocol violation
// and ends a running saga in TerminalFailed. A saga that has ended keeps
// its state and rejects everything.
func transition(state SagaState, msg interface{}) (SagaState, sagaAction, error) {
	if state.Terminal() {
		return state, actionNone, actor.NewError("transfer", fmt.Errorf("unexpected %T after %v", msg, state), actor.ErrCodeProtocol)
	}
	r, ok := msg.(TransactionResult)
	switch {
	case state == AwaitingWithdraw && ok && r == Done:
		return AwaitingDeposit, actionSendDeposit, nil
	case state == AwaitingWithdraw && ok && r == Failed:
		return TerminalFailed, actionReportFailed, nil
	case state == AwaitingDeposit && ok && r == Done:
		return TerminalDone, actionReportDone, nil
	case state == AwaitingDeposit && ok && r == Failed:
		return TerminalFailed, actionReportStranded, nil
	}
	err := actor.NewError("transfer", fmt.Errorf("unexpected %T (%v) while %v", msg, msg, state), actor.ErrCodeProtocol)
	return TerminalFailed, actionNone, err
}
