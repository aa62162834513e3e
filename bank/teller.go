package bank

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

// TellerConfig describes a teller run: Seed is deposited into both
// accounts, then Transfers transfers of Amount go each way between them.
type TellerConfig struct {
	A         *actor.ActorRef
	B         *actor.ActorRef
	Transfers int
	Amount    float64
	Seed      float64
	Deadline  time.Duration
	Progress  time.Duration
}

// TellerReport is sent to the probe when a teller has finished.
type TellerReport struct {
	Done    int
	Failed  int
	Elapsed time.Duration
	Err     error
}

type (
	tellerStart    struct{}
	tellerDeadline struct{}
	tellerProgress struct{}
)

type teller struct {
	cfg      TellerConfig
	probe    *actor.ActorRef
	opts     []Option
	started  time.Time
	seeding  int
	done     int
	failed   int
	stopTick func()
}

// StartTeller starts a hidden actor that seeds both accounts of cfg, then
// fires cfg.Transfers transfers A to B and as many B to A, all at once. It
// counts the outcomes and sends one TellerReport to probe when all
// transfers have ended or the deadline has passed.
func StartTeller(as *actor.ActorSystem, cfg TellerConfig, probe *actor.ActorRef, opts ...Option) (*actor.ActorRef, error) {
	if cfg.A == nil || cfg.B == nil {
		return nil, actor.NewError("StartTeller", errors.New("teller needs two accounts"), actor.ErrCodeInvalid)
	}
	if probe == nil {
		probe = actor.NoreplyActorRef()
	}
	t := &teller{cfg: cfg, probe: probe, opts: opts}
	return as.BuildActor("teller-"+uuid.NewString(), t.receive).
		WithEnter(t.enter).
		Hidden().
		Run()
}

// RunTeller runs a teller and waits for its report.
func RunTeller(ctx context.Context, as *actor.ActorSystem, cfg TellerConfig, opts ...Option) (TellerReport, error) {
	reports := make(chan TellerReport, 1)
	probe, err := as.BuildActor("teller-probe-"+uuid.NewString(), func(ac actor.ActorContext, msg actor.ActorMsg) {
		if r, ok := msg.Data().(TellerReport); ok {
			reports <- r
			ac.Stop()
		}
	}).Hidden().Run()
	if err != nil {
		return TellerReport{}, err
	}
	if _, err := StartTeller(as, cfg, probe, opts...); err != nil {
		probe.Kill()
		return TellerReport{}, err
	}
	select {
	case r := <-reports:
		return r, r.Err
	case <-ctx.Done():
		probe.Kill()
		return TellerReport{}, actor.NewError("RunTeller", ctx.Err(), actor.ErrCodeTimeout)
	}
}

func (t *teller) enter(ac actor.ActorContext) {
	t.started = time.Now()
	if t.cfg.Deadline > 0 {
		ac.After(t.cfg.Deadline, tellerDeadline{})
	}
	if t.cfg.Progress > 0 {
		t.stopTick = ac.Every(t.cfg.Progress, tellerProgress{})
	}
	_ = ac.Self().Post(tellerStart{}, nil)
}

func (t *teller) receive(ac actor.ActorContext, msg actor.ActorMsg) {
	switch m := msg.Data().(type) {
	case tellerStart:
		t.seeding = 2
		for _, ref := range []*actor.ActorRef{t.cfg.A, t.cfg.B} {
			if err := ref.Send(Deposit{Amount: t.cfg.Seed}, ac.Self()); err != nil {
				t.report(ac, err)
				return
			}
		}
	case TransactionResult:
		if m != Done {
			t.report(ac, actor.NewError(ac.Name(), errors.New("seed deposit failed"), actor.ErrCodeInvalid))
			return
		}
		if t.seeding--; t.seeding == 0 {
			t.fire(ac)
		}
	case TransferStatus:
		if m == TransferDone {
			t.done++
		} else {
			t.failed++
		}
		if t.done+t.failed == 2*t.cfg.Transfers {
			t.report(ac, nil)
		}
	case tellerProgress:
		log.WithFields(log.Fields{
			"teller":  ac.Name(),
			"done":    t.done,
			"failed":  t.failed,
			"pending": 2*t.cfg.Transfers - t.done - t.failed,
		}).Info("teller progress")
	case tellerDeadline:
		t.report(ac, actor.NewError(ac.Name(), errors.New("deadline passed"), actor.ErrCodeTimeout))
	case error:
		// a saga hit a protocol violation
		t.failed++
		if t.done+t.failed == 2*t.cfg.Transfers {
			t.report(ac, nil)
		}
	}
}

func (t *teller) fire(ac actor.ActorContext) {
	if t.cfg.Transfers == 0 {
		t.report(ac, nil)
		return
	}
	as := ac.ActorSystem()
	for i := 0; i < t.cfg.Transfers; i++ {
		for _, tr := range []Transfer{
			{From: t.cfg.A, To: t.cfg.B, Amount: t.cfg.Amount},
			{From: t.cfg.B, To: t.cfg.A, Amount: t.cfg.Amount},
		} {
			if _, err := StartTransfer(as, tr, ac.Self(), t.opts...); err != nil {
				t.report(ac, err)
				return
			}
		}
	}
}

func (t *teller) report(ac actor.ActorContext, err error) {
	r := TellerReport{
		Done:    t.done,
		Failed:  t.failed,
		Elapsed: time.Since(t.started),
		Err:     err,
	}
	log.WithFields(log.Fields{
		"teller":  ac.Name(),
		"done":    r.Done,
		"failed":  r.Failed,
		"elapsed": r.Elapsed,
	}).Info("teller finished")
	if t.stopTick != nil {
		t.stopTick()
	}
	if !t.probe.IsNoreply() {
		_ = t.probe.Post(r, ac.Self())
	}
	ac.Stop()
}
