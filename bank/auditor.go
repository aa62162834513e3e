package bank

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Tarjei400/actors-vs-locks/actor"
)

// AuditReport lists the balance of every audited account by actor name.
type AuditReport struct {
	Balances map[string]float64
	Total    float64
}

// Audit asks every account for its balance concurrently. The balances are
// each a consistent answer of one account, but they are not a snapshot of
// the bank: transfers in flight may be counted on neither or both sides.
func Audit(ctx context.Context, refs []*actor.ActorRef) (AuditReport, error) {
	balances := make([]float64, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			b, err := AskBalance(ctx, ref)
			if err != nil {
				return err
			}
			balances[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AuditReport{}, err
	}

	report := AuditReport{Balances: make(map[string]float64, len(refs))}
	for i, ref := range refs {
		report.Balances[ref.Name()] = balances[i]
		report.Total += balances[i]
	}
	return report, nil
}
