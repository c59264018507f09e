package compliance

import (
	"context"

	"golang.org/x/sync/errgroup"

	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
)

// batchConcurrency bounds parallel evaluations so a large roster check does
// not exhaust the store's connection pool.
const batchConcurrency = 8

// EvaluateBatch evaluates every employee in employeeIDs against the same
// context, preserving input order in the result. Any fail-closed error fails
// the whole batch: a roster check must not report partial clearance when some
// employees could not be verified.
func (s *Service) EvaluateBatch(ctx context.Context, employeeIDs []id.EmployeeID, evalCtx EvaluationContext) ([]*Verdict, error) {
	if len(employeeIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "employeeIds must not be empty")
	}

	verdicts := make([]*Verdict, len(employeeIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, employeeID := range employeeIDs {
		g.Go(func() error {
			verdict, err := s.Evaluate(ctx, EvaluateRequest{
				EmployeeID: employeeID,
				Context:    evalCtx,
			})
			if err != nil {
				return err
			}
			verdicts[i] = verdict
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return verdicts, nil
}
