package orchestrator

// #region imports
import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// #endregion

// #region batch

// ExecuteBatch runs independent chains with at most concurrency in flight
// (<= 0 uses the configured default). Results keep request order. The first
// fatal error cancels chains that have not finished and is returned with the
// partial result slice.
func (o *Orchestrator) ExecuteBatch(ctx context.Context, reqs []Request, concurrency int) ([]*Result, error) {
	if concurrency <= 0 {
		concurrency = o.batchLimit
	}
	results := make([]*Result, len(reqs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, req := range reqs {
		eg.Go(func() error {
			res, err := o.ExecuteReasoningChain(egCtx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err := eg.Wait()
	o.log.Info("batch finished", zap.Int("requests", len(reqs)), zap.Int("concurrency", concurrency), zap.Bool("failed", err != nil))
	return results, err
}

// #endregion
