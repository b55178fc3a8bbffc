package pipeline

import (
	"context"

	"github.com/samber/lo"
)

// RunAll runs the pipeline on each complex in turn. A complex that fails or
// has nothing selected does not stop the others; its error is kept in the
// corresponding Result.
func (p *Pipeline) RunAll(ctx context.Context, complexes []Complex) []*Result {
	results := make([]*Result, 0, len(complexes))
	for _, c := range complexes {
		res, err := p.Run(ctx, c)
		if res == nil {
			res = &Result{ComplexID: c.ID}
		}
		res.Err = err
		results = append(results, res)
	}

	delivered := lo.CountBy(results, func(r *Result) bool { return r.Delivered })
	p.logger().Infof("%d of %d complex(es) delivered", delivered, len(results))
	return results
}
