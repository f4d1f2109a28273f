package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulator for one ensemble member.
type Factory func(seed int64) (*Simulator, error)

// Ensemble runs seeded copies of a scene concurrently, one World per
// goroutine.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		factory:   factory,
		numRuns:   numRuns,
		seedStart: seedStart,
		limit:     runtime.GOMAXPROCS(0),
	}
}

// SetLimit caps concurrent runs. n <= 0 removes the cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run returns results indexed by run. The first failing run cancels the
// rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			s, err := e.factory(e.seedStart + int64(i))
			if err != nil {
				return err
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
