package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/vpsim/predictor"
	"github.com/sarchlab/vpsim/trace"
)

// RunFiles simulates each trace file as an independent instruction stream.
// Streams run concurrently, each with its own tables; results are returned
// in the order of paths. The first failure cancels the remaining streams.
func RunFiles(
	ctx context.Context,
	config *predictor.Config,
	paths []string,
	opts ...Option,
) ([]Result, error) {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			r, err := trace.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			s, err := New(config, append([]Option{WithName(path)}, opts...)...)
			if err != nil {
				return err
			}

			results[i], err = s.Run(ctx, r)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
