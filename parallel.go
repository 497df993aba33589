package depot

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// parallelLockBit is the lock ForEachArchetype holds for the duration of a run.
const parallelLockBit = 62

// ForEachArchetype calls fn once for every archetype matched by q, running at
// most limit calls at a time. A limit of zero or less means GOMAXPROCS.
//
// The storage is locked while fn runs, so structural changes must go through
// the Enqueue methods, which may be called from fn concurrently. They are
// applied once the run ends. fn may read and
// write component values of its own archetype only. The first error cancels
// the context passed to the remaining calls and is returned.
func ForEachArchetype(
	ctx context.Context,
	sto Storage,
	q Query,
	limit int,
	fn func(ctx context.Context, arch Archetype) error,
) error {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var matched []Archetype
	for arch := range sto.Archetypes() {
		if arch.Len() > 0 && q.Evaluate(arch) {
			matched = append(matched, arch)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	s := sto.(*storage)
	s.hold(parallelLockBit)
	defer s.release(parallelLockBit)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, arch := range matched {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, arch); err != nil {
				return eris.Wrapf(err, "archetype %d", arch.ID())
			}
			return nil
		})
	}
	return g.Wait()
}
