// Command depot-churn drives a storage through random structural churn and
// reports how the archetype set grows.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TheBitDrifter/depot"
)

type payload struct {
	Value float64
}

type options struct {
	components int
	entities   int
	rounds     int
	seed       uint64
	workers    int
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "depot-churn",
		Short:         "Stress archetype transitions with random add/remove/despawn churn",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(opts.verbose)
			return run(cmd.Context(), logger, opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.components, "components", 8, "number of component types to declare (1-64)")
	flags.IntVar(&opts.entities, "entities", 10_000, "number of live entities to maintain")
	flags.IntVar(&opts.rounds, "rounds", 10, "number of churn rounds")
	flags.Uint64Var(&opts.seed, "seed", 1, "random seed")
	flags.IntVar(&opts.workers, "workers", 0, "parallel archetype workers for the sum pass (0 = GOMAXPROCS)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log storage debug events")
	return cmd
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func run(ctx context.Context, logger zerolog.Logger, opts options) error {
	if opts.components < 1 || opts.components > depot.MaxComponents {
		return eris.Errorf("components must be between 1 and %d, got %d", depot.MaxComponents, opts.components)
	}
	if opts.entities < 1 {
		return eris.Errorf("entities must be positive, got %d", opts.entities)
	}

	schema := depot.Factory.NewSchema()
	components := make([]depot.AccessibleComponent[payload], opts.components)
	for i := range components {
		c, err := depot.FactoryNewComponent[payload](schema, fmt.Sprintf("c%d", i))
		if err != nil {
			return eris.Wrap(err, "declaring components")
		}
		components[i] = c
	}
	declared := depot.Mask(0)
	for _, c := range components {
		declared |= c.Mask()
	}

	depot.Config.SetLogger(logger)
	sto := depot.Factory.NewStorage(schema)
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	live := sto.Spawn(components[0].Mask(), opts.entities)
	start := time.Now()

	for round := range opts.rounds {
		var added, removed, respawned int
		for i, e := range live {
			m := depot.Mask(rng.Uint64()) & declared
			switch rng.IntN(3) {
			case 0:
				if sto.AddComponents(e, m) {
					added++
				}
			case 1:
				if sto.RemoveComponents(e, m) {
					removed++
				}
			default:
				sto.Despawn(e)
				live[i] = sto.Spawn(m, 1)[0]
				respawned++
			}
		}
		logger.Info().
			Int("round", round).
			Int("added", added).
			Int("removed", removed).
			Int("respawned", respawned).
			Int("archetypes", sto.ArchetypeCount()).
			Msg("round complete")
	}

	for i, c := range components {
		for _, e := range live {
			c.SetOnEntity(sto, e, payload{Value: float64(i + 1)})
		}
	}

	var sum atomic.Int64
	query := depot.Factory.NewQuery(components[0])
	err := depot.ForEachArchetype(ctx, sto, query, opts.workers, func(_ context.Context, arch depot.Archetype) error {
		var local int64
		for _, p := range components[0].Slice(arch) {
			local += int64(p.Value)
		}
		sum.Add(local)
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "summing first component")
	}

	empty := 0
	for arch := range sto.Archetypes() {
		if arch.Len() == 0 {
			empty++
		}
	}
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("entities", sto.TotalEntities()).
		Int("archetypes", sto.ArchetypeCount()).
		Int("empty_archetypes", empty).
		Int64("first_component_sum", sum.Load()).
		Msg("churn complete")
	return nil
}
