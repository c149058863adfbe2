package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/billops/backoffice/internal/domain"
)

// GenerationJobName identifies the obligation-generation job in schedules,
// run history and the admin API.
const GenerationJobName = "obligation-generation"

// Generator materializes the monthly obligations missing for the period
// containing the run instant. Re-running for the same period is a no-op for
// pairs already created: the delta is recomputed at call time and the bulk
// insert skips duplicate triples.
type Generator struct {
	clients     domain.ClientRepository
	types       domain.ObligationTypeRepository
	obligations domain.ObligationRepository
	log         zerolog.Logger
}

func NewGenerator(
	clients domain.ClientRepository,
	types domain.ObligationTypeRepository,
	obligations domain.ObligationRepository,
	log zerolog.Logger,
) *Generator {
	return &Generator{
		clients:     clients,
		types:       types,
		obligations: obligations,
		log:         log.With().Str("job", GenerationJobName).Logger(),
	}
}

func (g *Generator) Name() string { return GenerationJobName }

// Run executes one generation pass for the period containing now and returns
// the number of records created.
func (g *Generator) Run(ctx context.Context, now time.Time) (int64, error) {
	period := domain.PeriodOf(now)

	clients, err := g.clients.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("billing.Generator.Run: list clients: %w", err)
	}

	types, err := g.types.ListByCadence(ctx, domain.CadenceMonthly)
	if err != nil {
		return 0, fmt.Errorf("billing.Generator.Run: list obligation types: %w", err)
	}

	existing, err := g.obligations.ListPairs(ctx, period)
	if err != nil {
		return 0, fmt.Errorf("billing.Generator.Run: list existing pairs: %w", err)
	}

	missing := ComputeMissing(clients, types, existing)
	if len(missing) == 0 {
		g.log.Debug().
			Stringer("period", period).
			Int("clients", len(clients)).
			Int("types", len(types)).
			Msg("all obligations already materialized")
		return 0, nil
	}

	created, err := g.obligations.CreateBatch(ctx, period, missing, now)
	if err != nil {
		return 0, fmt.Errorf("billing.Generator.Run: materialize: %w", err)
	}

	g.log.Info().
		Stringer("period", period).
		Int("missing", len(missing)).
		Int64("created", created).
		Msg("obligations materialized")

	return created, nil
}
