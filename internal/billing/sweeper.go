package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/billops/backoffice/internal/domain"
)

// SweepJobName identifies the account-cancellation job.
const SweepJobName = "account-cancellation"

// GraceWindow is the domain tolerance between an account entering
// delinquency and its automatic cancellation. A domain rule, not
// configuration.
const GraceWindow = 10 * 24 * time.Hour

// Sweeper cancels accounts that have stayed delinquent past the grace
// window. The transition is a single conditional bulk update so concurrent
// status changes cannot race a read-then-write loop.
type Sweeper struct {
	accounts domain.AccountRepository
	log      zerolog.Logger
}

func NewSweeper(accounts domain.AccountRepository, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		accounts: accounts,
		log:      log.With().Str("job", SweepJobName).Logger(),
	}
}

func (s *Sweeper) Name() string { return SweepJobName }

// Run cancels every sweepable account whose delinquency timestamp is at
// least GraceWindow before now. Returns the number of accounts transitioned;
// zero is a normal outcome.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-GraceWindow)

	affected, err := s.accounts.CancelDelinquent(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("billing.Sweeper.Run: %w", err)
	}

	if affected == 0 {
		s.log.Debug().Time("cutoff", cutoff).Msg("no accounts past grace window")
	} else {
		s.log.Info().Time("cutoff", cutoff).Int64("cancelled", affected).Msg("delinquent accounts cancelled")
	}

	return affected, nil
}
