package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
)

// ObligationType is a recurring duty definition (e.g. rent, condo fee).
type ObligationType struct {
	ID        uuid.UUID
	Name      string
	Cadence   Cadence
	CreatedAt time.Time
}

type ObligationStatus string

const (
	ObligationStatusPending ObligationStatus = "pending"
	ObligationStatusSettled ObligationStatus = "settled"
)

// ObligationRecord materializes one ObligationType for one Client in one
// Period. The triple (ClientID, ObligationTypeID, Period) is unique; the
// schema enforces it as the backstop against concurrent generation runs.
type ObligationRecord struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	ObligationTypeID uuid.UUID
	Period           Period
	Status           ObligationStatus
	AutoSettled      bool
	CreatedAt        time.Time
}

// Pair is the (client, obligation type) key the delta computation operates on.
type Pair struct {
	ClientID         uuid.UUID
	ObligationTypeID uuid.UUID
}

type ObligationTypeRepository interface {
	ListByCadence(ctx context.Context, cadence Cadence) ([]*ObligationType, error)
}

type ObligationRepository interface {
	// ListPairs returns the (client, type) pairs already materialized for the period.
	ListPairs(ctx context.Context, period Period) ([]Pair, error)

	// CreateBatch bulk-inserts pending records for the given pairs. Rows that
	// collide with an existing (client, type, period) triple are skipped, not
	// errors. Returns the number of rows actually created.
	CreateBatch(ctx context.Context, period Period, pairs []Pair, createdAt time.Time) (int64, error)

	ListByPeriod(ctx context.Context, period Period) ([]*ObligationRecord, error)
}
