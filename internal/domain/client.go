package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client is a billable subject eligible for recurring obligations.
// Clients are created and destroyed by external administrative flows;
// this engine only reads them.
type Client struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type ClientRepository interface {
	List(ctx context.Context) ([]*Client, error)
}
