// Package billing implements the recurring-obligation generation and
// delinquency-sweep jobs.
package billing

import "github.com/billops/backoffice/internal/domain"

// ComputeMissing returns the (client, obligation type) pairs that have no
// materialized record yet: the cartesian product of clients and types minus
// the already-materialized set. Pure; storage access is the caller's job.
func ComputeMissing(clients []*domain.Client, types []*domain.ObligationType, materialized []domain.Pair) []domain.Pair {
	seen := make(map[domain.Pair]struct{}, len(materialized))
	for _, p := range materialized {
		seen[p] = struct{}{}
	}

	missing := make([]domain.Pair, 0, len(clients)*len(types))
	for _, c := range clients {
		for _, t := range types {
			p := domain.Pair{ClientID: c.ID, ObligationTypeID: t.ID}
			if _, ok := seen[p]; !ok {
				missing = append(missing, p)
			}
		}
	}

	return missing
}
