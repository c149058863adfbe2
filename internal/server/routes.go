package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/billops/backoffice/internal/api/v1"
	"github.com/billops/backoffice/internal/api/ws"
)

// Aliases for the v1 contracts so main wires concrete types through one
// package.
type (
	DataStore       = v1.DataStore
	JobRunner       = v1.JobRunner
	DocumentFetcher = v1.DocumentFetcher
)

func registerAPIRoutes(api huma.API, deps Deps) {
	v1.RegisterJobRoutes(api, deps.Runner, deps.Store)
	v1.RegisterObligationRoutes(api, deps.Store)
	v1.RegisterAccountRoutes(api, deps.Store)
	if deps.Docs != nil {
		v1.RegisterDocumentRoutes(api, deps.Docs)
	}
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/jobs", hub.ServeJobs)
}
