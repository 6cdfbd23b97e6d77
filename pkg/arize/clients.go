package arize

import (
	"github.com/spanlens/spanlens/pkg/config"
)

// Clients bundles the upstream clients the tool surface needs.
type Clients struct {
	Config   *config.Config
	Rest     *RestClient
	GraphQL  *GraphQLClient
	Exporter SpanExporter
}

// NewClients builds all upstream clients from one configuration.
func NewClients(cfg *config.Config) *Clients {
	rest := NewRestClient(cfg)
	return &Clients{
		Config:   cfg,
		Rest:     rest,
		GraphQL:  NewGraphQLClient(cfg),
		Exporter: NewExportClient(rest, cfg.SpaceID),
	}
}

// SpaceID returns the configured space identifier.
func (c *Clients) SpaceID() string {
	return c.Config.SpaceID
}
