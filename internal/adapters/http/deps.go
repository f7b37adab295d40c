package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geostory/internal/adapters/postgres"
	"github.com/samirrijal/geostory/internal/adapters/valkey"
	"github.com/samirrijal/geostory/internal/core/ports"
	"github.com/samirrijal/geostory/internal/core/usecases"
)

// Dependencies holds everything the HTTP handlers need.
type Dependencies struct {
	Pipeline *usecases.Pipeline
	Runs     ports.RunRepository
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
}
