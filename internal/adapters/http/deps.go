package http

import (
	"github.com/nats-io/nats.go"

	"github.com/geofieldx/geofieldx/internal/adapters/postgres"
	"github.com/geofieldx/geofieldx/internal/adapters/valkey"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Auth       *usecases.AuthService
	Features   *usecases.FeatureService
	Tasks      *usecases.TaskService
	Boundaries *usecases.BoundaryService
	Teams      *usecases.TeamService
	Users      *usecases.UserService
	Shapefiles *usecases.ShapefileService
	Images     ports.ImageStore
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache

	// Upload limits, bytes.
	MaxImageBytes   int64
	MaxArchiveBytes int64
}
