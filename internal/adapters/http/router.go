package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/geofieldx/geofieldx/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/api/health", HealthHandler(deps))
	app.Get("/api/ready", ReadyHandler(deps))

	api := app.Group("/api")
	const reqTimeout = 15 * time.Second

	// Auth (public)
	api.Post("/auth/register", timeout.NewWithContext(RegisterHandler(deps), reqTimeout))
	api.Post("/auth/login", timeout.NewWithContext(LoginHandler(deps), reqTimeout))
	api.Post("/auth/logout", LogoutHandler(deps))

	// Everything below requires a valid token
	auth := RequireAuth(deps)
	supervisor := RequireSupervisor()

	api.Get("/auth/me", auth, MeHandler(deps))

	// Features
	api.Get("/features", auth, timeout.NewWithContext(ListFeaturesHandler(deps), reqTimeout))
	api.Get("/features/nearby", auth, timeout.NewWithContext(NearbyFeaturesHandler(deps), reqTimeout))
	api.Get("/features/bbox", auth, timeout.NewWithContext(BBoxFeaturesHandler(deps), reqTimeout))
	api.Get("/features/:id", auth, timeout.NewWithContext(GetFeatureHandler(deps), reqTimeout))
	api.Post("/features", auth, timeout.NewWithContext(CreateFeatureHandler(deps), reqTimeout))
	api.Put("/features/:id", auth, timeout.NewWithContext(UpdateFeatureHandler(deps), reqTimeout))
	api.Patch("/features/:id/status", auth, timeout.NewWithContext(FeatureStatusHandler(deps), reqTimeout))
	api.Delete("/features/:id", auth, supervisor, timeout.NewWithContext(DeleteFeatureHandler(deps), reqTimeout))

	// Feature photos — longer timeout, image decode on big uploads is slow
	api.Post("/features/:id/images", auth, timeout.NewWithContext(UploadFeatureImagesHandler(deps), 60*time.Second))
	api.Get("/images/*", auth, timeout.NewWithContext(ServeImageHandler(deps), reqTimeout))

	// Tasks
	api.Get("/tasks", auth, timeout.NewWithContext(ListTasksHandler(deps), reqTimeout))
	api.Get("/tasks/:id", auth, timeout.NewWithContext(GetTaskHandler(deps), reqTimeout))
	api.Post("/tasks", auth, timeout.NewWithContext(CreateTaskHandler(deps), reqTimeout))
	api.Put("/tasks/:id", auth, timeout.NewWithContext(UpdateTaskHandler(deps), reqTimeout))
	api.Patch("/tasks/:id/status", auth, timeout.NewWithContext(TaskStatusHandler(deps), reqTimeout))
	api.Patch("/tasks/:id/assign", auth, supervisor, timeout.NewWithContext(TaskAssignHandler(deps), reqTimeout))
	api.Delete("/tasks/:id", auth, supervisor, timeout.NewWithContext(DeleteTaskHandler(deps), reqTimeout))

	// Boundaries
	api.Get("/boundaries", auth, timeout.NewWithContext(ListBoundariesHandler(deps), reqTimeout))
	api.Get("/boundaries/:id", auth, timeout.NewWithContext(GetBoundaryHandler(deps), reqTimeout))
	api.Get("/boundaries/:id/features", auth, timeout.NewWithContext(BoundaryFeaturesHandler(deps), reqTimeout))
	api.Post("/boundaries", auth, supervisor, timeout.NewWithContext(CreateBoundaryHandler(deps), reqTimeout))
	api.Put("/boundaries/:id", auth, supervisor, timeout.NewWithContext(UpdateBoundaryHandler(deps), reqTimeout))
	api.Patch("/boundaries/:id/assign", auth, supervisor, timeout.NewWithContext(BoundaryAssignHandler(deps), reqTimeout))
	api.Delete("/boundaries/:id", auth, supervisor, timeout.NewWithContext(DeleteBoundaryHandler(deps), reqTimeout))

	// Teams
	api.Get("/teams", auth, timeout.NewWithContext(ListTeamsHandler(deps), reqTimeout))
	api.Get("/teams/:id", auth, timeout.NewWithContext(GetTeamHandler(deps), reqTimeout))
	api.Get("/teams/:id/members", auth, timeout.NewWithContext(TeamMembersHandler(deps), reqTimeout))
	api.Get("/teams/:id/stats", auth, timeout.NewWithContext(TeamStatsHandler(deps), reqTimeout))
	api.Post("/teams", auth, timeout.NewWithContext(CreateTeamHandler(deps), reqTimeout))
	api.Patch("/teams/:id/approval", auth, supervisor, timeout.NewWithContext(TeamApprovalHandler(deps), reqTimeout))
	api.Delete("/teams/:id", auth, supervisor, timeout.NewWithContext(DeleteTeamHandler(deps), reqTimeout))

	// Users
	api.Get("/users", auth, supervisor, timeout.NewWithContext(ListUsersHandler(deps), reqTimeout))
	api.Get("/users/:id", auth, timeout.NewWithContext(GetUserHandler(deps), reqTimeout))
	api.Patch("/users/:id/approval", auth, supervisor, timeout.NewWithContext(UserApprovalHandler(deps), reqTimeout))
	api.Patch("/users/:id/team", auth, supervisor, timeout.NewWithContext(UserTeamHandler(deps), reqTimeout))

	// Shapefiles — conversion can take a while on big archives
	api.Post("/shapefiles/upload", auth, timeout.NewWithContext(UploadShapefileHandler(deps), 120*time.Second))
	api.Get("/shapefiles", auth, timeout.NewWithContext(ListShapefilesHandler(deps), reqTimeout))
	api.Get("/shapefiles/:id", auth, timeout.NewWithContext(GetShapefileHandler(deps), reqTimeout))
	api.Get("/shapefiles/:id/geojson", auth, timeout.NewWithContext(ShapefileGeoJSONHandler(deps), reqTimeout))
	api.Delete("/shapefiles/:id", auth, supervisor, timeout.NewWithContext(DeleteShapefileHandler(deps), reqTimeout))

	// Dashboard stats
	api.Get("/stats", auth, timeout.NewWithContext(StatsHandler(deps), reqTimeout))

	// GraphQL
	app.Post("/graphql", auth, GraphQLHandler(deps))

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
