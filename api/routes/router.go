package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"reservio/internal/audit"
	"reservio/internal/auth"
	"reservio/internal/availability"
	"reservio/internal/clients"
	"reservio/internal/promotion"
	"reservio/internal/reservations"
	"reservio/internal/shared/config"
	"reservio/internal/shared/database"
	"reservio/internal/spaces"
	"reservio/internal/waitlist"
	"reservio/pkg/cache"
)

// Router wires repositories, services and controllers and mounts them on
// the gin engine.
type Router struct {
	config   *config.Config
	db       *database.DB
	enqueuer promotion.NotificationEnqueuer

	promotionService promotion.Service
}

func NewRouter(cfg *config.Config, db *database.DB, enqueuer promotion.NotificationEnqueuer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		enqueuer: enqueuer,
	}
}

// PromotionService exposes the orchestrator so main can attach the
// background job processor. Valid after SetupRoutes.
func (r *Router) PromotionService() promotion.Service {
	return r.promotionService
}

func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		pg := r.db.PostgreSQL
		cacheService := cache.NewService(r.db.Redis)

		// Auth
		authRepo := auth.NewRepository(pg)
		authService := auth.NewService(authRepo, r.config)
		auth.SetupAuthRoutes(api, auth.NewController(authService))

		// Clients (also serves as the waitlist's client directory)
		clientRepo := clients.NewRepository(pg)
		clientService := clients.NewService(clientRepo)
		clients.SetupClientRoutes(api, clients.NewController(clientService))

		// Spaces and blackout periods
		spaceRepo := spaces.NewRepository(pg)
		spaceService := spaces.NewService(spaceRepo, cacheService)
		spaces.SetupSpaceRoutes(api, spaces.NewController(spaceService))

		// Availability
		availabilityRepo := availability.NewRepository(pg)
		checker := availability.NewService(availabilityRepo)
		availability.SetupAvailabilityRoutes(api, availability.NewController(checker))

		// Audit trail
		auditRepo := audit.NewRepository(pg)
		audit.SetupAuditRoutes(api, audit.NewController(auditRepo))

		// Temporary and confirmed reservations
		reservationRepo := reservations.NewRepository(pg, auditRepo)
		reservationService := reservations.NewService(reservationRepo, checker, r.config.Reservation.HoldTTL)
		reservations.SetupReservationRoutes(api, reservations.NewController(reservationService))

		// Waitlist
		waitlistRepo := waitlist.NewRepository(pg)
		waitlistService := waitlist.NewService(waitlistRepo, clientService)
		waitlist.SetupWaitlistRoutes(api, waitlist.NewController(waitlistService))

		// Promotion orchestrator and admin sweep triggers
		notifyLimiter := rate.NewLimiter(
			rate.Limit(r.config.RateLimit.NotifyPerSecond),
			r.config.RateLimit.NotifyBurst,
		)
		r.promotionService = promotion.NewService(
			waitlistService,
			reservationService,
			checker,
			r.enqueuer,
			auditRepo,
			notifyLimiter,
		)
		promotion.SetupSweepRoutes(api, promotion.NewController(r.promotionService))
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "reservio",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "reservio",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
