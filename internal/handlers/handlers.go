package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devotedslingers/devotedslingers/internal/errors"
	"github.com/devotedslingers/devotedslingers/internal/interfaces"
	"github.com/devotedslingers/devotedslingers/internal/realtime"
)

// Handlers wires the service layer to the gin router.
type Handlers struct {
	matching  interfaces.MatchingServiceInterface
	profiles  interfaces.ProfileServiceInterface
	messaging interfaces.MessagingServiceInterface
	notifier  realtime.Notifier

	// healthChecks report readiness of downstream dependencies, keyed by
	// dependency name.
	healthChecks map[string]func(context.Context) error

	// swipePageLimit caps the candidate-pool page size a client may
	// request.
	swipePageLimit int
}

func New(
	matching interfaces.MatchingServiceInterface,
	profiles interfaces.ProfileServiceInterface,
	messaging interfaces.MessagingServiceInterface,
	notifier realtime.Notifier,
	healthChecks map[string]func(context.Context) error,
	swipePageLimit int,
) *Handlers {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	if swipePageLimit <= 0 {
		swipePageLimit = 50
	}
	return &Handlers{
		matching:       matching,
		profiles:       profiles,
		messaging:      messaging,
		notifier:       notifier,
		healthChecks:   healthChecks,
		swipePageLimit: swipePageLimit,
	}
}

// RegisterRoutes registers all API routes on the router.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")

	matchmaking := api.Group("/matchmaking")
	matchmaking.GET("/potential", h.GetPotentialMatches)
	matchmaking.POST("/swipe", h.RecordSwipe)
	matchmaking.GET("/matches", h.GetUserMatches)
	matchmaking.GET("/matches/:matchId", h.GetMatchByID)
	matchmaking.PATCH("/matches/:matchId", h.UpdateMatchStatus)
	matchmaking.GET("/matches/:matchId/messages", h.ListMessages)
	matchmaking.POST("/matches/:matchId/messages", h.SendMessage)
	matchmaking.GET("/matches/:matchId/unread", h.GetUnreadCount)

	users := api.Group("/users")
	users.POST("", h.CreateProfile)
	users.POST("/search", h.SearchProfiles)
	users.GET("/:userId", h.GetProfile)
	users.PATCH("/:userId", h.UpdateProfile)

	api.POST("/messages/:messageId/read", h.MarkMessageRead)
}

// Health reports liveness plus the state of downstream dependencies.
func (h *Handlers) Health(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}
	for name, check := range h.healthChecks {
		if err := check(c.Request.Context()); err != nil {
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "ok"
		}
	}

	body := gin.H{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}
	c.JSON(status, body)
}

// actingUser extracts the acting user from the request. Token-based
// authentication is handled upstream; the gateway forwards the resolved
// identity in this header.
func actingUser(c *gin.Context) (string, error) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		return "", errors.NewValidationError("X-User-ID", "acting user is required")
	}
	return userID, nil
}
