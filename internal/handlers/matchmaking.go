package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
	"github.com/devotedslingers/devotedslingers/internal/middleware"
)

// GetPotentialMatches returns candidate user IDs the acting user has not
// swiped on yet.
func (h *Handlers) GetPotentialMatches(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			middleware.RenderError(c, errors.NewValidationError("limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > h.swipePageLimit {
		limit = h.swipePageLimit
	}

	userIDs, err := h.matching.PotentialMatches(c.Request.Context(), userID, limit)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_ids": userIDs})
}

type swipeRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
	Action       string `json:"action" binding:"required"`
}

// RecordSwipe records a like/pass decision and reports whether it confirmed
// a mutual match.
func (h *Handlers) RecordSwipe(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RenderError(c, errors.NewInvalidDecisionError("invalid swipe data").WithDetails(err.Error()))
		return
	}

	result, err := h.matching.Swipe(c.Request.Context(), userID, req.TargetUserID,
		database.SwipeAction(req.Action), time.Now().UTC())
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	if result.MatchCreated {
		h.notifier.MatchCreated(c.Request.Context(), result.Match)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"match":      result.MatchCreated,
		"match_data": result.Match,
	})
}

// GetUserMatches lists the acting user's matches, optionally filtered by
// status.
func (h *Handlers) GetUserMatches(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	status := database.MatchStatus(c.Query("status"))

	matches, err := h.matching.UserMatches(c.Request.Context(), userID, status)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GetMatchByID returns a single match.
func (h *Handlers) GetMatchByID(c *gin.Context) {
	match, err := h.matching.MatchByID(c.Request.Context(), c.Param("matchId"))
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": match})
}

type updateMatchStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateMatchStatus overwrites a match's status.
func (h *Handlers) UpdateMatchStatus(c *gin.Context) {
	var req updateMatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RenderError(c, errors.NewValidationError("status", "status is required"))
		return
	}

	match, err := h.matching.UpdateMatchStatus(c.Request.Context(), c.Param("matchId"),
		database.MatchStatus(req.Status), time.Now().UTC())
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": match})
}
