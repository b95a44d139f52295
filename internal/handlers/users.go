package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devotedslingers/devotedslingers/internal/errors"
	"github.com/devotedslingers/devotedslingers/internal/middleware"
	"github.com/devotedslingers/devotedslingers/internal/services"
)

// GetProfile returns a single user profile.
func (h *Handlers) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type createProfileRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

// CreateProfile registers a new player profile.
func (h *Handlers) CreateProfile(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RenderError(c, errors.NewValidationError("body", "email and display_name are required"))
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), req.Email, req.DisplayName)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// UpdateProfile applies a partial profile update. Users may only update
// their own profile.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	if c.Param("userId") != userID {
		middleware.RenderError(c, errors.NewValidationError("userId", "cannot update another user's profile").
			WithHTTPStatus(http.StatusForbidden))
		return
	}

	var update services.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		middleware.RenderError(c, errors.NewValidationError("body", "invalid profile update").WithDetails(err.Error()))
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// SearchProfiles returns profiles matching the posted filters.
func (h *Handlers) SearchProfiles(c *gin.Context) {
	var filters services.SearchFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		middleware.RenderError(c, errors.NewValidationError("body", "invalid search filters").WithDetails(err.Error()))
		return
	}

	profiles, err := h.profiles.SearchProfiles(c.Request.Context(), filters)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": profiles})
}
