package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/errors"
	"github.com/devotedslingers/devotedslingers/internal/middleware"
)

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Type    string `json:"type"`
}

// SendMessage stores a message in a match conversation and announces it to
// the real-time gateway.
func (h *Handlers) SendMessage(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RenderError(c, errors.NewValidationError("content", "content is required"))
		return
	}

	message, err := h.messaging.SendMessage(c.Request.Context(), c.Param("matchId"), userID,
		req.Content, database.MessageType(req.Type))
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	h.notifier.MessageCreated(c.Request.Context(), message)

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// ListMessages returns a page of a match's messages, oldest first.
func (h *Handlers) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.messaging.ListMessages(c.Request.Context(), c.Param("matchId"), limit, offset)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// GetUnreadCount returns how many unread messages await the acting user in
// a match.
func (h *Handlers) GetUnreadCount(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	count, err := h.messaging.UnreadCount(c.Request.Context(), c.Param("matchId"), userID)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkMessageRead flags a message as read by the acting user.
func (h *Handlers) MarkMessageRead(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		middleware.RenderError(c, err)
		return
	}

	if err := h.messaging.MarkRead(c.Request.Context(), c.Param("messageId"), userID); err != nil {
		middleware.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
