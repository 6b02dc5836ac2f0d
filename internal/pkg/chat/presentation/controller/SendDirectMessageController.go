package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/Raees-J/DockIt/internal/pkg/auth"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"

	"github.com/gin-gonic/gin"
)

// SendDirectMessageController handles posting a direct message (one controller per endpoint).
type SendDirectMessageController struct {
	Core *session.Core
}

func NewSendDirectMessageController(core *session.Core) *SendDirectMessageController {
	return &SendDirectMessageController{Core: core}
}

// sendDirectMessageRequest is the DTO for the HTTP request body
type sendDirectMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *SendDirectMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		recipientID := c.Param("userId")
		if recipientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "userId is required"})
			return
		}

		var req sendDirectMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Message content is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.Core.SendDirectMessage(ctx, auth.UserID(c), recipientID, req.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
