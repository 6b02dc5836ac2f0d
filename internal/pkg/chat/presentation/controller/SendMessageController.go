package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/Raees-J/DockIt/internal/pkg/auth"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"

	"github.com/gin-gonic/gin"
)

// SendMessageController handles posting a message into a project chat (one controller per endpoint).
// The message is persisted and broadcast through the injected Core, so REST
// sends reach live sockets exactly like websocket sends do.
type SendMessageController struct {
	Core *session.Core
}

func NewSendMessageController(core *session.Core) *SendMessageController {
	return &SendMessageController{Core: core}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("projectId")
		if projectID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "projectId is required"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Message content is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.Core.SendProjectMessage(ctx, projectID, auth.UserID(c), req.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
