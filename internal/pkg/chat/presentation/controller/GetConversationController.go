package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/Raees-J/DockIt/internal/pkg/auth"
	chat "github.com/Raees-J/DockIt/internal/pkg/chat/application/domain"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"

	"github.com/gin-gonic/gin"
)

// GetConversationController handles fetching the 1:1 exchange with another
// user (one controller per endpoint). Fetching marks that user's unread
// messages as read.
type GetConversationController struct {
	Core *session.Core
}

func NewGetConversationController(core *session.Core) *GetConversationController {
	return &GetConversationController{Core: core}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		otherID := c.Param("userId")
		if otherID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "userId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.Core.GetConversation(ctx, auth.UserID(c), otherID)
		if err != nil {
			respondError(c, err)
			return
		}
		if msgs == nil {
			msgs = []chat.PopulatedDirectMessage{}
		}
		c.JSON(http.StatusOK, msgs)
	}
}
