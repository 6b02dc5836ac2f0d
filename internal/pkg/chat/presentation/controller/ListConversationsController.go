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

// ListConversationsController handles the conversations overview (one controller per endpoint).
//
// The public route is GET /api/direct-messages/conversations/list. gin cannot
// register a static segment next to the :userId wildcard, so the route is
// mounted as /:userId/:sub and validated here; anything other than
// conversations/list falls through as unknown.
type ListConversationsController struct {
	Core *session.Core
}

func NewListConversationsController(core *session.Core) *ListConversationsController {
	return &ListConversationsController{Core: core}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("userId") != "conversations" || c.Param("sub") != "list" {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		convs, err := h.Core.ListConversations(ctx, auth.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if convs == nil {
			convs = []chat.ConversationSummary{}
		}
		c.JSON(http.StatusOK, convs)
	}
}
