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

// GetMessagesController handles fetching a project's chat log (one controller per endpoint)
type GetMessagesController struct {
	Core *session.Core
}

func NewGetMessagesController(core *session.Core) *GetMessagesController {
	return &GetMessagesController{Core: core}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("projectId")
		if projectID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "projectId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.Core.ListProjectMessages(ctx, projectID, auth.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if msgs == nil {
			msgs = []chat.PopulatedProjectMessage{}
		}
		c.JSON(http.StatusOK, msgs)
	}
}
