package router

import (
	"github.com/Raees-J/DockIt/internal/infrastructure/realtime"
	"github.com/Raees-J/DockIt/internal/pkg/auth"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"
	httpHandler "github.com/Raees-J/DockIt/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RegisterRoutes mounts all API routes under /api plus the websocket endpoint.
func RegisterRoutes(r *gin.Engine, core *session.Core, registry *realtime.Registry, verifier *auth.Verifier, log zerolog.Logger) {
	api := r.Group("/api")
	httpHandler.RegisterRoutes(r, api, core, registry, verifier, log)
}
