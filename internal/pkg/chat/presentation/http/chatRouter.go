package http

import (
	"github.com/Raees-J/DockIt/internal/infrastructure/realtime"
	"github.com/Raees-J/DockIt/internal/pkg/auth"
	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"
	"github.com/Raees-J/DockIt/internal/pkg/chat/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router
// group plus the websocket endpoint on the engine root. It constructs
// per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(r *gin.Engine, api *gin.RouterGroup, core *session.Core, registry *realtime.Registry, verifier *auth.Verifier, log zerolog.Logger) {
	getMsgsCtl := controller.NewGetMessagesController(core)
	sendMsgCtl := controller.NewSendMessageController(core)
	getConvCtl := controller.NewGetConversationController(core)
	sendDMCtl := controller.NewSendDirectMessageController(core)
	listConvsCtl := controller.NewListConversationsController(core)
	socketCtl := controller.NewChatSocketController(registry, core, verifier, log)

	protected := api.Group("", auth.Middleware(verifier))

	// GET  /api/messages/:projectId        -> project chat log
	// POST /api/messages/:projectId        -> send a message into a project chat
	protected.GET("/messages/:projectId", getMsgsCtl.Handle())
	protected.POST("/messages/:projectId", sendMsgCtl.Handle())

	// GET  /api/direct-messages/:userId                 -> conversation with a user (marks read)
	// POST /api/direct-messages/:userId                 -> send a direct message
	// GET  /api/direct-messages/conversations/list      -> conversations overview
	protected.GET("/direct-messages/:userId", getConvCtl.Handle())
	protected.POST("/direct-messages/:userId", sendDMCtl.Handle())
	protected.GET("/direct-messages/:userId/:sub", listConvsCtl.Handle())

	// GET /ws -> websocket endpoint for realtime chat
	r.GET("/ws", socketCtl.Handle())
}
