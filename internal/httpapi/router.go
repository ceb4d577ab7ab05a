package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chat-studio/internal/chat"
	"github.com/suPer8Hu/chat-studio/internal/common"
	"github.com/suPer8Hu/chat-studio/internal/config"
	"github.com/suPer8Hu/chat-studio/internal/httpapi/handlers"
	"github.com/suPer8Hu/chat-studio/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, store *chat.Store) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, common.CodeRouteNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, common.CodeMethodNotAllowed, "method not allowed")
	})

	h := handlers.NewHandler(store)

	r.GET("/ping", h.Ping)
	r.POST("/render", h.Render)

	g := r.Group("/chat")
	g.GET("/sessions", h.ListChatSessions)
	g.POST("/sessions", h.CreateChatSession)
	g.POST("/sessions/:session_id/select", h.SelectChatSession)
	g.PATCH("/sessions/:session_id", h.RenameChatSession)
	g.DELETE("/sessions/:session_id", h.DeleteChatSession)
	g.GET("/sessions/:session_id/messages", h.ListChatMessages)
	g.POST("/sessions/:session_id/attachments", h.UploadAttachment)
	g.DELETE("/sessions/:session_id/attachments", h.ClearAttachment)
	g.POST("/messages", h.SendChatMessage)
	return r
}
