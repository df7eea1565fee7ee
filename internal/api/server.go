package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/yildirimyagiz/menem-sub000/internal/auth"
	"github.com/yildirimyagiz/menem-sub000/internal/config"
)

func NewServer(cfg *config.Config, h *Handlers, jv *auth.JWTValidator) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(logger.New())

	api := app.Group("/v1")
	api.Use(BearerAuth(jv))

	api.Get("/channels", h.listChannels)
	api.Post("/channels", h.createChannel)
	api.Patch("/channels/:channel_id", h.updateChannel)
	api.Delete("/channels/:channel_id", h.deleteChannel)

	api.Get("/channels/:channel_id/messages", h.listMessages)
	api.Get("/channels/:channel_id/threads", h.listThreads)
	api.Get("/channels/:channel_id/unread-count", h.unreadCount)
	api.Post("/channels/:channel_id/read-all", h.markAllRead)

	api.Post("/messages", h.sendMessage)
	api.Patch("/messages/:msg_id", h.editMessage)
	api.Delete("/messages/:msg_id", h.deleteMessage)
	api.Post("/messages/:msg_id/read", h.markRead)
	api.Post("/messages/:msg_id/reactions", h.toggleReaction)

	api.Get("/inbox", h.getInbox)
	api.Post("/inbox/:id/read", h.markInboxRead)

	api.Get("/notifications", h.listNotifications)
	api.Post("/notifications", h.createNotification)

	return app
}
