package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
	"github.com/yildirimyagiz/menem-sub000/internal/service"
)

type Handlers struct {
	chat          *service.ChatService
	channels      *service.ChannelService
	notifications *service.NotificationService
	inbox         *service.Inbox
	grouper       *service.Grouper
	log           *zap.SugaredLogger
}

func NewHandlers(chat *service.ChatService, channels *service.ChannelService, notifications *service.NotificationService, inbox *service.Inbox, grouper *service.Grouper, log *zap.SugaredLogger) *Handlers {
	return &Handlers{
		chat:          chat,
		channels:      channels,
		notifications: notifications,
		inbox:         inbox,
		grouper:       grouper,
		log:           log,
	}
}

// fail maps service sentinels onto statuses; every failed mutation gets
// a JSON error body the console can toast.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyEdited):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrEmptyContent), errors.Is(err, models.ErrBadRequest):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// --- channels ---

func (h *Handlers) listChannels(c *fiber.Ctx) error {
	f := models.ChannelFilter{
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("page_size", 0),
		Name:      c.Query("name"),
		Category:  models.ChannelCategory(c.Query("category")),
		Type:      models.ChannelType(c.Query("type")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	page, err := h.channels.List(c.Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *Handlers) createChannel(c *fiber.Ctx) error {
	var in service.ChannelInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	ch, err := h.channels.Create(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok", "data": ch})
}

func (h *Handlers) updateChannel(c *fiber.Ctx) error {
	var in service.ChannelInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	ch, err := h.channels.Update(c.Context(), c.Params("channel_id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": ch})
}

func (h *Handlers) deleteChannel(c *fiber.Ctx) error {
	if err := h.channels.Delete(c.Context(), c.Params("channel_id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- messages ---

func (h *Handlers) listMessages(c *fiber.Ctx) error {
	msgs, err := h.chat.Messages(c.Context(), c.Params("channel_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": msgs})
}

// listThreads returns the channel's messages grouped into date buckets,
// the shape the conversation pane renders directly.
func (h *Handlers) listThreads(c *fiber.Ctx) error {
	msgs, err := h.chat.Messages(c.Context(), c.Params("channel_id"))
	if err != nil {
		return fail(c, err)
	}
	buckets := h.grouper.Group(msgs)
	if buckets == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "grouping not ready"})
	}
	return c.JSON(fiber.Map{"status": "ok", "data": buckets})
}

func (h *Handlers) sendMessage(c *fiber.Ctx) error {
	var req struct {
		ChannelID  string            `json:"channel_id"`
		ReceiverID string            `json:"receiver_id"`
		Content    string            `json:"content"`
		Type       string            `json:"type"`
		ReplyToID  string            `json:"reply_to_id"`
		SenderName string            `json:"sender_name"`
		Metadata   map[string]string `json:"metadata"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	msg, err := h.chat.SendMessage(c.Context(), service.SendInput{
		ChannelID:  req.ChannelID,
		SenderID:   currentUser(c),
		SenderName: req.SenderName,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		Type:       models.MessageType(req.Type),
		ReplyToID:  req.ReplyToID,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok", "data": msg})
}

func (h *Handlers) editMessage(c *fiber.Ctx) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	msg, err := h.chat.EditMessage(c.Context(), c.Params("msg_id"), currentUser(c), body.Content)
	if errors.Is(err, models.ErrContentUnchanged) {
		// Cancel semantics: no mutation, no error surface.
		return c.JSON(fiber.Map{"status": "ok", "data": msg})
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": msg})
}

func (h *Handlers) deleteMessage(c *fiber.Ctx) error {
	if err := h.chat.DeleteMessage(c.Context(), c.Params("msg_id"), currentUser(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) toggleReaction(c *fiber.Ctx) error {
	var body struct {
		Emoji    string `json:"emoji"`
		UserName string `json:"user_name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	added, err := h.chat.ToggleReaction(c.Context(), c.Params("msg_id"), body.Emoji, currentUser(c), body.UserName)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "added": added})
}

// --- read state ---

func (h *Handlers) markRead(c *fiber.Ctx) error {
	if err := h.chat.MarkAsRead(c.Context(), c.Params("msg_id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) markAllRead(c *fiber.Ctx) error {
	n, err := h.chat.MarkAllAsRead(c.Context(), c.Params("channel_id"), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "updated_count": n})
}

func (h *Handlers) unreadCount(c *fiber.Ctx) error {
	n, err := h.chat.UnreadCount(c.Context(), c.Params("channel_id"), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "count": n})
}

// --- inbox ---

func (h *Handlers) getInbox(c *fiber.Ctx) error {
	snap, err := h.inbox.Snapshot(c.Context(), currentUser(c))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}

func (h *Handlers) markInboxRead(c *fiber.Ctx) error {
	kind := service.ItemKind(c.Query("kind"))
	if !kind.Valid() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid kind"})
	}
	if err := h.inbox.MarkRead(c.Context(), c.Params("id"), kind, currentUser(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- notifications ---

func (h *Handlers) listNotifications(c *fiber.Ctx) error {
	notifs, err := h.notifications.List(c.Context(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "data": notifs})
}

func (h *Handlers) createNotification(c *fiber.Ctx) error {
	var body struct {
		UserID  string `json:"user_id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	n, err := h.notifications.Create(c.Context(), body.UserID, body.Title, body.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok", "data": n})
}
