package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yildirimyagiz/menem-sub000/internal/cache"
	"github.com/yildirimyagiz/menem-sub000/internal/events"
	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

// replySnippetLen bounds the content preview inlined into a reply.
const replySnippetLen = 80

// MessageStore is the persistence capability the chat service depends
// on. The Mongo repository implements it; tests use an in-memory fake.
type MessageStore interface {
	Insert(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListByChannel(ctx context.Context, channelID string) ([]models.Message, error)
	ApplyEdit(ctx context.Context, id, content string, rec models.EditRecord) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	SetReactions(ctx context.Context, id string, reactions []models.Reaction) error
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, channelID, exceptSender string, at time.Time) (int64, error)
	CountUnread(ctx context.Context, channelID, exceptSender string) (int64, error)
	UnreadForUser(ctx context.Context, userID string, limit int) ([]models.Message, error)
	CountUnreadForUser(ctx context.Context, userID string) (int64, error)
}

type ChatService struct {
	store   MessageStore
	counter *cache.UnreadCounters // optional
	pub     *events.Publisher     // optional
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewChatService(store MessageStore, counter *cache.UnreadCounters, pub *events.Publisher, log *zap.SugaredLogger) *ChatService {
	return &ChatService{
		store:   store,
		counter: counter,
		pub:     pub,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SendInput carries everything a send needs; SenderID comes from the
// authenticated subject, never from the request body.
type SendInput struct {
	ChannelID  string
	SenderID   string
	SenderName string
	ReceiverID string
	Content    string
	Type       models.MessageType
	ReplyToID  string
	Metadata   map[string]string
}

// SendMessage validates, resolves the reply target into a snapshot, and
// persists the message. An empty send is blocked locally and never
// reaches the store.
func (s *ChatService) SendMessage(ctx context.Context, in SendInput) (*models.Message, error) {
	if in.ChannelID == "" || in.SenderID == "" {
		return nil, models.ErrBadRequest
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.ErrEmptyContent
	}
	if in.Type == "" {
		in.Type = models.TypeChat
	}
	if !in.Type.Valid() {
		return nil, models.ErrBadRequest
	}

	m := &models.Message{
		ID:         uuid.NewString(),
		ChannelID:  in.ChannelID,
		ThreadID:   in.ChannelID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
		Type:       in.Type,
		Timestamp:  s.now(),
		Reactions:  []models.Reaction{},
		Metadata:   in.Metadata,
	}
	if in.SenderName != "" {
		m.User = &models.UserSnapshot{ID: in.SenderID, Name: in.SenderName}
	}

	if in.ReplyToID != "" {
		target, err := s.store.GetByID(ctx, in.ReplyToID)
		if err != nil {
			return nil, err
		}
		if target.ChannelID != in.ChannelID {
			return nil, models.ErrBadRequest
		}
		m.ReplyToID = target.ID
		m.ReplyTo = &models.ReplySnapshot{
			SenderName: target.SenderName(),
			Content:    target.Snippet(replySnippetLen),
		}
	}

	if err := s.store.Insert(ctx, m); err != nil {
		return nil, err
	}
	s.invalidate(ctx, in.ChannelID)
	if s.pub != nil {
		s.pub.MessageCreated(ctx, m)
	}
	s.log.Debugw("message sent", "channel_id", m.ChannelID, "message_id", m.ID, "reply", m.ReplyToID != "")
	return m, nil
}

// Messages returns the channel's active messages, ascending by
// timestamp. Soft-deleted messages are excluded; their reply snapshots
// on other messages remain intact.
func (s *ChatService) Messages(ctx context.Context, channelID string) ([]models.Message, error) {
	return s.store.ListByChannel(ctx, channelID)
}

// Message resolves one message by id, deleted or not. Reply
// back-references need this after the target is soft-deleted.
func (s *ChatService) Message(ctx context.Context, id string) (*models.Message, error) {
	return s.store.GetByID(ctx, id)
}

// EditMessage enforces the single-edit, sender-only policy. Unchanged
// content cancels the edit: the stored message is returned untouched
// together with ErrContentUnchanged.
func (s *ChatService) EditMessage(ctx context.Context, messageID, userID, newContent string) (*models.Message, error) {
	m, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.IsDeleted() {
		return nil, models.ErrNotFound
	}
	if m.SenderID != userID {
		return nil, models.ErrForbidden
	}
	if m.IsEdited {
		return nil, models.ErrAlreadyEdited
	}
	if strings.TrimSpace(newContent) == "" {
		return nil, models.ErrEmptyContent
	}
	if newContent == m.Content {
		return m, models.ErrContentUnchanged
	}

	now := s.now()
	rec := models.EditRecord{Content: m.Content, Timestamp: now}
	if err := s.store.ApplyEdit(ctx, messageID, newContent, rec); err != nil {
		return nil, err
	}
	m.EditHistory = append(m.EditHistory, rec)
	m.Content = newContent
	m.IsEdited = true
	if s.pub != nil {
		s.pub.MessageEdited(ctx, m)
	}
	return m, nil
}

// DeleteMessage soft-deletes, sender-only.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID, userID string) error {
	m, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.IsDeleted() {
		return models.ErrNotFound
	}
	if m.SenderID != userID {
		return models.ErrForbidden
	}
	if err := s.store.SoftDelete(ctx, messageID, s.now()); err != nil {
		return err
	}
	s.invalidate(ctx, m.ChannelID)
	if s.pub != nil {
		s.pub.MessageDeleted(ctx, m.ChannelID, m.ID)
	}
	return nil
}

// ToggleReaction adds the (emoji, user) reaction if absent and removes
// it if present. Returns whether the reaction is now present.
func (s *ChatService) ToggleReaction(ctx context.Context, messageID, emoji, userID, userName string) (bool, error) {
	if emoji == "" || userID == "" {
		return false, models.ErrBadRequest
	}
	m, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		return false, err
	}
	if m.IsDeleted() {
		return false, models.ErrNotFound
	}

	added := true
	next := make([]models.Reaction, 0, len(m.Reactions)+1)
	for _, r := range m.Reactions {
		if r.Emoji == emoji && r.UserID == userID {
			added = false
			continue
		}
		next = append(next, r)
	}
	if added {
		next = append(next, models.Reaction{
			ID:        uuid.NewString(),
			Emoji:     emoji,
			UserID:    userID,
			UserName:  userName,
			Timestamp: s.now(),
		})
	}

	if err := s.store.SetReactions(ctx, messageID, next); err != nil {
		return false, err
	}
	m.Reactions = next
	if s.pub != nil {
		s.pub.ReactionToggled(ctx, m, emoji, userID, added)
	}
	return added, nil
}

// MarkAsRead stamps one message read. Already-read is a no-op success.
func (s *ChatService) MarkAsRead(ctx context.Context, messageID string) error {
	m, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.IsRead {
		return nil
	}
	if err := s.store.MarkRead(ctx, messageID, s.now()); err != nil {
		return err
	}
	s.invalidate(ctx, m.ChannelID)
	return nil
}

// MarkAllAsRead flips every unread message in the channel not sent by
// the viewer. Idempotent; a second call reports 0 updated.
func (s *ChatService) MarkAllAsRead(ctx context.Context, channelID, viewerID string) (int64, error) {
	n, err := s.store.MarkAllRead(ctx, channelID, viewerID, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate(ctx, channelID)
		if s.pub != nil {
			s.pub.MessagesRead(ctx, channelID, n)
		}
	}
	return n, nil
}

// UnreadCount derives the channel badge for the viewer, served from the
// counter cache when warm.
func (s *ChatService) UnreadCount(ctx context.Context, channelID, viewerID string) (int64, error) {
	if s.counter != nil {
		if n, ok := s.counter.Get(ctx, channelID, viewerID); ok {
			return n, nil
		}
	}
	n, err := s.store.CountUnread(ctx, channelID, viewerID)
	if err != nil {
		return 0, err
	}
	if s.counter != nil {
		s.counter.Set(ctx, channelID, viewerID, n)
	}
	return n, nil
}

func (s *ChatService) invalidate(ctx context.Context, channelID string) {
	if s.counter != nil {
		s.counter.InvalidateChannel(ctx, channelID)
	}
}

// UnreadForUser and TotalUnreadForUser satisfy the inbox aggregator's
// MessageSource capability.

func (s *ChatService) UnreadForUser(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	return s.store.UnreadForUser(ctx, userID, limit)
}

func (s *ChatService) TotalUnreadForUser(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnreadForUser(ctx, userID)
}

// MarkThreadRead is the inbox's chat-side mark-as-read: it marks the
// whole thread, matching the console's open-the-conversation behavior.
func (s *ChatService) MarkThreadRead(ctx context.Context, threadID, viewerID string) (int64, error) {
	return s.MarkAllAsRead(ctx, threadID, viewerID)
}
