package service

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

// ItemKind discriminates the two inbox streams.
type ItemKind string

const (
	KindChat         ItemKind = "chat"
	KindNotification ItemKind = "notification"
)

func (k ItemKind) Valid() bool {
	return k == KindChat || k == KindNotification
}

// InboxItem is the unified row the bell menu renders. For chat items ID
// is the thread id (mark-as-read addresses the whole thread); for
// notifications it is the notification id.
type InboxItem struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	SenderID  string    `json:"sender_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// InboxSnapshot is one aggregation pass over both sources. The item
// list is each source's top-N merged, chat first; consumers sort for
// display. CombinedUnread is re-derived on every pass, never cached.
type InboxSnapshot struct {
	Items              []InboxItem `json:"items"`
	ChatUnread         int64       `json:"chat_unread"`
	NotificationUnread int64       `json:"notification_unread"`
	CombinedUnread     int64       `json:"combined_unread"`
}

// MessageSource is the chat-side capability the aggregator consumes.
type MessageSource interface {
	UnreadForUser(ctx context.Context, userID string, limit int) ([]models.Message, error)
	TotalUnreadForUser(ctx context.Context, userID string) (int64, error)
	MarkThreadRead(ctx context.Context, threadID, viewerID string) (int64, error)
}

// NotificationSource is the notification-side capability.
type NotificationSource interface {
	UnreadForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	TotalUnreadForUser(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
}

// Inbox merges the two unread streams into one badge-counted view.
// OnOpenChat / OnOpenNotification are optional routing callbacks; a nil
// callback means the affordance is hidden, not a no-op.
type Inbox struct {
	messages      MessageSource
	notifications NotificationSource
	limit         int
	log           *zap.SugaredLogger

	OnOpenChat         func(senderID string)
	OnOpenNotification func(notificationID string)
}

func NewInbox(messages MessageSource, notifications NotificationSource, limit int, log *zap.SugaredLogger) *Inbox {
	if limit <= 0 {
		limit = 5
	}
	return &Inbox{messages: messages, notifications: notifications, limit: limit, log: log}
}

// fetchBackoff bounds upstream fetches to the configured two retries.
func fetchBackoff() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewConstant(200*time.Millisecond))
}

// Snapshot fetches both sources and folds them into one view. Both
// fetches always run; when both fail the chat error wins since chat is
// the primary surface.
func (ib *Inbox) Snapshot(ctx context.Context, userID string) (*InboxSnapshot, error) {
	var (
		msgs      []models.Message
		msgUnread int64
		msgErr    error
	)
	msgErr = retry.Do(ctx, fetchBackoff(), func(ctx context.Context) error {
		var err error
		if msgs, err = ib.messages.UnreadForUser(ctx, userID, ib.limit); err != nil {
			return retry.RetryableError(err)
		}
		if msgUnread, err = ib.messages.TotalUnreadForUser(ctx, userID); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	var (
		notifs      []models.Notification
		notifUnread int64
		notifErr    error
	)
	notifErr = retry.Do(ctx, fetchBackoff(), func(ctx context.Context) error {
		var err error
		if notifs, err = ib.notifications.UnreadForUser(ctx, userID, ib.limit); err != nil {
			return retry.RetryableError(err)
		}
		if notifUnread, err = ib.notifications.TotalUnreadForUser(ctx, userID); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	if msgErr != nil {
		return nil, msgErr
	}
	if notifErr != nil {
		return nil, notifErr
	}

	items := make([]InboxItem, 0, len(msgs)+len(notifs))
	for _, m := range msgs {
		items = append(items, InboxItem{
			ID:        m.ThreadID,
			Kind:      KindChat,
			Title:     m.SenderName(),
			Snippet:   m.Snippet(replySnippetLen),
			SenderID:  m.SenderID,
			Timestamp: m.Timestamp,
		})
	}
	for _, n := range notifs {
		items = append(items, InboxItem{
			ID:        n.ID,
			Kind:      KindNotification,
			Title:     n.Title,
			Snippet:   n.Content,
			Timestamp: n.CreatedAt,
		})
	}

	return &InboxSnapshot{
		Items:              items,
		ChatUnread:         msgUnread,
		NotificationUnread: notifUnread,
		CombinedUnread:     msgUnread + notifUnread,
	}, nil
}

// MarkRead dispatches to the right upstream mutation. For chat, id is
// the thread id. Failures propagate; no local state is touched on
// failure.
func (ib *Inbox) MarkRead(ctx context.Context, id string, kind ItemKind, viewerID string) error {
	switch kind {
	case KindChat:
		_, err := ib.messages.MarkThreadRead(ctx, id, viewerID)
		return err
	case KindNotification:
		return ib.notifications.MarkRead(ctx, id)
	}
	return models.ErrBadRequest
}

// Open routes to the item and marks it read best-effort. Navigation is
// never gated on the mark-as-read ack: the callback fires first and a
// failed mutation only logs — the badge re-derives on the next
// snapshot.
func (ib *Inbox) Open(ctx context.Context, item InboxItem, viewerID string) {
	switch item.Kind {
	case KindChat:
		if ib.OnOpenChat != nil {
			ib.OnOpenChat(item.SenderID)
		}
	case KindNotification:
		if ib.OnOpenNotification != nil {
			ib.OnOpenNotification(item.ID)
		}
	}
	if err := ib.MarkRead(ctx, item.ID, item.Kind, viewerID); err != nil {
		ib.log.Warnw("inbox mark read", "id", item.ID, "kind", item.Kind, "err", err)
	}
}
