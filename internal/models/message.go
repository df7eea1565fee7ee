package models

import (
	"time"
	"unicode/utf8"
)

// MessageType classifies a message for the admin console's filtering views.
type MessageType string

const (
	TypeProblem     MessageType = "PROBLEM"
	TypeRequest     MessageType = "REQUEST"
	TypeAdvice      MessageType = "ADVICE"
	TypeInformation MessageType = "INFORMATION"
	TypeFeedback    MessageType = "FEEDBACK"
	TypeChat        MessageType = "CHAT"
	TypeSystem      MessageType = "SYSTEM"
)

func (t MessageType) Valid() bool {
	switch t {
	case TypeProblem, TypeRequest, TypeAdvice, TypeInformation, TypeFeedback, TypeChat, TypeSystem:
		return true
	}
	return false
}

// Reaction is one (message, emoji, user) fact. The tuple is unique per
// message: repeated toggles by the same user flip it on and off rather
// than accumulating duplicates.
type Reaction struct {
	ID        string    `bson:"_id" json:"id"`
	Emoji     string    `bson:"emoji" json:"emoji"`
	UserID    string    `bson:"user_id" json:"user_id"`
	UserName  string    `bson:"user_name" json:"user_name"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// EditRecord is one prior version of a message's content.
type EditRecord struct {
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ReplySnapshot is the denormalized preview of the message being replied
// to, captured at send time so it survives deletion of the target.
type ReplySnapshot struct {
	SenderName string `bson:"sender_name" json:"sender_name"`
	Content    string `bson:"content" json:"content"`
}

// UserSnapshot is a weak display reference to the sender; identity is
// always resolved against the user service, never from this copy.
type UserSnapshot struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Message is one chat utterance inside a channel.
type Message struct {
	ID         string      `bson:"_id" json:"id"`
	ChannelID  string      `bson:"channel_id,omitempty" json:"channel_id,omitempty"`
	ThreadID   string      `bson:"thread_id,omitempty" json:"thread_id,omitempty"`
	SenderID   string      `bson:"sender_id" json:"sender_id"`
	ReceiverID string      `bson:"receiver_id" json:"receiver_id"`
	Content    string      `bson:"content" json:"content"`
	Type       MessageType `bson:"type" json:"type"`

	Timestamp   time.Time  `bson:"timestamp" json:"timestamp"`
	ReadAt      *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	DeliveredAt *time.Time `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`

	IsRead   bool `bson:"is_read" json:"is_read"`
	IsEdited bool `bson:"is_edited" json:"is_edited"`

	ReplyToID string         `bson:"reply_to_id,omitempty" json:"reply_to_id,omitempty"`
	ReplyTo   *ReplySnapshot `bson:"reply_to,omitempty" json:"reply_to,omitempty"`

	Reactions   []Reaction        `bson:"reactions" json:"reactions"`
	EditHistory []EditRecord      `bson:"edit_history,omitempty" json:"edit_history,omitempty"`
	User        *UserSnapshot     `bson:"user,omitempty" json:"user,omitempty"`
	Metadata    map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

func (m *Message) IsDeleted() bool {
	return m.DeletedAt != nil
}

// CanEdit reports whether userID may enter the edit flow: sender-only,
// at most one edit per message, and never on a deleted message.
func (m *Message) CanEdit(userID string) bool {
	return m.SenderID == userID && !m.IsEdited && !m.IsDeleted()
}

// CanDelete reports whether userID may delete the message.
func (m *Message) CanDelete(userID string) bool {
	return m.SenderID == userID && !m.IsDeleted()
}

// ReactionCounts folds the reaction list into emoji -> count.
func (m *Message) ReactionCounts() map[string]int {
	counts := make(map[string]int, len(m.Reactions))
	for _, r := range m.Reactions {
		counts[r.Emoji]++
	}
	return counts
}

// HasUserReacted reports whether userID already reacted with emoji.
func (m *Message) HasUserReacted(emoji, userID string) bool {
	for _, r := range m.Reactions {
		if r.Emoji == emoji && r.UserID == userID {
			return true
		}
	}
	return false
}

// SenderName resolves a display name for the sender, falling back to the
// raw sender id when no user snapshot was hydrated.
func (m *Message) SenderName() string {
	if m.User != nil && m.User.Name != "" {
		return m.User.Name
	}
	return m.SenderID
}

// Snippet returns the content truncated to at most n runes, with an
// ellipsis when truncated. Used for reply previews and inbox rows.
func (m *Message) Snippet(n int) string {
	if n <= 0 || utf8.RuneCountInString(m.Content) <= n {
		return m.Content
	}
	runes := []rune(m.Content)
	return string(runes[:n]) + "…"
}
