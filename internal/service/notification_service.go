package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

// NotificationStore is the persistence capability behind the inbox's
// second stream.
type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	UnreadForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnreadForUser(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
}

type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) Create(ctx context.Context, userID, title, content string) (*models.Notification, error) {
	if userID == "" || strings.TrimSpace(title) == "" {
		return nil, models.ErrBadRequest
	}
	n := &models.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListForUser(ctx, userID)
}

// UnreadForUser, TotalUnreadForUser and MarkRead satisfy the inbox
// aggregator's NotificationSource capability.

func (s *NotificationService) UnreadForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return s.store.UnreadForUser(ctx, userID, limit)
}

func (s *NotificationService) TotalUnreadForUser(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnreadForUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.store.MarkRead(ctx, id)
}
