package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

type fakeNotificationStore struct {
	notifs map[string]*models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifs: map[string]*models.Notification{}}
}

func (f *fakeNotificationStore) Insert(_ context.Context, n *models.Notification) error {
	cp := *n
	f.notifs[n.ID] = &cp
	return nil
}

func (f *fakeNotificationStore) ListForUser(_ context.Context, userID string) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range f.notifs {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotificationStore) UnreadForUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	all, _ := f.ListForUser(context.Background(), userID)
	out := []models.Notification{}
	for _, n := range all {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationStore) CountUnreadForUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, notif := range f.notifs {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id string) error {
	n, ok := f.notifs[id]
	if !ok {
		return models.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func TestNotificationCreateAndList(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationStore())

	_, err := svc.Create(context.Background(), "", "Payment overdue", "")
	require.ErrorIs(t, err, models.ErrBadRequest)

	n, err := svc.Create(context.Background(), "admin", "Payment overdue", "Invoice #482 is 5 days late")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.IsRead)

	list, err := svc.List(context.Background(), "admin")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Payment overdue", list[0].Title)
}

func TestNotificationMarkRead(t *testing.T) {
	store := newFakeNotificationStore()
	svc := NewNotificationService(store)

	n, err := svc.Create(context.Background(), "admin", "New reservation", "")
	require.NoError(t, err)

	total, err := svc.TotalUnreadForUser(context.Background(), "admin")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID))
	total, err = svc.TotalUnreadForUser(context.Background(), "admin")
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	// Idempotent.
	require.NoError(t, svc.MarkRead(context.Background(), n.ID))

	require.ErrorIs(t, svc.MarkRead(context.Background(), "missing"), models.ErrNotFound)
}
