package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

type fakeMessageSource struct {
	unread     []models.Message
	total      int64
	failTimes  int // number of UnreadForUser calls that fail before succeeding
	calls      int
	markCalls  int
	markErr    error
	lastThread string
}

func (f *fakeMessageSource) UnreadForUser(_ context.Context, _ string, limit int) ([]models.Message, error) {
	f.calls++
	if f.calls <= f.failTimes {
		return nil, errors.New("chat source down")
	}
	if len(f.unread) > limit {
		return f.unread[:limit], nil
	}
	return f.unread, nil
}

func (f *fakeMessageSource) TotalUnreadForUser(context.Context, string) (int64, error) {
	return f.total, nil
}

func (f *fakeMessageSource) MarkThreadRead(_ context.Context, threadID, _ string) (int64, error) {
	f.markCalls++
	f.lastThread = threadID
	if f.markErr != nil {
		return 0, f.markErr
	}
	return f.total, nil
}

type fakeNotificationSource struct {
	unread    []models.Notification
	total     int64
	failTimes int
	calls     int
	markCalls int
	markErr   error
	lastID    string
}

func (f *fakeNotificationSource) UnreadForUser(_ context.Context, _ string, limit int) ([]models.Notification, error) {
	f.calls++
	if f.calls <= f.failTimes {
		return nil, errors.New("notification source down")
	}
	if len(f.unread) > limit {
		return f.unread[:limit], nil
	}
	return f.unread, nil
}

func (f *fakeNotificationSource) TotalUnreadForUser(context.Context, string) (int64, error) {
	return f.total, nil
}

func (f *fakeNotificationSource) MarkRead(_ context.Context, id string) error {
	f.markCalls++
	f.lastID = id
	return f.markErr
}

func unreadMsg(id, thread, sender string, ts time.Time) models.Message {
	return models.Message{ID: id, ChannelID: thread, ThreadID: thread, SenderID: sender, ReceiverID: "admin", Content: "c-" + id, Timestamp: ts}
}

func unreadNotif(id, title string, ts time.Time) models.Notification {
	return models.Notification{ID: id, UserID: "admin", Title: title, Content: "n-" + id, CreatedAt: ts}
}

func TestSnapshotCombinedBadge(t *testing.T) {
	now := time.Now().UTC()
	msgs := &fakeMessageSource{
		unread: []models.Message{unreadMsg("m1", "t1", "u1", now)},
		total:  7,
	}
	notifs := &fakeNotificationSource{
		unread: []models.Notification{unreadNotif("n1", "Payment overdue", now)},
		total:  4,
	}
	ib := NewInbox(msgs, notifs, 5, zap.NewNop().Sugar())

	snap, err := ib.Snapshot(context.Background(), "admin")
	require.NoError(t, err)
	assert.EqualValues(t, 7, snap.ChatUnread)
	assert.EqualValues(t, 4, snap.NotificationUnread)
	assert.EqualValues(t, 11, snap.CombinedUnread, "combined badge is always the sum of its sources")
	assert.Len(t, snap.Items, 2)
}

func TestSnapshotLimitsPerSource(t *testing.T) {
	now := time.Now().UTC()
	msgs := &fakeMessageSource{total: 10}
	for i := 0; i < 8; i++ {
		msgs.unread = append(msgs.unread, unreadMsg(string(rune('a'+i)), "t1", "u1", now.Add(-time.Duration(i)*time.Minute)))
	}
	notifs := &fakeNotificationSource{total: 9}
	for i := 0; i < 8; i++ {
		notifs.unread = append(notifs.unread, unreadNotif(string(rune('a'+i)), "title", now.Add(-time.Duration(i)*time.Minute)))
	}
	ib := NewInbox(msgs, notifs, 5, zap.NewNop().Sugar())

	snap, err := ib.Snapshot(context.Background(), "admin")
	require.NoError(t, err)
	assert.Len(t, snap.Items, 10, "top-5 per source")
	// Totals are not limited by the view window.
	assert.EqualValues(t, 19, snap.CombinedUnread)
}

func TestSnapshotPrefersChatError(t *testing.T) {
	// Both sources fail past their retry budget; the chat error wins.
	msgs := &fakeMessageSource{failTimes: 10}
	notifs := &fakeNotificationSource{failTimes: 10}
	ib := NewInbox(msgs, notifs, 5, zap.NewNop().Sugar())

	_, err := ib.Snapshot(context.Background(), "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat source down")
}

func TestSnapshotRetriesTransientFailures(t *testing.T) {
	now := time.Now().UTC()
	// Fails twice, then succeeds: inside the 2-retry budget.
	msgs := &fakeMessageSource{
		unread:    []models.Message{unreadMsg("m1", "t1", "u1", now)},
		total:     1,
		failTimes: 2,
	}
	notifs := &fakeNotificationSource{}
	ib := NewInbox(msgs, notifs, 5, zap.NewNop().Sugar())

	snap, err := ib.Snapshot(context.Background(), "admin")
	require.NoError(t, err)
	assert.EqualValues(t, 1, snap.CombinedUnread)
	assert.Equal(t, 3, msgs.calls)
}

func TestMarkReadDispatch(t *testing.T) {
	msgs := &fakeMessageSource{}
	notifs := &fakeNotificationSource{}
	ib := NewInbox(msgs, notifs, 5, zap.NewNop().Sugar())

	require.NoError(t, ib.MarkRead(context.Background(), "t1", KindChat, "admin"))
	assert.Equal(t, 1, msgs.markCalls)
	assert.Equal(t, "t1", msgs.lastThread)
	assert.Zero(t, notifs.markCalls)

	require.NoError(t, ib.MarkRead(context.Background(), "n1", KindNotification, "admin"))
	assert.Equal(t, 1, notifs.markCalls)
	assert.Equal(t, "n1", notifs.lastID)

	require.ErrorIs(t, ib.MarkRead(context.Background(), "x", ItemKind("bogus"), "admin"), models.ErrBadRequest)
}

func TestMarkReadFailurePropagates(t *testing.T) {
	msgs := &fakeMessageSource{markErr: errors.New("rejected")}
	ib := NewInbox(msgs, &fakeNotificationSource{}, 5, zap.NewNop().Sugar())

	err := ib.MarkRead(context.Background(), "t1", KindChat, "admin")
	require.Error(t, err, "caller must see the failure so the UI can toast it")
}

func TestOpenFiresCallbackEvenWhenMarkReadFails(t *testing.T) {
	msgs := &fakeMessageSource{markErr: errors.New("rejected")}
	notifs := &fakeNotificationSource{}
	ib := NewInbox(msgs, notifs, 5, zap.NewNop().Sugar())

	var opened string
	ib.OnOpenChat = func(senderID string) { opened = senderID }

	ib.Open(context.Background(), InboxItem{ID: "t1", Kind: KindChat, SenderID: "u1"}, "admin")
	assert.Equal(t, "u1", opened, "navigation is never gated on the mark-as-read ack")
	assert.Equal(t, 1, msgs.markCalls)
}

func TestOpenNotificationCallback(t *testing.T) {
	msgs := &fakeMessageSource{}
	notifs := &fakeNotificationSource{}
	ib := NewInbox(msgs, notifs, 5, zap.NewNop().Sugar())

	var opened string
	ib.OnOpenNotification = func(id string) { opened = id }

	ib.Open(context.Background(), InboxItem{ID: "n1", Kind: KindNotification}, "admin")
	assert.Equal(t, "n1", opened)
	assert.Equal(t, 1, notifs.markCalls)
}

func TestOpenWithoutCallbackStillMarksRead(t *testing.T) {
	msgs := &fakeMessageSource{}
	ib := NewInbox(msgs, &fakeNotificationSource{}, 5, zap.NewNop().Sugar())

	// Nil callback means the affordance is hidden; the mutation still runs.
	ib.Open(context.Background(), InboxItem{ID: "t1", Kind: KindChat, SenderID: "u1"}, "admin")
	assert.Equal(t, 1, msgs.markCalls)
}
