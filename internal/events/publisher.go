package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

const (
	EventMessageCreated  = "message.created"
	EventMessageEdited   = "message.edited"
	EventMessageDeleted  = "message.deleted"
	EventMessageRead     = "message.read"
	EventReactionToggled = "reaction.toggled"
)

// Envelope is the wire shape on the messaging events topic.
type Envelope struct {
	Type      string      `json:"type"`
	ChannelID string      `json:"channel_id"`
	Payload   interface{} `json:"payload,omitempty"`
	At        time.Time   `json:"at"`
}

// Publisher emits message lifecycle events to Kafka. Publishing is
// best-effort: a broker failure is logged and never fails the request
// that produced the event.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

func NewPublisher(brokers []string, topic string, log *zap.SugaredLogger) *Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w, log: log}
}

func (p *Publisher) publish(ctx context.Context, typ, channelID string, payload interface{}) {
	ev := Envelope{Type: typ, ChannelID: channelID, Payload: payload, At: time.Now().UTC()}
	b, err := json.Marshal(ev)
	if err != nil {
		p.log.Warnw("marshal event", "type", typ, "err", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(channelID),
		Value: b,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warnw("publish event", "type", typ, "channel_id", channelID, "err", err)
	}
}

func (p *Publisher) MessageCreated(ctx context.Context, m *models.Message) {
	p.publish(ctx, EventMessageCreated, m.ChannelID, m)
}

func (p *Publisher) MessageEdited(ctx context.Context, m *models.Message) {
	p.publish(ctx, EventMessageEdited, m.ChannelID, m)
}

func (p *Publisher) MessageDeleted(ctx context.Context, channelID, messageID string) {
	p.publish(ctx, EventMessageDeleted, channelID, map[string]string{"message_id": messageID})
}

func (p *Publisher) MessagesRead(ctx context.Context, channelID string, count int64) {
	p.publish(ctx, EventMessageRead, channelID, map[string]int64{"count": count})
}

func (p *Publisher) ReactionToggled(ctx context.Context, m *models.Message, emoji, userID string, added bool) {
	p.publish(ctx, EventReactionToggled, m.ChannelID, map[string]interface{}{
		"message_id": m.ID,
		"emoji":      emoji,
		"user_id":    userID,
		"added":      added,
	})
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
