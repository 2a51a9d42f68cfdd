package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TypeBidAccepted    = "bid.accepted"
	TypeBidOutbid      = "bid.outbid"
	TypeAuctionSettled = "auction.settled"
)

type Event struct {
	Type        string    `json:"type"`
	AuctionID   int       `json:"auction_id"`
	BidID       int64     `json:"bid_id,omitempty"`
	UserID      int       `json:"user_id,omitempty"`
	AmountMinor int64     `json:"amount,omitempty"`
	At          time.Time `json:"at"`
}

// KafkaWriter abstracts the kafka producer.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher pushes auction notifications to the event bus. Delivery is
// fire and forget: a nil or failing writer never affects core state.
type Publisher struct {
	writer KafkaWriter
}

func NewPublisher(writer KafkaWriter) *Publisher {
	return &Publisher{writer: writer}
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil || p.writer == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("failed to marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		zap.L().Warn("failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
