package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// RenderEvent describes one completed render, for analytics consumers.
type RenderEvent struct {
	RenderID string        `json:"render_id"`
	UID      string        `json:"uid,omitempty"`
	AvatarID string        `json:"avatar_id"`
	Bytes    int           `json:"bytes"`
	Duration time.Duration `json:"duration_ns"`
}

type Producer interface {
	RenderCompleted(ev RenderEvent) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer connects to the broker and returns a kafka-backed
// producer, falling back to a no-op producer when the broker is
// unreachable so rendering never depends on the analytics path.
func NewProducer(brokers string, topic string) Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers)
	if err != nil {
		logrus.Warnf("kafka connection failed, render events disabled: %v", err)
		return &nopProducer{}
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.Printf("could not create topic (might already exist): %v", err)
	}

	logrus.Printf("render events producer connected to %s", brokers)
	return &kafkaProducer{writer: writer, topic: topic}
}

func (p *kafkaProducer) RenderCompleted(ev RenderEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.RenderID),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

type nopProducer struct{}

// NewNop returns a producer that discards events; used when the events
// section is disabled in config.
func NewNop() Producer {
	return &nopProducer{}
}

func (*nopProducer) RenderCompleted(RenderEvent) error { return nil }
func (*nopProducer) Close() error                      { return nil }
