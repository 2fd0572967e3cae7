package kafka

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrDisabled = errors.New("kafka disabled")

// Message is one encoded domain event. Key is the aggregate id so that all
// events of an aggregate land on the same partition.
type Message struct {
	Key       string
	Value     []byte
	EventType string
	Time      time.Time
}

type Client struct {
	Brokers []string
}

func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) Enabled() bool {
	return c != nil && len(c.Brokers) > 0
}

// Ping dials the first reachable broker.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	var lastErr error
	for _, broker := range c.Brokers {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	return lastErr
}

// Writer publishes encoded events to a single topic.
type Writer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

func (c *Client) NewWriter(topic string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(c.Brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
		},
		logger: logger,
	}
}

func (w *Writer) Send(ctx context.Context, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i, m := range msgs {
		out[i] = toKafka(m)
	}
	if err := w.writer.WriteMessages(ctx, out...); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			w.logger.Warn("kafka write timed out", zap.Int("messages", len(msgs)))
		}
		return err
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func toKafka(m Message) kafkago.Message {
	ts := m.Time
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	msg := kafkago.Message{Key: []byte(m.Key), Value: m.Value, Time: ts}
	if m.EventType != "" {
		msg.Headers = []kafkago.Header{{Key: "event_type", Value: []byte(m.EventType)}}
	}
	return msg
}

// LogSink stands in for the broker when no brokers are configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, msgs []Message) error {
	for _, m := range msgs {
		s.logger.Info("domain event",
			zap.String("key", m.Key),
			zap.String("event_type", m.EventType),
			zap.ByteString("value", m.Value),
		)
	}
	return nil
}

func (s *LogSink) Close() error { return nil }
