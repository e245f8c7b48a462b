// Package worker hosts the per-source consumer runtimes: poll, process,
// publish, and always advance the offset. No pipeline error ever escapes a
// worker loop.
package worker

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Message is one consumed broker record plus its coordinates, which fail
// events carry so upstream can locate the original message.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
}

// Consumer fetches messages and commits offsets explicitly. Fetch blocks
// until a message arrives or ctx is cancelled.
type Consumer interface {
	Fetch(ctx context.Context) (Message, error)
	Commit(ctx context.Context, msg Message) error
	Close() error
}

// Producer publishes outbound events. Implementations must be safe for
// concurrent use; all workers share one producer.
type Producer interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
	Close() error
}

// KafkaConsumer is a consumer-group reader over one request topic.
type KafkaConsumer struct {
	reader *kafka.Reader
}

// NewKafkaConsumer binds a group reader to topic. Offsets are only advanced
// through Commit, never automatically.
func NewKafkaConsumer(brokers []string, groupID, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

func (c *KafkaConsumer) Fetch(ctx context.Context) (Message, error) {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("fetch message: %w", err)
	}

	return Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
	}, nil
}

func (c *KafkaConsumer) Commit(ctx context.Context, msg Message) error {
	err := c.reader.CommitMessages(ctx, kafka.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	})
	if err != nil {
		return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
	}

	return nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

// KafkaProducer is the shared writer for result and fail topics. Hash
// balancing on the requestId key keeps results of one request on one
// partition.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer builds the shared writer. All in-sync replicas must ack
// before a publish returns.
func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, topic, key string, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
