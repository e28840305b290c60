// Package event publishes status-change events to Kafka.
package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"kidcare/internal/domain/model"
)

const (
	TopicOrderStatusChanged       = "order.status_changed"
	TopicAppointmentStatusChanged = "appointment.status_changed"
)

var ErrUnknownKind = errors.New("unknown event kind")

type Publisher interface {
	PublishStatusChanged(ctx context.Context, ev model.StatusChangedEvent) error
	Close() error
}

// 種類ごとのトピック
func TopicFor(kind model.EventKind) (string, error) {
	switch kind {
	case model.EventKindOrder:
		return TopicOrderStatusChanged, nil
	case model.EventKindAppointment:
		return TopicAppointmentStatusChanged, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// "a:9092, b:9092" をブローカー一覧にする
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// ブローカーが無ければ何もしないPublisherを返す
func New(brokersCSV string) Publisher {
	brokers := ParseBrokers(brokersCSV)
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewKafkaPublisher(brokers)
}

type Nop struct{}

func (Nop) PublishStatusChanged(ctx context.Context, ev model.StatusChangedEvent) error { return nil }
func (Nop) Close() error                                                                { return nil }

type KafkaPublisher struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{brokers: brokers, writers: map[string]*kafka.Writer{}}
}

// トピックごとにwriterを使い回す
func (p *KafkaPublisher) writer(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		// 1件ずつ同期で送るのでバッチ待ちは短く
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 2 * time.Second,
		MaxAttempts:  3,
	}
	p.writers[topic] = w
	return w
}

// キーはレコードID（同じレコードのイベントは同じパーティションに並ぶ）
func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, ev model.StatusChangedEvent) error {
	topic, err := TopicFor(ev.Kind)
	if err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer(topic).WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ID),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close writer[%s]: %w", topic, err))
		}
	}
	p.writers = map[string]*kafka.Writer{}
	return errors.Join(errs...)
}
