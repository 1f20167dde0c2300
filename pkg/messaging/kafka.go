package messaging

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// SearchEvent is published whenever a shopper runs a catalog search. The
// analytics pipeline ranks popular queries per store from this topic.
type SearchEvent struct {
	StoreSlug   string    `json:"store_slug"`
	Query       string    `json:"query"`
	Sort        string    `json:"sort"`
	InStockOnly bool      `json:"in_stock_only"`
	ResultCount int       `json:"result_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const SearchEventsTopic = "catalog_search_events"

// KafkaProducer lazily creates one writer per topic. Callers publish from
// request goroutines, so the writers map is mutex-guarded.
type KafkaProducer struct {
	mu      sync.Mutex
	writers map[string]*kafka.Writer
	brokers []string
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		writers: make(map[string]*kafka.Writer),
		brokers: brokers,
	}
}

func (kp *KafkaProducer) getWriter(topic string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(kp.brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	kp.writers[topic] = writer
	return writer
}

func (kp *KafkaProducer) SendMessage(topic, key string, value interface{}) error {
	writer := kp.getWriter(topic)

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	return writer.WriteMessages(context.Background(), message)
}

func (kp *KafkaProducer) Close() {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	for topic, writer := range kp.writers {
		if err := writer.Close(); err != nil {
			log.Printf("Failed to close Kafka writer for topic %s: %v", topic, err)
		}
	}
}
