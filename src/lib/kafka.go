package lib

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// EventPublisher emits domain events after the owning db transaction has committed.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, payload any) error
	Close()
}

type KafkaPublisher struct {
	producer *kafka.Producer
}

func GetKafkaProducerConfig(clientId string) kafka.ConfigMap {
	return kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	}
}

func NewKafkaPublisher(clientId string) (*KafkaPublisher, error) {
	log.Println("Initializing kafka Producer...")
	cfg := GetKafkaProducerConfig(clientId)
	p, err := kafka.NewProducer(&cfg)
	if err != nil {
		log.Printf("Error on producer: %s\n", err.Error())
		return nil, err
	}
	go func() {
		for e := range p.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				log.Printf("[kafka] Delivery failed for %s: %s\n", *m.TopicPartition.Topic, m.TopicPartition.Error.Error())
			}
		}
	}()
	return &KafkaPublisher{producer: p}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, topic string, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[kafka] Error processing payload: %s\n", err.Error())
		return err
	}
	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
	}, nil)
}

func (k *KafkaPublisher) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic string, key string, payload any) error {
	return nil
}

func (NoopPublisher) Close() {}

// NewEventPublisher falls back to a no-op publisher when no broker is configured.
func NewEventPublisher(clientId string) EventPublisher {
	if os.Getenv("KAFKA_BROKER") == "" {
		log.Println("[kafka] KAFKA_BROKER not set, lifecycle events are disabled")
		return NoopPublisher{}
	}
	p, err := NewKafkaPublisher(clientId)
	if err != nil {
		return NoopPublisher{}
	}
	return p
}
