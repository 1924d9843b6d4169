package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	TopicChannelProvisioned = "payment-channel-events"
	TopicCommissionRepaired = "affiliate-commission-events"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return k.writer.WriteMessages(ctx, km...)
}

func (k *DefaultKafkaPublisher) PublishChannelProvisioned(event ChannelProvisionedEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(TopicChannelProvisioned, domain.Message{Key: []byte(event.TransactionID), Value: v})
}

func (k *DefaultKafkaPublisher) PublishCommissionRepaired(event CommissionRepairedEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(TopicCommissionRepaired, domain.Message{Key: []byte(event.TransactionID), Value: v})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
