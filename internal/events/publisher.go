package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/gometeo/dashboard/internal/model"
)

// Publisher отправляет наблюдения о погоде дальше по конвейеру
type Publisher interface {
	Publish(ctx context.Context, obs model.Observation) error
	Close() error
}

// KafkaPublisher - синхронный продюсер Kafka
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher подключается к брокерам.
// Ждём подтверждения от всех реплик, что сообщение записано.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к Kafka: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic, logger), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(_ context.Context, obs model.Observation) error {
	bytes, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}

	// Ключ по стране и городу, чтобы наблюдения одного города шли в одну партицию
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(obs.Country + "/" + obs.City),
		Value: sarama.ByteEncoder(bytes),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %w", err)
	}

	p.logger.Debug("Наблюдение отправлено",
		"city", obs.City,
		"source", obs.Source,
		"partition", partition,
		"offset", offset)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// Nop - издатель, который ничего не делает (Kafka не настроена)
type Nop struct{}

func (Nop) Publish(context.Context, model.Observation) error { return nil }
func (Nop) Close() error                                     { return nil }
