package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/gometeo/dashboard/internal/model"
)

// ObservationSink - куда агрегатор складывает наблюдения
type ObservationSink interface {
	Save(ctx context.Context, obs model.Observation) error
}

// ConsumerHandler читает наблюдения из топика и сохраняет их
type ConsumerHandler struct {
	logger *slog.Logger
	sink   ObservationSink
}

func NewConsumerHandler(sink ObservationSink, logger *slog.Logger) *ConsumerHandler {
	return &ConsumerHandler{logger: logger, sink: sink}
}

func (h *ConsumerHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *ConsumerHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *ConsumerHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var obs model.Observation
		if err := json.Unmarshal(msg.Value, &obs); err != nil {
			h.logger.Error("Битый JSON", "offset", msg.Offset, "error", err)
			// Битое сообщение не станет лучше при повторе - помечаем и идём дальше
			sess.MarkMessage(msg, "")
			continue
		}

		// Используем контекст сессии, чтобы отменить запись, если Kafka отвалилась
		if err := h.sink.Save(sess.Context(), obs); err != nil {
			h.logger.Error("Ошибка записи в БД", "city", obs.City, "error", err)
			// Если БД лежит, НЕ помечаем сообщение как прочитанное,
			// чтобы Kafka отдала его нам снова позже.
			continue
		}

		h.logger.Info("Данные сохранены в БД",
			"city", obs.City,
			"temp", obs.Temperature,
			"source", obs.Source)

		sess.MarkMessage(msg, "")
	}
	return nil
}
