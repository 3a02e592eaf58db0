package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"

	"github.com/gometeo/dashboard/internal/config"
	"github.com/gometeo/dashboard/internal/events"
	"github.com/gometeo/dashboard/internal/logger"
	"github.com/gometeo/dashboard/internal/storage"
)

const maxRetries = 5

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)
	log.Info("Запуск Weather Aggregator...")

	if cfg.DBDSN == "" || len(cfg.KafkaBrokers) == 0 {
		log.Error("Нужны DB_DSN и KAFKA_BROKERS")
		os.Exit(1)
	}

	// 1. Подключение к Postgres
	store := connectStorage(cfg.DBDSN, log)
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	// 2. Настройка Kafka Consumer
	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Return.Errors = true
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumer, err := sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaGroup, saramaCfg)
	if err != nil {
		log.Error("Ошибка создания Kafka consumer", "error", err)
		os.Exit(1)
	}

	// 3. Запуск цикла чтения
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer wg.Done()
		handler := events.NewConsumerHandler(store, log)
		for {
			if err := consumer.Consume(ctx, []string{cfg.KafkaTopic}, handler); err != nil {
				log.Error("Ошибка при чтении Kafka", "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for err := range consumer.Errors() {
			log.Error("Ошибка consumer group", "error", err)
		}
	}()

	log.Info("Читаем наблюдения", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroup)

	// 4. Graceful Shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Остановка сервиса...")
	cancel()
	wg.Wait()
	if err := consumer.Close(); err != nil {
		log.Error("Ошибка при закрытии consumer", "error", err)
	}
}

// connectStorage ждёт, пока поднимется Postgres
func connectStorage(dsn string, log *slog.Logger) *storage.WeatherStorage {
	var err error
	for i := 0; i < maxRetries; i++ {
		var store *storage.WeatherStorage
		store, err = storage.New(dsn, log)
		if err == nil {
			log.Info("Успешное подключение к Postgres")
			return store
		}
		log.Warn("Не удалось подключиться к БД. Повторная попытка через 3с...",
			"попытка", i+1, "всего", maxRetries, "error", err)
		time.Sleep(3 * time.Second)
	}

	log.Error("Не удалось подключиться к БД после всех попыток. Выход.", "error", err)
	return nil
}
