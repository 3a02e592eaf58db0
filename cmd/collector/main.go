package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gometeo/dashboard/internal/collector"
	"github.com/gometeo/dashboard/internal/config"
	"github.com/gometeo/dashboard/internal/events"
	"github.com/gometeo/dashboard/internal/favorites"
	"github.com/gometeo/dashboard/internal/logger"
	"github.com/gometeo/dashboard/internal/owm"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)
	log.Info("Запуск Weather Collector...")

	if cfg.OWMAPIKey == "" {
		log.Error("Не задан OPENWEATHER_API_KEY")
		os.Exit(1)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Error("Не заданы KAFKA_BROKERS")
		os.Exit(1)
	}

	cities, err := config.LoadCities(cfg.CitiesFile)
	if err != nil {
		log.Error("Не удалось прочитать список городов", "file", cfg.CitiesFile, "error", err)
		os.Exit(1)
	}

	// Канал для Graceful Shutdown (Ctrl+C)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Kafka Producer
	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		log.Error("Ошибка подключения к Kafka", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Ошибка при закрытии продюсера", "error", err)
		}
	}()

	// 2. Избранное тоже собираем, если хранилище доступно
	store, err := favorites.Open(ctx, cfg, log)
	if err != nil {
		log.Warn("Хранилище избранного недоступно, собираем только города из файла", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	client := owm.New(cfg.OWMAPIKey,
		owm.WithBaseURL(cfg.OWMBaseURL),
		owm.WithLanguage(cfg.OWMLang),
		owm.WithHTTPClient(&http.Client{Timeout: cfg.OWMTimeout}),
		owm.WithRateLimit(cfg.OWMRateLimitRPS, cfg.OWMRateLimitBurst),
		owm.WithLogger(log),
	)

	c := collector.New(client, store, cities, publisher, log)
	c.Run(ctx, cfg.CollectInterval)

	log.Info("Получен сигнал завершения. Остановка...")
}
