package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/gometeo/dashboard/internal/api/handlers"
	"github.com/gometeo/dashboard/internal/config"
	"github.com/gometeo/dashboard/internal/dashboard"
	"github.com/gometeo/dashboard/internal/events"
	"github.com/gometeo/dashboard/internal/favorites"
	"github.com/gometeo/dashboard/internal/logger"
	"github.com/gometeo/dashboard/internal/metrics"
	"github.com/gometeo/dashboard/internal/owm"
	"github.com/gometeo/dashboard/internal/storage"
)

func main() {
	// Загрузка конфигурации
	cfg := config.Load()

	// Настройка логирования
	log := logger.New(cfg.LogLevel, cfg.Env)
	log.Info("Запуск Weather Dashboard API...")

	if cfg.OWMAPIKey == "" {
		log.Error("Не задан OPENWEATHER_API_KEY")
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Error("Неверный часовой пояс", "timezone", cfg.DisplayTimezone, "error", err)
		os.Exit(1)
	}

	log.Info("Конфигурация загружена",
		"port", cfg.HTTPPort,
		"favorites", cfg.FavoritesBackend,
		"timezone", loc.String(),
		"kafka", len(cfg.KafkaBrokers) > 0)

	ctx := context.Background()

	// 1. Клиент OpenWeatherMap
	client := owm.New(cfg.OWMAPIKey,
		owm.WithBaseURL(cfg.OWMBaseURL),
		owm.WithLanguage(cfg.OWMLang),
		owm.WithLocation(loc),
		owm.WithHTTPClient(&http.Client{Timeout: cfg.OWMTimeout}),
		owm.WithRateLimit(cfg.OWMRateLimitRPS, cfg.OWMRateLimitBurst),
		owm.WithLogger(log),
	)

	// 2. Хранилище избранного
	store, err := favorites.Open(ctx, cfg, log)
	if err != nil {
		log.Error("Не удалось открыть хранилище избранного", "backend", cfg.FavoritesBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 3. Kafka (необязательно)
	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Warn("Kafka недоступна, наблюдения не публикуются", "error", err)
		} else {
			publisher = kp
			log.Info("Успешное подключение к Kafka", "topic", cfg.KafkaTopic)
		}
	}
	defer publisher.Close()

	// 4. Postgres с историей наблюдений (необязательно)
	var observations handlers.ObservationReader
	if cfg.DBDSN != "" {
		ws, err := storage.New(cfg.DBDSN, log)
		if err != nil {
			log.Error("Не удалось подключиться к БД", "error", err)
			os.Exit(1)
		}
		defer ws.Close()
		observations = ws
		log.Info("Успешное подключение к Postgres")
	}

	dash := dashboard.New(ctx, client, store,
		dashboard.WithPublisher(publisher),
		dashboard.WithLogger(log))

	// 5. Настройка маршрутизатора
	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	handlers.NewDashboardHandler(dash, observations, log).Register(api)

	// Middleware
	router.Use(loggingMiddleware(log))
	api.Use(contentTypeMiddleware)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	// 6. Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      corsHandler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. Graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Сервер запущен", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Ошибка сервера", "error", err)
		}
	}()

	// Ожидание сигнала завершения
	<-stopChan
	log.Info("Получен сигнал завершения...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Ошибка при остановке сервера", "error", err)
	} else {
		log.Info("Сервер остановлен")
	}
}

// Middleware для логирования
func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Создаем ResponseWriter для отслеживания статуса
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			log.Info("HTTP запрос",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// Кастомный ResponseWriter для отслеживания статуса
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware для установки Content-Type
func contentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
