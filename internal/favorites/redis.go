package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gometeo/dashboard/internal/model"
)

// Redis хранит список под ключом saved-cities без TTL
type Redis struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

func NewRedis(ctx context.Context, addr, password string, db int, logger *slog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Проверка подключения
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	logger.Info("Успешное подключение к Redis", "addr", addr)

	return &Redis{client: client, key: Key, logger: logger}, nil
}

func (r *Redis) Load(ctx context.Context) ([]model.SavedCity, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.SavedCity{}, nil // Ключ не найден - это не ошибка
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из Redis: %w", err)
	}
	return decode(val, r.logger), nil
}

func (r *Redis) Save(ctx context.Context, cities []model.SavedCity) error {
	data, err := encode(cities)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("ошибка записи в Redis: %w", err)
	}
	r.logger.Debug("Избранное сохранено в Redis", "key", r.key, "count", len(cities))
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
