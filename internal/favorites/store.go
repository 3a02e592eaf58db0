// Package favorites хранит список избранных городов.
//
// Список целиком живёт в одном слоте: Load читает его один раз при старте,
// Save перезаписывает целиком при каждом изменении (последняя запись побеждает).
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gometeo/dashboard/internal/config"
	"github.com/gometeo/dashboard/internal/model"
)

// Key - имя слота, под которым хранится список
const Key = "saved-cities"

// Store - хранилище избранных городов.
// Отсутствующий или битый слот читается как пустой список без ошибки;
// ошибку возвращает только недоступное хранилище.
type Store interface {
	Load(ctx context.Context) ([]model.SavedCity, error)
	Save(ctx context.Context, cities []model.SavedCity) error
	Close() error
}

// Open создаёт хранилище по FAVORITES_BACKEND
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.FavoritesBackend {
	case "memory":
		return NewMemory(), nil
	case "file", "":
		return NewFile(cfg.FavoritesFile, logger), nil
	case "sqlite":
		return nonNil(NewSQLite(ctx, cfg.SQLitePath, logger))
	case "redis":
		return nonNil(NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger))
	case "postgres":
		return nonNil(NewPostgres(ctx, cfg.DBDSN, logger))
	default:
		return nil, fmt.Errorf("неизвестное хранилище избранного: %q", cfg.FavoritesBackend)
	}
}

// nonNil не даёт типизированному nil превратиться в непустой интерфейс
func nonNil[S Store](s S, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// decode разбирает сериализованный список. Битые данные - пустой список.
func decode(data []byte, logger *slog.Logger) []model.SavedCity {
	if len(data) == 0 {
		return []model.SavedCity{}
	}
	var cities []model.SavedCity
	if err := json.Unmarshal(data, &cities); err != nil {
		logger.Warn("Битый список избранного, начинаем с пустого", "error", err)
		return []model.SavedCity{}
	}
	return Dedup(cities)
}

func encode(cities []model.SavedCity) ([]byte, error) {
	if cities == nil {
		cities = []model.SavedCity{}
	}
	data, err := json.Marshal(cities)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации: %w", err)
	}
	return data, nil
}
