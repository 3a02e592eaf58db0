package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // Регистрируем драйвер sqlite

	"github.com/gometeo/dashboard/internal/model"
)

// SQLite - ключ-значение в локальном файле базы, как localStorage браузера
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}

	// Активировать WAL для конкурентных коротких записей
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		logger.Warn("Не удалось включить WAL", "error", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания таблицы: %w", err)
	}

	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Load(ctx context.Context) ([]model.SavedCity, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.SavedCity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения избранного: %w", err)
	}
	return decode([]byte(value), s.logger), nil
}

func (s *SQLite) Save(ctx context.Context, cities []model.SavedCity) error {
	data, err := encode(cities)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		Key, string(data))
	if err != nil {
		return fmt.Errorf("ошибка сохранения избранного: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
