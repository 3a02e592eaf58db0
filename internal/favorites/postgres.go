package favorites

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // Регистрируем драйвер pgx

	"github.com/gometeo/dashboard/internal/model"
)

// Postgres хранит список построчно, position задаёт порядок добавления
type Postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS saved_cities (
		position INTEGER NOT NULL,
		name VARCHAR(100) NOT NULL,
		country VARCHAR(10) NOT NULL,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		PRIMARY KEY (name, country)
	);`
	if _, err := db.ExecContext(ctx, query); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания таблицы: %w", err)
	}

	return &Postgres{db: db, logger: logger}, nil
}

func (p *Postgres) Load(ctx context.Context) ([]model.SavedCity, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT name, country, lat, lon FROM saved_cities ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения избранного: %w", err)
	}
	defer rows.Close()

	cities := []model.SavedCity{}
	for rows.Next() {
		var c model.SavedCity
		if err := rows.Scan(&c.Name, &c.Country, &c.Lat, &c.Lon); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения избранного: %w", err)
	}
	return cities, nil
}

// Save заменяет список целиком в одной транзакции
func (p *Postgres) Save(ctx context.Context, cities []model.SavedCity) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_cities`); err != nil {
		return fmt.Errorf("ошибка очистки избранного: %w", err)
	}

	for i, c := range Dedup(cities) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO saved_cities (position, name, country, lat, lon) VALUES ($1, $2, $3, $4, $5)`,
			i, c.Name, c.Country, c.Lat, c.Lon)
		if err != nil {
			return fmt.Errorf("ошибка сохранения %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
