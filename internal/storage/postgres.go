package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Регистрируем драйвер pgx

	"github.com/gometeo/dashboard/internal/model"
)

// ErrNotFound - наблюдений по городу нет
var ErrNotFound = errors.New("observation not found")

// WeatherStorage хранит последнее наблюдение по каждому городу
type WeatherStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(dsn string, logger *slog.Logger) (*WeatherStorage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Автоматическая миграция (создание таблицы) для простоты
	query := `
	CREATE TABLE IF NOT EXISTS weather (
		city VARCHAR(100) NOT NULL,
		country VARCHAR(10) NOT NULL,
		id VARCHAR(64),
		temp INTEGER,
		feels_like INTEGER,
		condition VARCHAR(255),
		humidity INTEGER,
		wind_kmh INTEGER,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		source VARCHAR(32),
		observed_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ,
		PRIMARY KEY (city, country)
	);`

	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания таблицы: %w", err)
	}

	return &WeatherStorage{db: db, logger: logger}, nil
}

func (s *WeatherStorage) Close() {
	s.db.Close()
}

func (s *WeatherStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save обновляет наблюдение или создает новую запись (Upsert).
// Более старое наблюдение не затирает более свежее.
func (s *WeatherStorage) Save(ctx context.Context, obs model.Observation) error {
	query := `
		INSERT INTO weather (city, country, id, temp, feels_like, condition, humidity, wind_kmh, lat, lon, source, observed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (city, country) DO UPDATE
		SET id = EXCLUDED.id,
		    temp = EXCLUDED.temp,
		    feels_like = EXCLUDED.feels_like,
		    condition = EXCLUDED.condition,
		    humidity = EXCLUDED.humidity,
		    wind_kmh = EXCLUDED.wind_kmh,
		    lat = EXCLUDED.lat,
		    lon = EXCLUDED.lon,
		    source = EXCLUDED.source,
		    observed_at = EXCLUDED.observed_at,
		    updated_at = EXCLUDED.updated_at
		WHERE weather.observed_at IS NULL OR weather.observed_at <= EXCLUDED.observed_at;
	`

	_, err := s.db.ExecContext(ctx, query,
		obs.City,
		obs.Country,
		obs.ID,
		obs.Temperature,
		obs.FeelsLike,
		obs.Description,
		obs.Humidity,
		obs.WindSpeed,
		obs.Lat,
		obs.Lon,
		obs.Source,
		obs.ObservedAt,
		time.Now(), // Записываем время сохранения
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения погоды для %s: %w", obs.City, err)
	}

	return nil
}

const selectColumns = `SELECT id, city, country, temp, feels_like, condition, humidity, wind_kmh, lat, lon, source, observed_at FROM weather`

func scanObservation(row interface{ Scan(dest ...any) error }) (model.Observation, error) {
	var obs model.Observation
	var id, condition, source sql.NullString
	err := row.Scan(&id, &obs.City, &obs.Country, &obs.Temperature, &obs.FeelsLike, &condition,
		&obs.Humidity, &obs.WindSpeed, &obs.Lat, &obs.Lon, &source, &obs.ObservedAt)
	obs.ID = id.String
	obs.Description = condition.String
	obs.Source = source.String
	return obs, err
}

// GetByCity возвращает самое свежее наблюдение по названию города (без учёта регистра)
func (s *WeatherStorage) GetByCity(ctx context.Context, city string) (*model.Observation, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE lower(city) = lower($1) ORDER BY observed_at DESC LIMIT 1`, city)

	obs, err := scanObservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения погоды для %s: %w", city, err)
	}
	return &obs, nil
}

// List возвращает последние наблюдения, самые свежие первыми
func (s *WeatherStorage) List(ctx context.Context, limit int) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY observed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения наблюдений: %w", err)
	}
	defer rows.Close()

	out := []model.Observation{}
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}
		out = append(out, obs)
	}
	return out, rows.Err()
}
