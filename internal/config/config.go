package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	Env      string
	LogLevel string

	// OpenWeatherMap
	OWMAPIKey         string
	OWMBaseURL        string
	OWMLang           string
	OWMTimeout        time.Duration
	OWMRateLimitRPS   float64
	OWMRateLimitBurst int
	DisplayTimezone   string

	// Избранные города
	FavoritesBackend string
	FavoritesFile    string
	SQLitePath       string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	DBDSN            string

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	CollectInterval time.Duration
	CitiesFile      string
}

// Load читает конфигурацию из окружения. Файл .env необязателен.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OWMAPIKey:         getEnv("OPENWEATHER_API_KEY", ""),
		OWMBaseURL:        getEnv("OWM_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		OWMLang:           getEnv("OWM_LANG", "ru"),
		OWMTimeout:        time.Duration(getEnvInt("OWM_TIMEOUT_SECONDS", 10)) * time.Second,
		OWMRateLimitRPS:   getEnvFloat("OWM_RATE_LIMIT_RPS", 1),
		OWMRateLimitBurst: getEnvInt("OWM_RATE_LIMIT_BURST", 10),
		DisplayTimezone:   getEnv("DISPLAY_TIMEZONE", "Local"),

		FavoritesBackend: strings.ToLower(getEnv("FAVORITES_BACKEND", "file")),
		FavoritesFile:    getEnv("FAVORITES_FILE", "saved-cities.json"),
		SQLitePath:       getEnv("SQLITE_PATH", "dashboard.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		DBDSN:            getEnv("DB_DSN", ""),

		KafkaBrokers: getEnvSlice("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "weather_data"),
		KafkaGroup:   getEnv("KAFKA_GROUP", "weather_aggregator_group"),

		CollectInterval: time.Duration(getEnvInt("COLLECT_INTERVAL_SECONDS", 600)) * time.Second,
		CitiesFile:      getEnv("CITIES_FILE", ""),
	}
}

// Location возвращает часовой пояс для отображения дат прогноза
func (c *Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" || c.DisplayTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.DisplayTimezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
