// Package collector периодически снимает текущую погоду по списку городов
// и публикует наблюдения в Kafka.
package collector

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gometeo/dashboard/internal/events"
	"github.com/gometeo/dashboard/internal/favorites"
	"github.com/gometeo/dashboard/internal/model"
)

// CurrentSource - откуда берём текущую погоду
type CurrentSource interface {
	CurrentWeather(ctx context.Context, city string) (model.CurrentWeather, error)
}

type Collector struct {
	source    CurrentSource
	store     favorites.Store
	static    []string
	publisher events.Publisher
	logger    *slog.Logger
}

// New. static - города из файла конфигурации, к ним добавляется избранное.
func New(source CurrentSource, store favorites.Store, static []string, publisher events.Publisher, logger *slog.Logger) *Collector {
	return &Collector{
		source:    source,
		store:     store,
		static:    static,
		publisher: publisher,
		logger:    logger,
	}
}

// Cities собирает список городов без повторов (без учёта регистра)
func (c *Collector) Cities(ctx context.Context) []string {
	names := append([]string{}, c.static...)

	if c.store != nil {
		saved, err := c.store.Load(ctx)
		if err != nil {
			c.logger.Warn("Не удалось прочитать избранное", "error", err)
		}
		for _, city := range saved {
			names = append(names, city.Name)
		}
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		// OWM ищет только по названию, страна в ключ не входит
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Collect делает один проход по городам. Возвращает число отправленных наблюдений.
// Ошибка по одному городу не останавливает проход.
func (c *Collector) Collect(ctx context.Context) int {
	sent := 0
	for _, city := range c.Cities(ctx) {
		if ctx.Err() != nil {
			break
		}

		cw, err := c.source.CurrentWeather(ctx, city)
		if err != nil {
			c.logger.Error("Не удалось получить погоду", "city", city, "error", err)
			continue
		}

		obs := model.NewObservation(uuid.NewString(), cw, model.SourceCollector)
		if err := c.publisher.Publish(ctx, obs); err != nil {
			c.logger.Error("Не удалось отправить сообщение", "city", city, "error", err)
			continue
		}

		c.logger.Info("Погода отправлена", "city", obs.City, "temp", obs.Temperature)
		sent++
	}
	return sent
}

// Run собирает погоду сразу и затем по тикеру, пока не отменён ctx
func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info("Начинаем сбор данных...", "interval", interval)
	c.Collect(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Сбор данных остановлен")
			return
		case <-ticker.C:
			n := c.Collect(ctx)
			c.logger.Debug("Проход завершён", "sent", n)
		}
	}
}
