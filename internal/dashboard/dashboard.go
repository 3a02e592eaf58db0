// Package dashboard координирует поиск погоды и избранные города.
//
// Dashboard держит эфемерное состояние экрана (текущая погода, прогнозы,
// флаги загрузки и ошибки) и список избранного, который читается из
// хранилища один раз при создании и записывается при каждом изменении.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gometeo/dashboard/internal/events"
	"github.com/gometeo/dashboard/internal/favorites"
	"github.com/gometeo/dashboard/internal/metrics"
	"github.com/gometeo/dashboard/internal/model"
	"github.com/gometeo/dashboard/internal/owm"
)

// MsgUnknown - сообщение для ошибок без собственного текста
const MsgUnknown = "Произошла ошибка"

var (
	ErrEmptyCity        = errors.New("city name is empty")
	ErrNoCurrentWeather = errors.New("no city is displayed")
)

// WeatherSource - три независимых запроса к погодному API
type WeatherSource interface {
	CurrentWeather(ctx context.Context, city string) (model.CurrentWeather, error)
	Forecast(ctx context.Context, city string) ([]model.ForecastDay, error)
	HourlyForecast(ctx context.Context, city string) ([]model.HourlyPoint, error)
}

// State - снимок состояния экрана
type State struct {
	Current  *model.CurrentWeather `json:"current"`
	Forecast []model.ForecastDay   `json:"forecast"`
	Hourly   []model.HourlyPoint   `json:"hourly"`
	Loading  bool                  `json:"loading"`
	Error    string                `json:"error,omitempty"`
}

func (s State) clone() State {
	out := State{
		Forecast: append([]model.ForecastDay{}, s.Forecast...),
		Hourly:   append([]model.HourlyPoint{}, s.Hourly...),
		Loading:  s.Loading,
		Error:    s.Error,
	}
	if s.Current != nil {
		cw := *s.Current
		out.Current = &cw
	}
	return out
}

type Dashboard struct {
	source    WeatherSource
	store     favorites.Store
	publisher events.Publisher
	logger    *slog.Logger

	mu         sync.Mutex
	state      State
	saved      []model.SavedCity
	generation uint64
	cancel     context.CancelFunc

	// favMu упорядочивает изменение избранного вместе с записью в хранилище
	favMu sync.Mutex
}

type Option func(*Dashboard)

func WithPublisher(p events.Publisher) Option {
	return func(d *Dashboard) { d.publisher = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = logger }
}

// New создаёт дашборд и читает избранное из хранилища.
// Недоступное хранилище не мешает старту: список начинается пустым.
func New(ctx context.Context, source WeatherSource, store favorites.Store, opts ...Option) *Dashboard {
	d := &Dashboard{
		source:    source,
		store:     store,
		publisher: events.Nop{},
		logger:    slog.Default(),
		state: State{
			Forecast: []model.ForecastDay{},
			Hourly:   []model.HourlyPoint{},
		},
	}
	for _, opt := range opts {
		opt(d)
	}

	saved, err := store.Load(ctx)
	if err != nil {
		d.logger.Error("Не удалось загрузить избранное", "error", err)
		saved = nil
	}
	d.saved = favorites.Dedup(saved)
	d.logger.Info("Избранное загружено", "count", len(d.saved))

	return d
}

type searchResult struct {
	current  model.CurrentWeather
	forecast []model.ForecastDay
	hourly   []model.HourlyPoint
}

// Search запрашивает текущую погоду, прогноз и почасовой прогноз параллельно.
// Либо все три ответа применяются вместе, либо состояние сбрасывается с ошибкой.
// Новый поиск отменяет предыдущий; результат устаревшего поиска отбрасывается.
func (d *Dashboard) Search(ctx context.Context, city string) (State, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return d.State(), ErrEmptyCity
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.generation++
	gen := d.generation
	d.cancel = cancel
	d.state.Loading = true
	d.state.Error = ""
	d.mu.Unlock()

	d.logger.Info("Поиск погоды", "city", city)

	res, err := d.fetch(searchCtx, city)

	d.mu.Lock()
	if gen != d.generation {
		// Нас обогнал более новый поиск - его состояние не трогаем
		snapshot := d.state.clone()
		d.mu.Unlock()
		metrics.Searches.WithLabelValues("superseded").Inc()
		d.logger.Debug("Результат устаревшего поиска отброшен", "city", city)
		return snapshot, nil
	}

	d.cancel = nil
	d.state.Loading = false
	if err != nil {
		d.state.Current = nil
		d.state.Forecast = []model.ForecastDay{}
		d.state.Hourly = []model.HourlyPoint{}
		d.state.Error = errorMessage(err)
	} else {
		cw := res.current
		d.state.Current = &cw
		d.state.Forecast = res.forecast
		d.state.Hourly = res.hourly
	}
	snapshot := d.state.clone()
	d.mu.Unlock()

	if err != nil {
		metrics.Searches.WithLabelValues("error").Inc()
		d.logger.Warn("Поиск не удался", "city", city, "error", err)
		return snapshot, nil
	}

	metrics.Searches.WithLabelValues("ok").Inc()
	d.logger.Info("Погода получена",
		"city", res.current.City,
		"country", res.current.Country,
		"temp", res.current.Temperature)

	obs := model.NewObservation(uuid.NewString(), res.current, model.SourceSearch)
	if err := d.publisher.Publish(ctx, obs); err != nil {
		d.logger.Warn("Не удалось отправить наблюдение", "city", obs.City, "error", err)
	}

	return snapshot, nil
}

// fetch - соединение трёх запросов: первый отказ отменяет остальные
func (d *Dashboard) fetch(ctx context.Context, city string) (searchResult, error) {
	var res searchResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cw, err := d.source.CurrentWeather(gctx, city)
		res.current = cw
		return err
	})
	g.Go(func() error {
		days, err := d.source.Forecast(gctx, city)
		res.forecast = days
		return err
	})
	g.Go(func() error {
		points, err := d.source.HourlyForecast(gctx, city)
		res.hourly = points
		return err
	})

	if err := g.Wait(); err != nil {
		return searchResult{}, err
	}
	if res.forecast == nil {
		res.forecast = []model.ForecastDay{}
	}
	if res.hourly == nil {
		res.hourly = []model.HourlyPoint{}
	}
	return res, nil
}

func errorMessage(err error) string {
	if msg := owm.UserMessage(err); msg != "" {
		return msg
	}
	return MsgUnknown
}

// State возвращает копию текущего состояния
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.clone()
}

// DismissError закрывает сообщение об ошибке
func (d *Dashboard) DismissError() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Error = ""
}

// Favorites возвращает копию списка избранного
func (d *Dashboard) Favorites() []model.SavedCity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.SavedCity{}, d.saved...)
}

// IsCurrentCitySaved вычисляется при каждом вызове, нигде не хранится
func (d *Dashboard) IsCurrentCitySaved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isCurrentSavedLocked()
}

func (d *Dashboard) isCurrentSavedLocked() bool {
	return d.state.Current != nil && favorites.Contains(d.saved, d.state.Current.Key())
}

// ToggleSave добавляет текущий город в избранное или убирает его оттуда.
// Возвращает true, если город теперь сохранён.
func (d *Dashboard) ToggleSave(ctx context.Context) (bool, error) {
	d.favMu.Lock()
	defer d.favMu.Unlock()

	d.mu.Lock()
	if d.state.Current == nil {
		d.mu.Unlock()
		return false, ErrNoCurrentWeather
	}
	next, saved := favorites.Toggle(d.saved, model.SavedCityFrom(*d.state.Current))
	d.saved = next
	d.mu.Unlock()

	d.persist(ctx, next)
	return saved, nil
}

// RemoveCity убирает город из избранного. Отсутствующий город - ничего не делаем.
func (d *Dashboard) RemoveCity(ctx context.Context, target model.SavedCity) bool {
	d.favMu.Lock()
	defer d.favMu.Unlock()

	d.mu.Lock()
	next, removed := favorites.Remove(d.saved, target.Key())
	if removed {
		d.saved = next
	}
	d.mu.Unlock()

	if removed {
		d.persist(ctx, next)
	}
	return removed
}

// persist перезаписывает список в хранилище. Ошибка записи не откатывает список в памяти.
func (d *Dashboard) persist(ctx context.Context, cities []model.SavedCity) {
	if err := d.store.Save(ctx, cities); err != nil {
		metrics.FavoritesWrites.WithLabelValues("error").Inc()
		d.logger.Error("Не удалось сохранить избранное", "count", len(cities), "error", err)
		return
	}
	metrics.FavoritesWrites.WithLabelValues("ok").Inc()
	d.logger.Info("Избранное сохранено", "count", len(cities))
}
