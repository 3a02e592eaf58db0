package owm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/gometeo/dashboard/internal/metrics"
	"github.com/gometeo/dashboard/internal/model"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	iconBaseURL    = "https://openweathermap.org/img/wn/"

	forecastDays = 5
	hourlyPoints = 8 // 24 часа по 3 часа
)

// Client - клиент OpenWeatherMap: текущая погода, прогноз на 5 дней и почасовой прогноз.
// Повторов и кэширования нет: каждый вызов - один запрос.
type Client struct {
	apiKey     string
	baseURL    string
	lang       string
	httpClient *http.Client
	limiter    *rate.Limiter
	location   *time.Location
	logger     *slog.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLanguage(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

// WithLocation задаёт часовой пояс, в котором группируются дни и форматируется время
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.location = loc }
}

// WithRateLimit ограничивает исходящие запросы. rps <= 0 отключает ограничение.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		lang:    "ru",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		location: time.Local,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IconURL возвращает адрес картинки иконки погоды
func IconURL(code string) string {
	if code == "" {
		return ""
	}
	return iconBaseURL + code + "@2x.png"
}

type weatherEntry struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []weatherEntry `json:"weather"`
}

// bucket - одна трёхчасовая запись прогноза
type bucket struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []weatherEntry `json:"weather"`
}

type forecastResponse struct {
	List []bucket `json:"list"`
}

func firstWeather(entries []weatherEntry) weatherEntry {
	if len(entries) == 0 {
		return weatherEntry{}
	}
	return entries[0]
}

// CurrentWeather получает текущую погоду в городе
func (c *Client) CurrentWeather(ctx context.Context, city string) (model.CurrentWeather, error) {
	var resp currentResponse
	if err := c.get(ctx, "current", "/weather", city, MsgCurrentFailed, &resp); err != nil {
		return model.CurrentWeather{}, err
	}

	w := firstWeather(resp.Weather)
	return model.CurrentWeather{
		City:        resp.Name,
		Country:     resp.Sys.Country,
		Temperature: round(resp.Main.Temp),
		FeelsLike:   round(resp.Main.FeelsLike),
		Description: w.Description,
		Icon:        w.Icon,
		IconURL:     IconURL(w.Icon),
		Humidity:    round(resp.Main.Humidity),
		WindSpeed:   round(resp.Wind.Speed * 3.6), // м/с в км/ч
		Pressure:    round(resp.Main.Pressure),
		Timestamp:   resp.Dt,
		Lat:         resp.Coord.Lat,
		Lon:         resp.Coord.Lon,
		WeatherMain: w.Main,
	}, nil
}

// Forecast получает прогноз на 5 дней, сгруппированный по датам
func (c *Client) Forecast(ctx context.Context, city string) ([]model.ForecastDay, error) {
	var resp forecastResponse
	if err := c.get(ctx, "forecast", "/forecast", city, MsgForecastFailed, &resp); err != nil {
		return nil, err
	}
	return dailyForecast(resp.List, c.location, forecastDays), nil
}

// HourlyForecast получает прогноз на ближайшие 24 часа
func (c *Client) HourlyForecast(ctx context.Context, city string) ([]model.HourlyPoint, error) {
	var resp forecastResponse
	if err := c.get(ctx, "hourly", "/forecast", city, MsgHourlyFailed, &resp); err != nil {
		return nil, err
	}
	return hourlyForecast(resp.List, c.location, hourlyPoints), nil
}

func (c *Client) get(ctx context.Context, op, path, city, failMsg string, dst any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if e, ok := err.(*Error); ok && e.Kind == ErrNotFound {
				outcome = "not_found"
			}
		}
		metrics.OWMRequests.WithLabelValues(op, outcome).Inc()
		metrics.OWMLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	fail := func(status int, cause error) error {
		return &Error{Kind: ErrRequestFailed, Op: op, Status: status, Message: failMsg, Err: cause}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, fmt.Errorf("rate limit wait canceled: %w", err))
		}
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	params.Set("lang", c.lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fail(0, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("OpenWeatherMap вернул ошибку",
			"op", op,
			"city", city,
			"status", resp.StatusCode,
			"body", string(body))

		if resp.StatusCode == http.StatusNotFound {
			return &Error{Kind: ErrNotFound, Op: op, Status: resp.StatusCode, Message: MsgNotFound}
		}
		return fail(resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("ошибка десериализации: %w", err))
	}
	return nil
}

// round округляет как Math.round: половина всегда вверх (-2.5 -> -2)
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
