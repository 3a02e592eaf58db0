package model

import "time"

// CurrentWeather - текущая погода в городе, один ответ /weather
type CurrentWeather struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temperature int     `json:"temperature"`
	FeelsLike   int     `json:"feelsLike"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	IconURL     string  `json:"iconUrl"`
	Humidity    int     `json:"humidity"`
	WindSpeed   int     `json:"windSpeed"` // км/ч
	Pressure    int     `json:"pressure"`
	Timestamp   int64   `json:"timestamp"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	WeatherMain string  `json:"weatherMain"`
}

// Key возвращает ключ уникальности города
func (w CurrentWeather) Key() CityKey {
	return CityKey{Name: w.City, Country: w.Country}
}

// ForecastDay - один день прогноза (полуденное значение + min/max за день)
type ForecastDay struct {
	Date        string `json:"date"`
	Temp        int    `json:"temp"`
	TempMin     int    `json:"tempMin"`
	TempMax     int    `json:"tempMax"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IconURL     string `json:"iconUrl"`
	Humidity    int    `json:"humidity"`
}

// HourlyPoint - одна трёхчасовая точка почасового прогноза
type HourlyPoint struct {
	Time    string `json:"time"`
	Temp    int    `json:"temp"`
	Icon    string `json:"icon"`
	IconURL string `json:"iconUrl"`
}

// Observation - структура, которая летает через Kafka и хранится в Postgres
type Observation struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature int       `json:"temperature"`
	FeelsLike   int       `json:"feelsLike"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	WindSpeed   int       `json:"windSpeed"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Source      string    `json:"source"`
	ObservedAt  time.Time `json:"observedAt"`
}

// Источники наблюдений
const (
	SourceSearch    = "search"
	SourceCollector = "collector"
)

// NewObservation строит наблюдение из текущей погоды
func NewObservation(id string, w CurrentWeather, source string) Observation {
	observedAt := time.Now().UTC()
	if w.Timestamp > 0 {
		observedAt = time.Unix(w.Timestamp, 0).UTC()
	}
	return Observation{
		ID:          id,
		City:        w.City,
		Country:     w.Country,
		Temperature: w.Temperature,
		FeelsLike:   w.FeelsLike,
		Description: w.Description,
		Humidity:    w.Humidity,
		WindSpeed:   w.WindSpeed,
		Lat:         w.Lat,
		Lon:         w.Lon,
		Source:      source,
		ObservedAt:  observedAt,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
