package model

// CityKey - ключ уникальности сохранённого города.
// Сравнивается как пара, а не как склеенная строка: "New"+"York" != "NewYork"+"".
type CityKey struct {
	Name    string
	Country string
}

// SavedCity - избранный город
type SavedCity struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (c SavedCity) Key() CityKey {
	return CityKey{Name: c.Name, Country: c.Country}
}

// SavedCityFrom строит избранный город из текущей погоды
func SavedCityFrom(w CurrentWeather) SavedCity {
	return SavedCity{Name: w.City, Country: w.Country, Lat: w.Lat, Lon: w.Lon}
}
