package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gometeo/dashboard/internal/favorites"
	"github.com/gometeo/dashboard/internal/model"
)

const (
	mapZoom         = 10
	sidebarParallel = 4
)

// MapView - куда центрировать карту
type MapView struct {
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Zoom        int     `json:"zoom"`
	Temperature int     `json:"temperature"`
}

// View - всё, что нужно экрану за один запрос
type View struct {
	State
	SavedCities []model.SavedCity `json:"savedCities"`
	IsSaved     bool              `json:"isSaved"`
	Map         *MapView          `json:"map"`
}

func (d *Dashboard) View() View {
	d.mu.Lock()
	st := d.state.clone()
	d.mu.Unlock()
	return d.ViewOf(st)
}

// ViewOf строит экран из заданного снимка состояния (например, того, что вернул Search)
// и текущего списка избранного.
func (d *Dashboard) ViewOf(st State) View {
	d.mu.Lock()
	saved := append([]model.SavedCity{}, d.saved...)
	d.mu.Unlock()

	v := View{
		State:       st.clone(),
		SavedCities: saved,
		IsSaved:     st.Current != nil && favorites.Contains(saved, st.Current.Key()),
	}
	if cw := st.Current; cw != nil {
		v.Map = &MapView{
			City:        cw.City,
			Lat:         cw.Lat,
			Lon:         cw.Lon,
			Zoom:        mapZoom,
			Temperature: cw.Temperature,
		}
	}
	return v
}

// CityCard - карточка избранного города в боковой панели
type CityCard struct {
	City        model.SavedCity `json:"city"`
	Temperature *int            `json:"temperature,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	IconURL     string          `json:"iconUrl,omitempty"`
	Description string          `json:"description,omitempty"`
	Active      bool            `json:"active"`
}

// SidebarCards запрашивает текущую погоду для каждого избранного города.
// Ошибка по одному городу даёт карточку без погоды и не мешает остальным.
func (d *Dashboard) SidebarCards(ctx context.Context) []CityCard {
	cities := d.Favorites()

	var current *model.CityKey
	if st := d.State(); st.Current != nil {
		key := st.Current.Key()
		current = &key
	}

	cards := make([]CityCard, len(cities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sidebarParallel)

	for i, city := range cities {
		i, city := i, city
		cards[i] = CityCard{City: city, Active: current != nil && city.Key() == *current}
		g.Go(func() error {
			cw, err := d.source.CurrentWeather(gctx, city.Name)
			if err != nil {
				d.logger.Warn("Нет погоды для избранного города", "city", city.Name, "error", err)
				return nil
			}
			temp := cw.Temperature
			cards[i].Temperature = &temp
			cards[i].Icon = cw.Icon
			cards[i].IconURL = cw.IconURL
			cards[i].Description = cw.Description
			return nil
		})
	}
	_ = g.Wait()

	return cards
}
