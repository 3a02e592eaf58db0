package owm

import (
	"time"

	"github.com/gometeo/dashboard/internal/model"
)

const (
	dateLayout = "02.01.2006"
	timeLayout = "15:04"

	noonFrom = 11
	noonTo   = 13
)

// civilDate - календарная дата в часовом поясе отображения.
// Ключ группировки - кортеж, а не строка локали, поэтому стык годов не путается.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

// dailyForecast группирует трёхчасовые записи по датам в порядке появления и
// для первых days дат берёт полуденную запись (час в [11,13], иначе первую за день)
// и min/max температуры по всем записям даты.
func dailyForecast(list []bucket, loc *time.Location, days int) []model.ForecastDay {
	order := make([]civilDate, 0, days+1)
	groups := make(map[civilDate][]bucket)

	for _, b := range list {
		key := dateOf(time.Unix(b.Dt, 0).In(loc))
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], b)
	}

	if len(order) > days {
		order = order[:days]
	}

	out := make([]model.ForecastDay, 0, len(order))
	for _, key := range order {
		items := groups[key]

		noon := items[0]
		for _, b := range items {
			hour := time.Unix(b.Dt, 0).In(loc).Hour()
			if hour >= noonFrom && hour <= noonTo {
				noon = b
				break
			}
		}

		minTemp, maxTemp := items[0].Main.Temp, items[0].Main.Temp
		for _, b := range items[1:] {
			minTemp = min(minTemp, b.Main.Temp)
			maxTemp = max(maxTemp, b.Main.Temp)
		}

		w := firstWeather(noon.Weather)
		out = append(out, model.ForecastDay{
			Date:        time.Unix(noon.Dt, 0).In(loc).Format(dateLayout),
			Temp:        round(noon.Main.Temp),
			TempMin:     round(minTemp),
			TempMax:     round(maxTemp),
			Description: w.Description,
			Icon:        w.Icon,
			IconURL:     IconURL(w.Icon),
			Humidity:    round(noon.Main.Humidity),
		})
	}
	return out
}

// hourlyForecast берёт первые n записей как есть
func hourlyForecast(list []bucket, loc *time.Location, n int) []model.HourlyPoint {
	if len(list) > n {
		list = list[:n]
	}

	out := make([]model.HourlyPoint, 0, len(list))
	for _, b := range list {
		w := firstWeather(b.Weather)
		out = append(out, model.HourlyPoint{
			Time:    time.Unix(b.Dt, 0).In(loc).Format(timeLayout),
			Temp:    round(b.Main.Temp),
			Icon:    w.Icon,
			IconURL: IconURL(w.Icon),
		})
	}
	return out
}
