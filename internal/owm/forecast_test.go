package owm

import (
	"testing"
	"time"
)

func mkBucket(t time.Time, temp float64, icon string) bucket {
	var b bucket
	b.Dt = t.Unix()
	b.Main.Temp = temp
	b.Main.Humidity = 50
	b.Weather = []weatherEntry{{Main: "Clouds", Description: "облачно", Icon: icon}}
	return b
}

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestDailyForecastPicksNoonAndMinMax(t *testing.T) {
	list := []bucket{
		mkBucket(at(2026, 10, 18, 9), 10, "01d"),
		mkBucket(at(2026, 10, 18, 12), 14, "02d"),
		mkBucket(at(2026, 10, 18, 15), 12, "03d"),
		mkBucket(at(2026, 10, 19, 10), 8, "04d"),
		mkBucket(at(2026, 10, 19, 13), 9, "10d"),
	}

	days := dailyForecast(list, time.UTC, 5)
	if len(days) != 2 {
		t.Fatalf("len = %d, want 2", len(days))
	}

	d1 := days[0]
	if d1.Date != "18.10.2026" || d1.Temp != 14 || d1.TempMin != 10 || d1.TempMax != 14 || d1.Icon != "02d" {
		t.Errorf("day1 = %+v", d1)
	}
	if d1.IconURL != "https://openweathermap.org/img/wn/02d@2x.png" {
		t.Errorf("day1 icon url = %q", d1.IconURL)
	}

	d2 := days[1]
	if d2.Date != "19.10.2026" || d2.Temp != 9 || d2.TempMin != 8 || d2.TempMax != 9 || d2.Icon != "10d" {
		t.Errorf("day2 = %+v", d2)
	}
}

func TestDailyForecastFallsBackToFirstBucket(t *testing.T) {
	list := []bucket{
		mkBucket(at(2026, 10, 18, 18), 7, "04n"),
		mkBucket(at(2026, 10, 18, 21), 5, "01n"),
	}

	days := dailyForecast(list, time.UTC, 5)
	if len(days) != 1 {
		t.Fatalf("len = %d, want 1", len(days))
	}
	if days[0].Temp != 7 || days[0].Icon != "04n" || days[0].TempMin != 5 || days[0].TempMax != 7 {
		t.Fatalf("day = %+v", days[0])
	}
}

func TestDailyForecastLimitsToFiveDays(t *testing.T) {
	var list []bucket
	start := at(2026, 10, 18, 0)
	for i := 0; i < 8*7; i++ {
		list = append(list, mkBucket(start.Add(time.Duration(i)*3*time.Hour), float64(i), "01d"))
	}

	days := dailyForecast(list, time.UTC, 5)
	if len(days) != 5 {
		t.Fatalf("len = %d, want 5", len(days))
	}
	if days[4].Date != "22.10.2026" {
		t.Fatalf("last date = %q", days[4].Date)
	}
}

func TestDailyForecastYearBoundary(t *testing.T) {
	list := []bucket{
		mkBucket(at(2026, 12, 31, 12), 1, "13d"),
		mkBucket(at(2027, 1, 1, 12), 2, "13d"),
		mkBucket(at(2027, 1, 1, 15), -1, "13d"),
	}

	days := dailyForecast(list, time.UTC, 5)
	if len(days) != 2 {
		t.Fatalf("len = %d, want 2", len(days))
	}
	if days[0].Date != "31.12.2026" || days[1].Date != "01.01.2027" {
		t.Fatalf("dates = %q, %q", days[0].Date, days[1].Date)
	}
	if days[1].TempMin != -1 || days[1].TempMax != 2 {
		t.Fatalf("day2 = %+v", days[1])
	}
}

func TestDailyForecastUsesDisplayLocation(t *testing.T) {
	// 22:00 UTC - уже следующий день в UTC+3
	loc := time.FixedZone("MSK", 3*60*60)
	list := []bucket{
		mkBucket(at(2026, 10, 18, 19), 10, "01n"),
		mkBucket(at(2026, 10, 18, 22), 8, "01n"),
	}

	days := dailyForecast(list, loc, 5)
	if len(days) != 2 {
		t.Fatalf("len = %d, want 2", len(days))
	}
	if days[1].Date != "19.10.2026" {
		t.Fatalf("date = %q", days[1].Date)
	}
}

func TestDailyForecastEmpty(t *testing.T) {
	if days := dailyForecast(nil, time.UTC, 5); len(days) != 0 {
		t.Fatalf("days = %v", days)
	}
}

func TestHourlyForecast(t *testing.T) {
	var list []bucket
	start := at(2026, 10, 18, 9)
	for i := 0; i < 12; i++ {
		list = append(list, mkBucket(start.Add(time.Duration(i)*3*time.Hour), 10.5, "01d"))
	}

	points := hourlyForecast(list, time.UTC, 8)
	if len(points) != 8 {
		t.Fatalf("len = %d, want 8", len(points))
	}
	if points[0].Time != "09:00" || points[1].Time != "12:00" || points[7].Time != "06:00" {
		t.Fatalf("times = %q %q %q", points[0].Time, points[1].Time, points[7].Time)
	}
	if points[0].Temp != 11 {
		t.Fatalf("temp = %d, want 11", points[0].Temp)
	}

	short := hourlyForecast(list[:3], time.UTC, 8)
	if len(short) != 3 {
		t.Fatalf("len = %d, want 3", len(short))
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int{
		18:    18,
		17.5:  18,
		17.49: 17,
		-2.5:  -2,
		-2.51: -3,
		0.4:   0,
	}
	for in, want := range cases {
		if got := round(in); got != want {
			t.Errorf("round(%v) = %d, want %d", in, got, want)
		}
	}
}
