package favorites

import (
	"testing"

	"github.com/gometeo/dashboard/internal/model"
)

var (
	london = model.SavedCity{Name: "London", Country: "GB", Lat: 51.5, Lon: -0.12}
	moscow = model.SavedCity{Name: "Москва", Country: "RU", Lat: 55.75, Lon: 37.61}
)

func TestToggleIsInvolution(t *testing.T) {
	start := []model.SavedCity{moscow}

	added, saved := Toggle(start, london)
	if !saved || len(added) != 2 || added[1] != london {
		t.Fatalf("добавление: saved=%v list=%v", saved, added)
	}

	back, saved := Toggle(added, london)
	if saved || len(back) != 1 || back[0] != moscow {
		t.Fatalf("удаление: saved=%v list=%v", saved, back)
	}

	if len(start) != 1 {
		t.Fatalf("исходный список изменён: %v", start)
	}
}

func TestToggleNeverDuplicates(t *testing.T) {
	var list []model.SavedCity
	for i := 0; i < 7; i++ {
		list, _ = Toggle(list, london)
		list, _ = Toggle(list, moscow)
	}
	if len(Dedup(list)) != len(list) {
		t.Fatalf("дубликаты в списке: %v", list)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	list := []model.SavedCity{london, moscow}
	out, removed := Remove(list, model.CityKey{Name: "Paris", Country: "FR"})
	if removed || len(out) != 2 || out[0] != london || out[1] != moscow {
		t.Fatalf("removed=%v out=%v", removed, out)
	}
}

func TestKeyIsTupleNotConcatenation(t *testing.T) {
	a := model.SavedCity{Name: "New", Country: "York"}
	b := model.SavedCity{Name: "NewYork", Country: ""}

	list := []model.SavedCity{a}
	if Contains(list, b.Key()) {
		t.Fatal("ключи New/York и NewYork/ не должны совпадать")
	}
	if !Contains(list, a.Key()) {
		t.Fatal("город должен находиться по своему ключу")
	}
}

func TestDedupKeepsFirst(t *testing.T) {
	other := london
	other.Lat = 0
	out := Dedup([]model.SavedCity{london, moscow, other})
	if len(out) != 2 || out[0] != london || out[1] != moscow {
		t.Fatalf("out = %v", out)
	}
}
