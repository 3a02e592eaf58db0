package favorites

import "github.com/gometeo/dashboard/internal/model"

// Contains сообщает, есть ли город с таким ключом в списке
func Contains(cities []model.SavedCity, key model.CityKey) bool {
	for _, c := range cities {
		if c.Key() == key {
			return true
		}
	}
	return false
}

// Remove возвращает новый список без города с ключом key и признак удаления.
// Исходный срез не меняется.
func Remove(cities []model.SavedCity, key model.CityKey) ([]model.SavedCity, bool) {
	out := make([]model.SavedCity, 0, len(cities))
	removed := false
	for _, c := range cities {
		if c.Key() == key {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out, removed
}

// Toggle удаляет город, если он уже есть, иначе добавляет в конец.
// Возвращает новый список и true, если город теперь сохранён.
func Toggle(cities []model.SavedCity, city model.SavedCity) ([]model.SavedCity, bool) {
	if out, removed := Remove(cities, city.Key()); removed {
		return out, false
	}
	out := make([]model.SavedCity, 0, len(cities)+1)
	out = append(out, cities...)
	return append(out, city), true
}

// Dedup оставляет первое вхождение каждого ключа, сохраняя порядок
func Dedup(cities []model.SavedCity) []model.SavedCity {
	seen := make(map[model.CityKey]struct{}, len(cities))
	out := make([]model.SavedCity, 0, len(cities))
	for _, c := range cities {
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	return out
}
