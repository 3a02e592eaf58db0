package favorites

import (
	"context"
	"sync"

	"github.com/gometeo/dashboard/internal/model"
)

// Memory - хранилище в памяти процесса
type Memory struct {
	mu     sync.Mutex
	cities []model.SavedCity
	saves  int
}

func NewMemory(initial ...model.SavedCity) *Memory {
	return &Memory{cities: append([]model.SavedCity(nil), initial...)}
}

func (m *Memory) Load(_ context.Context) ([]model.SavedCity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.SavedCity{}, m.cities...), nil
}

func (m *Memory) Save(_ context.Context, cities []model.SavedCity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities = append([]model.SavedCity{}, cities...)
	m.saves++
	return nil
}

// Saves - сколько раз список перезаписывался
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }
