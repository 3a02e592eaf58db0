package favorites

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gometeo/dashboard/internal/model"
)

// File хранит список в одном JSON-файле
type File struct {
	path   string
	logger *slog.Logger
}

func NewFile(path string, logger *slog.Logger) *File {
	return &File{path: path, logger: logger}
}

func (f *File) Load(_ context.Context) ([]model.SavedCity, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.SavedCity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", f.path, err)
	}
	return decode(data, f.logger), nil
}

// Save пишет во временный файл и переименовывает, чтобы не оставить файл наполовину записанным
func (f *File) Save(_ context.Context, cities []model.SavedCity) error {
	data, err := encode(cities)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".saved-cities-*")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка записи: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", f.path, err)
	}

	f.logger.Debug("Избранное сохранено в файл", "path", f.path, "count", len(cities))
	return nil
}

func (f *File) Close() error { return nil }
