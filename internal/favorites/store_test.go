package favorites

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gometeo/dashboard/internal/config"
	"github.com/gometeo/dashboard/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// checkRoundTrip - общий контракт для всех хранилищ
func checkRoundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load пустого: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("ожидали пустой список, получили %v", got)
	}

	want := []model.SavedCity{moscow, london}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0] != moscow || got[1] != london {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Перезапись целиком
	if err := s.Save(ctx, []model.SavedCity{london}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ = s.Load(ctx)
	if len(got) != 1 || got[0] != london {
		t.Fatalf("после перезаписи: %v", got)
	}

	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	got, _ = s.Load(ctx)
	if len(got) != 0 {
		t.Fatalf("после очистки: %v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	checkRoundTrip(t, NewMemory())
}

func TestMemoryStoreCopies(t *testing.T) {
	m := NewMemory(london)
	got, _ := m.Load(context.Background())
	got[0].Name = "changed"

	again, _ := m.Load(context.Background())
	if again[0].Name != "London" {
		t.Fatal("Load должен возвращать копию")
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved-cities.json")
	checkRoundTrip(t, NewFile(path, testLogger()))
}

func TestFileStoreCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved-cities.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFile(path, testLogger()).Load(context.Background())
	if err != nil {
		t.Fatalf("битый файл не должен давать ошибку: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestFileStoreDedupsOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved-cities.json")
	data := `[{"name":"London","country":"GB","lat":1,"lon":2},{"name":"London","country":"GB","lat":3,"lon":4}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFile(path, testLogger()).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Lat != 1 {
		t.Fatalf("got %v", got)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.db")
	s, err := NewSQLite(context.Background(), path, testLogger())
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	checkRoundTrip(t, s)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.db")
	ctx := context.Background()

	s, err := NewSQLite(ctx, path, testLogger())
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.Save(ctx, []model.SavedCity{london}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	s, err = NewSQLite(ctx, path, testLogger())
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	got, err := s.Load(ctx)
	if err != nil || len(got) != 1 || got[0] != london {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, &config.Config{FavoritesBackend: "memory"}, testLogger())
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("memory: %T", s)
	}

	path := filepath.Join(t.TempDir(), "fav.json")
	s, err = Open(ctx, &config.Config{FavoritesBackend: "file", FavoritesFile: path}, testLogger())
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, ok := s.(*File); !ok {
		t.Fatalf("file: %T", s)
	}

	if _, err := Open(ctx, &config.Config{FavoritesBackend: "floppy"}, testLogger()); err == nil {
		t.Fatal("ожидали ошибку для неизвестного хранилища")
	}
}

func TestOpenUnreachableRedis(t *testing.T) {
	cfg := &config.Config{FavoritesBackend: "redis", RedisAddr: "127.0.0.1:1"}

	s, err := Open(context.Background(), cfg, testLogger())
	if err == nil {
		s.Close()
		t.Fatal("ожидали ошибку подключения к Redis")
	}
	if s != nil {
		t.Fatalf("store = %T, want nil", s)
	}
}
