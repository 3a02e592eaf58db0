package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/gometeo/dashboard/internal/dashboard"
	"github.com/gometeo/dashboard/internal/model"
	"github.com/gometeo/dashboard/internal/storage"
)

const observationsLimit = 50

// ObservationReader - чтение сохранённых наблюдений (Postgres)
type ObservationReader interface {
	GetByCity(ctx context.Context, city string) (*model.Observation, error)
	List(ctx context.Context, limit int) ([]model.Observation, error)
	Ping(ctx context.Context) error
}

type DashboardHandler struct {
	dash         *dashboard.Dashboard
	observations ObservationReader
	logger       *slog.Logger
}

// NewDashboardHandler. observations может быть nil, если Postgres не настроен.
func NewDashboardHandler(dash *dashboard.Dashboard, observations ObservationReader, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dash:         dash,
		observations: observations,
		logger:       logger,
	}
}

// Register вешает маршруты на роутер /api/v1
func (h *DashboardHandler) Register(api *mux.Router) {
	api.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/search", h.Search).Methods(http.MethodPost)
	api.HandleFunc("/error", h.DismissError).Methods(http.MethodDelete)

	api.HandleFunc("/favorites", h.GetFavorites).Methods(http.MethodGet)
	api.HandleFunc("/favorites/toggle", h.ToggleFavorite).Methods(http.MethodPost)
	api.HandleFunc("/favorites/weather", h.GetSidebar).Methods(http.MethodGet)
	api.HandleFunc("/favorites", h.RemoveFavorite).Methods(http.MethodDelete)

	if h.observations != nil {
		api.HandleFunc("/observations", h.ListObservations).Methods(http.MethodGet)
		api.HandleFunc("/observations/{city}", h.GetObservation).Methods(http.MethodGet)
	}
}

type searchRequest struct {
	City string `json:"city"`
}

// GetDashboard возвращает всё состояние экрана
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.dash.View())
}

// Search запускает поиск погоды по городу
func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Неверный формат JSON", err.Error())
		return
	}

	// Состояние общее для всех клиентов: поиск доводим до конца, даже если клиент ушёл
	ctx := context.WithoutCancel(r.Context())
	st, err := h.dash.Search(ctx, req.City)
	if err != nil {
		if errors.Is(err, dashboard.ErrEmptyCity) {
			sendError(w, http.StatusBadRequest, "Введите название города", "")
			return
		}
		h.logger.Error("Ошибка поиска", "city", req.City, "error", err)
		sendError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", "")
		return
	}

	// Отвечаем снимком именно этого поиска, а не тем, что успел записать параллельный
	view := h.dash.ViewOf(st)
	sendJSON(w, http.StatusOK, view)

	h.logger.Info("Поиск выполнен",
		"city", req.City,
		"ok", view.Error == "",
		"duration_ms", time.Since(start).Milliseconds())
}

func (h *DashboardHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.dash.DismissError()
	sendJSON(w, http.StatusOK, h.dash.View())
}

func (h *DashboardHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.dash.Favorites())
}

// ToggleFavorite сохраняет текущий город или убирает его из избранного
func (h *DashboardHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	// Запись в хранилище не должна обрываться вместе с запросом
	saved, err := h.dash.ToggleSave(context.WithoutCancel(r.Context()))
	if errors.Is(err, dashboard.ErrNoCurrentWeather) {
		sendError(w, http.StatusConflict, "Сначала найдите город", "")
		return
	}
	if err != nil {
		h.logger.Error("Ошибка изменения избранного", "error", err)
		sendError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", "")
		return
	}

	h.logger.Info("Избранное изменено", "saved", saved)
	sendJSON(w, http.StatusOK, h.dash.View())
}

// RemoveFavorite удаляет город по паре (name, country) из тела запроса.
// Страна может быть пустой, поэтому ключ не передаётся сегментами пути.
func (h *DashboardHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	var target model.SavedCity
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		sendError(w, http.StatusBadRequest, "Неверный формат JSON", err.Error())
		return
	}
	if strings.TrimSpace(target.Name) == "" {
		sendError(w, http.StatusBadRequest, "Не указан город", "")
		return
	}

	removed := h.dash.RemoveCity(context.WithoutCancel(r.Context()), target)
	h.logger.Info("Удаление из избранного", "city", target.Name, "country", target.Country, "removed", removed)

	sendJSON(w, http.StatusOK, h.dash.Favorites())
}

// GetSidebar - карточки избранных городов с текущей погодой
func (h *DashboardHandler) GetSidebar(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.dash.SidebarCards(r.Context()))
}

func (h *DashboardHandler) ListObservations(w http.ResponseWriter, r *http.Request) {
	list, err := h.observations.List(r.Context(), observationsLimit)
	if err != nil {
		h.logger.Error("Ошибка получения наблюдений из БД", "error", err)
		sendError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", "")
		return
	}
	sendJSON(w, http.StatusOK, list)
}

func (h *DashboardHandler) GetObservation(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(mux.Vars(r)["city"])

	obs, err := h.observations.GetByCity(r.Context(), city)
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, http.StatusNotFound, "Город не найден", "")
		return
	}
	if err != nil {
		h.logger.Error("Ошибка чтения из БД", "city", city, "error", err)
		sendError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", "")
		return
	}
	sendJSON(w, http.StatusOK, obs)
}

// HealthCheck проверяет доступность сервисов
func (h *DashboardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	if h.observations != nil {
		if err := h.observations.Ping(r.Context()); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			h.logger.Error("Health check: DB недоступна", "error", err)
		} else {
			health["database"] = "healthy"
		}
	}

	status := http.StatusOK
	if health["status"] == "degraded" {
		status = http.StatusServiceUnavailable
	}

	sendJSON(w, status, health)
}

// Вспомогательные функции
func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, errorMsg, details string) {
	sendJSON(w, status, model.ErrorResponse{
		Error:   errorMsg,
		Message: details,
	})
}
