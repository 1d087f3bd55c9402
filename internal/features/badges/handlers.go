// Package badges — handlers.go содержит HTTP-обработчики бейджей.
package badges

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/common"
)

// Handler обрабатывает HTTP-запросы к бейджам.
type Handler struct {
	service *Service
	log     *logrus.Logger
}

// NewHandler создаёт обработчик бейджей.
func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterPublic вешает маршруты бейджей.
// Идентификация пользователя передаётся платформой в пути: этот сервис
// не ведёт собственных сессий.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/users/{user_id:[0-9]+}/badges/available", h.handleAvailable).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id:[0-9]+}/badges", h.handleMyBadges).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id:[0-9]+}/badges/progress", h.handleProgress).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id:[0-9]+}/badges/{badge_id:[0-9]+}", h.handleDetails).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id:[0-9]+}/badges/{badge_id:[0-9]+}/feature", h.handleFeature).Methods(http.MethodPost)
	r.HandleFunc("/users/{user_id:[0-9]+}/badges/{badge_id:[0-9]+}/feature", h.handleUnfeature).Methods(http.MethodDelete)
}

// RegisterInternal вешает внутренние маршруты: ручная выдача бейджа и
// полная перепроверка. Защищаются токеном на уровне сервера.
func (h *Handler) RegisterInternal(r *mux.Router) {
	r.HandleFunc("/badges/award", h.handleInternalAward).Methods(http.MethodPost)
	r.HandleFunc("/badges/check", h.handleInternalCheck).Methods(http.MethodPost)
}

func pathIDs(r *http.Request) (userID, badgeID int64, ok bool) {
	vars := mux.Vars(r)
	userID, ok = common.PathInt64(vars, "user_id")
	if !ok {
		return 0, 0, false
	}
	badgeID, ok = common.PathInt64(vars, "badge_id")
	return userID, badgeID, ok
}

// handleAvailable отдаёт каталог с отметками о получении.
func (h *Handler) handleAvailable(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.PathInt64(mux.Vars(r), "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	category := r.URL.Query().Get("category")
	rarity := r.URL.Query().Get("rarity")

	page, err := h.service.Available(r.Context(), userID, category, rarity)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

// handleMyBadges отдаёт заработанные бейджи пользователя.
func (h *Handler) handleMyBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.PathInt64(mux.Vars(r), "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	page, err := h.service.MyBadges(r.Context(), userID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

// handleProgress отдаёт прогресс к незаработанным бейджам.
func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.PathInt64(mux.Vars(r), "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	progress, err := h.service.ProgressAll(r.Context(), userID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}

	// "Почти у цели" — счётные бейджи с прогрессом от половины и выше.
	// Список уже отсортирован по убыванию процента.
	almostThere := []*BadgeProgress{}
	for _, p := range progress {
		if p.Progress.Percentage >= 50 {
			almostThere = append(almostThere, p)
		}
	}

	common.WriteJSON(w, http.StatusOK, map[string]any{
		"progress":       progress,
		"almost_there":   almostThere,
		"total_unearned": len(progress),
	})
}

// handleDetails отдаёт карточку бейджа.
func (h *Handler) handleDetails(w http.ResponseWriter, r *http.Request) {
	userID, badgeID, ok := pathIDs(r)
	if !ok {
		common.WriteBadRequest(w, "некорректные идентификаторы")
		return
	}
	details, err := h.service.BadgeDetails(r.Context(), userID, badgeID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, details)
}

// handleFeature закрепляет бейдж на профиле.
func (h *Handler) handleFeature(w http.ResponseWriter, r *http.Request) {
	userID, badgeID, ok := pathIDs(r)
	if !ok {
		common.WriteBadRequest(w, "некорректные идентификаторы")
		return
	}
	if err := h.service.Feature(r.Context(), userID, badgeID); err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"featured": true})
}

// handleInternalAward выдаёт бейдж напрямую, минуя критерии.
func (h *Handler) handleInternalAward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  int64 `json:"user_id"`
		BadgeID int64 `json:"badge_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteBadRequest(w, "некорректное тело запроса")
		return
	}
	if req.UserID <= 0 || req.BadgeID <= 0 {
		common.WriteBadRequest(w, "user_id и badge_id обязательны")
		return
	}
	badge, fresh, err := h.service.AwardBadge(r.Context(), req.UserID, req.BadgeID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{
		"badge":           badge,
		"already_awarded": !fresh,
	})
}

// handleInternalCheck перепроверяет все бейджи пользователя.
func (h *Handler) handleInternalCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteBadRequest(w, "некорректное тело запроса")
		return
	}
	if req.UserID <= 0 {
		common.WriteBadRequest(w, "user_id обязателен")
		return
	}
	awarded, err := h.service.EvaluateAll(r.Context(), req.UserID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	if awarded == nil {
		awarded = []*Badge{}
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{
		"new_badges": awarded,
		"count":      len(awarded),
	})
}

// handleUnfeature открепляет бейдж с профиля.
func (h *Handler) handleUnfeature(w http.ResponseWriter, r *http.Request) {
	userID, badgeID, ok := pathIDs(r)
	if !ok {
		common.WriteBadRequest(w, "некорректные идентификаторы")
		return
	}
	if err := h.service.Unfeature(r.Context(), userID, badgeID); err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"featured": false})
}
