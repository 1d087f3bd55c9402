// Package reputation — handlers.go содержит HTTP-обработчики репутации.
package reputation

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/common"
)

// Handler обрабатывает HTTP-запросы к репутации.
type Handler struct {
	service *Service
	log     *logrus.Logger
}

// NewHandler создаёт обработчик репутации.
func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterPublic вешает публичные маршруты чтения.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/reputation/levels", h.handleLevels).Methods(http.MethodGet)
	r.HandleFunc("/reputation/actions", h.handleActions).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id:[0-9]+}/reputation", h.handleOverview).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id:[0-9]+}/reputation/history", h.handleHistory).Methods(http.MethodGet)
}

// RegisterInternal вешает служебные маршруты (за токеном платформы).
func (h *Handler) RegisterInternal(r *mux.Router) {
	r.HandleFunc("/reputation/award", h.handleAward).Methods(http.MethodPost)
}

// handleLevels отдаёт статическую таблицу уровней.
func (h *Handler) handleLevels(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]any{"levels": Levels})
}

// handleActions отдаёт статическую таблицу начислений.
func (h *Handler) handleActions(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]any{"actions": Actions})
}

// handleOverview отдаёт сводку репутации пользователя.
func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.PathInt64(mux.Vars(r), "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	overview, err := h.service.Overview(r.Context(), userID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, overview)
}

// handleHistory отдаёт страницу истории начислений.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.PathInt64(mux.Vars(r), "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	page := common.QueryInt(r, "page", 1)
	perPage := common.QueryInt(r, "per_page", 20)
	action := r.URL.Query().Get("action")

	history, err := h.service.History(r.Context(), userID, action, page, perPage)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, history)
}

// handleAward принимает служебное начисление от платформы.
func (h *Handler) handleAward(w http.ResponseWriter, r *http.Request) {
	var req AwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteBadRequest(w, "некорректное тело запроса")
		return
	}
	if req.UserID <= 0 {
		common.WriteBadRequest(w, "user_id обязателен")
		return
	}
	result, err := h.service.Award(r.Context(), req)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, result)
}
