// Package leaderboard — handlers.go содержит HTTP-обработчики рейтинга.
package leaderboard

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/common"
)

// Handler обрабатывает HTTP-запросы к рейтингу.
type Handler struct {
	service *Service
	log     *logrus.Logger
}

// NewHandler создаёт обработчик рейтинга.
func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterPublic вешает маршруты рейтинга.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/leaderboard", h.handleGlobal).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard/department/{department}", h.handleDepartment).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id:[0-9]+}/rank", h.handleRank).Methods(http.MethodGet)
}

// viewerID читает необязательный идентификатор смотрящего.
// Платформа передаёт его, чтобы пометить строку "это вы" и
// показать позицию вне топа.
func viewerID(r *http.Request) int64 {
	raw := r.URL.Query().Get("viewer_id")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// handleGlobal отдаёт глобальный рейтинг.
func (h *Handler) handleGlobal(w http.ResponseWriter, r *http.Request) {
	limit := common.QueryInt(r, "limit", 0)
	period := r.URL.Query().Get("period")

	board, err := h.service.Global(r.Context(), viewerID(r), limit, period)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, board)
}

// handleDepartment отдаёт рейтинг департамента.
func (h *Handler) handleDepartment(w http.ResponseWriter, r *http.Request) {
	department := mux.Vars(r)["department"]
	if department == "" {
		common.WriteBadRequest(w, "департамент обязателен")
		return
	}
	limit := common.QueryInt(r, "limit", 0)

	board, err := h.service.Department(r.Context(), viewerID(r), department, limit)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, board)
}

// handleRank отдаёт позицию одного пользователя в глобальном рейтинге.
func (h *Handler) handleRank(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.PathInt64(mux.Vars(r), "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	rank, err := h.service.GlobalRank(r.Context(), userID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"rank":    rank,
	})
}
