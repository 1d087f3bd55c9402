// Package notifications — handlers.go содержит HTTP-обработчики уведомлений.
package notifications

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/common"
)

// Handler обрабатывает HTTP-запросы к уведомлениям.
type Handler struct {
	service *Service
	log     *logrus.Logger
}

// NewHandler создаёт обработчик уведомлений.
func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterPublic вешает маршруты уведомлений.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/users/{user_id:[0-9]+}/notifications", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/users/{user_id:[0-9]+}/notifications/{notification_id:[0-9]+}/read", h.handleMarkRead).Methods(http.MethodPost)
	r.HandleFunc("/users/{user_id:[0-9]+}/notifications/read-all", h.handleMarkAllRead).Methods(http.MethodPost)
}

// handleList отдаёт страницу уведомлений пользователя.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.PathInt64(mux.Vars(r), "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	page := common.QueryInt(r, "page", 1)
	perPage := common.QueryInt(r, "per_page", 20)

	result, err := h.service.List(r.Context(), userID, page, perPage)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, result)
}

// handleMarkRead помечает одно уведомление прочитанным.
func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, ok := common.PathInt64(vars, "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	notificationID, ok := common.PathInt64(vars, "notification_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор уведомления")
		return
	}
	if err := h.service.MarkRead(r.Context(), userID, notificationID); err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"read": true})
}

// handleMarkAllRead помечает все уведомления пользователя прочитанными.
func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.PathInt64(mux.Vars(r), "user_id")
	if !ok {
		common.WriteBadRequest(w, "некорректный идентификатор пользователя")
		return
	}
	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"read": true})
}
