// Package common — http.go содержит помощники для JSON-ответов.
// Все обработчики отдают единый конверт:
//
//	{"status": "success", "data": {...}}
//	{"status": "error", "error": "сообщение"}
package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// WriteJSON пишет успешный ответ в едином конверте.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   data,
	})
}

// WriteError пишет ответ с ошибкой, подбирая HTTP-статус по типу ошибки.
// Известные ошибки уходят клиенту как есть, остальные скрываются
// за общим сообщением, а детали остаются в логе.
func WriteError(w http.ResponseWriter, log *logrus.Logger, err error) {
	status := http.StatusInternalServerError
	message := "внутренняя ошибка сервиса"

	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrBadgeNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, ErrUnknownAction),
		errors.Is(err, ErrUnknownEvent),
		errors.Is(err, ErrBadgeNotOwned),
		errors.Is(err, ErrMaxFeaturedBadges):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, ErrInvalidToken):
		status = http.StatusUnauthorized
		message = err.Error()
	default:
		log.WithError(err).Error("Необработанная ошибка в HTTP-обработчике")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error":  message,
	})
}

// WriteBadRequest пишет ошибку 400 с заданным сообщением.
func WriteBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error":  message,
	})
}

// QueryInt читает целочисленный query-параметр с значением по умолчанию.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// PathInt64 читает int64 из переменной пути gorilla/mux.
func PathInt64(vars map[string]string, name string) (int64, bool) {
	raw, ok := vars[name]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
