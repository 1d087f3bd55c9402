// Package server собирает HTTP-маршруты сервиса геймификации.
//
// Поверхность API:
//   - /api/*          — публичные чтения (рейтинг, бейджи, репутация)
//   - /api/internal/* — служебные записи платформы (события, начисления),
//     защищены служебным токеном
//   - /health         — проверка живости
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/common"
	"studyhub.ru/gamification/internal/config"
	"studyhub.ru/gamification/internal/features/badges"
	"studyhub.ru/gamification/internal/features/leaderboard"
	"studyhub.ru/gamification/internal/features/notifications"
	"studyhub.ru/gamification/internal/features/reputation"
)

// Handlers — обработчики всех фич для сборки маршрутов.
type Handlers struct {
	Reputation    *reputation.Handler
	Badges        *badges.Handler
	Leaderboard   *leaderboard.Handler
	Notifications *notifications.Handler
	Events        *EventDispatcher
}

// New собирает http.Server со всеми маршрутами и промежуточными
// обработчиками.
func New(cfg *config.Config, h Handlers, log *logrus.Logger) *http.Server {
	root := mux.NewRouter()
	root.Use(recoverMiddleware(log))
	root.Use(logMiddleware(log))

	root.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	// Служебные записи платформы — за токеном.
	// Регистрируются раньше публичного сабраутера, чтобы префикс
	// /api/internal не перехватывался им.
	internal := root.PathPrefix("/api/internal").Subrouter()
	internal.Use(internalAuthMiddleware(cfg.InternalTokenHash, log))
	internal.HandleFunc("/events", h.Events.handleEvent).Methods(http.MethodPost)
	internal.HandleFunc("/users", h.Events.handleRegister).Methods(http.MethodPost)
	h.Reputation.RegisterInternal(internal)
	h.Badges.RegisterInternal(internal)

	// Публичные чтения
	api := root.PathPrefix("/api").Subrouter()
	h.Reputation.RegisterPublic(api)
	h.Badges.RegisterPublic(api)
	h.Leaderboard.RegisterPublic(api)
	h.Notifications.RegisterPublic(api)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      root,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}
}

// handleHealth отвечает на проверку живости.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]any{"alive": true})
}
