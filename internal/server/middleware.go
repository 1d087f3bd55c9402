// Package server — middleware.go содержит промежуточные обработчики HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"studyhub.ru/gamification/internal/common"
)

// statusRecorder запоминает код ответа для лога запроса.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// recoverMiddleware перехватывает панику обработчика: сервис отвечает 500
// и продолжает работать.
func recoverMiddleware(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(logrus.Fields{
						"panic":  rec,
						"path":   r.URL.Path,
						"method": r.Method,
					}).Error("Паника в HTTP-обработчике")
					http.Error(w, `{"status":"error","error":"внутренняя ошибка сервиса"}`,
						http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// logMiddleware пишет строку лога на каждый запрос.
func logMiddleware(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("HTTP-запрос")
		})
	}
}

// internalAuthMiddleware проверяет служебный токен платформы.
// В конфигурации хранится bcrypt-хеш; сам токен по проводу приходит
// в заголовке X-Internal-Token.
func internalAuthMiddleware(tokenHash string, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Internal-Token")
			if token == "" {
				common.WriteError(w, log, common.ErrInvalidToken)
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				common.WriteError(w, log, common.ErrInvalidToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
