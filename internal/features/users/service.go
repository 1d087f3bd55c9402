// Package users — service.go содержит бизнес-логику учёта пользователей:
// регистрация, счётчики активности и стрик ежедневных входов.
package users

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service управляет пользователями и их счётчиками.
type Service struct {
	repo *Repository
	loc  *time.Location // Часовой пояс для календарных дней стрика
}

// NewService создаёт сервис пользователей.
func NewService(repo *Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc}
}

// Register зеркалирует пользователя платформы. Идемпотентна.
func (s *Service) Register(ctx context.Context, p RegisterParams) error {
	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("ошибка регистрации пользователя: %w", err)
	}
	log.WithFields(log.Fields{
		"user_id":    p.UserID,
		"department": p.Department,
	}).Info("Пользователь зарегистрирован в сервисе геймификации")
	return nil
}

// Get возвращает пользователя по платформенному ID.
func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// BumpCounter увеличивает счётчик активности на delta (обычно 1).
func (s *Service) BumpCounter(ctx context.Context, userID int64, c Counter, delta int) error {
	return s.repo.IncrementCounter(ctx, userID, c, delta)
}

// RecordLogin применяет вход пользователя к стрику.
// Возвращает true, если стрик изменился — тогда вызывающий код должен
// перепроверить бейджи за последовательность входов.
func (s *Service) RecordLogin(ctx context.Context, userID int64) (bool, error) {
	u, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}

	now := time.Now().In(s.loc)
	upd := NextStreak(u.LoginStreak, u.LongestStreak, u.LastLogin, now)
	if !upd.Changed {
		// Тот же день — фиксируем только время входа
		return false, s.repo.TouchLastLogin(ctx, userID, now)
	}

	if err := s.repo.UpdateStreak(ctx, userID, upd.Streak, upd.Longest, now); err != nil {
		return false, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"streak":  upd.Streak,
	}).Debug("Стрик входов обновлён")
	return true, nil
}

// ResetStaleStreaks обнуляет стрики пользователей, пропустивших день.
// Запускается кроном после полуночи. Возвращает число сброшенных стриков.
func (s *Service) ResetStaleStreaks(ctx context.Context) (int, error) {
	holders, err := s.repo.GetStreakHolders(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().In(s.loc)
	reset := 0
	for _, u := range holders {
		if !IsStreakStale(u.LoginStreak, u.LastLogin, now) {
			continue
		}
		if err := s.repo.ResetStreak(ctx, u.UserID); err != nil {
			log.WithError(err).WithField("user_id", u.UserID).Error("Ошибка сброса стрика")
			continue
		}
		reset++
	}

	log.WithFields(log.Fields{
		"checked": len(holders),
		"reset":   reset,
	}).Info("Ночной сброс стриков завершён")
	return reset, nil
}

// ApprovedIDs возвращает ID всех одобренных пользователей.
func (s *Service) ApprovedIDs(ctx context.Context) ([]int64, error) {
	return s.repo.GetApprovedIDs(ctx)
}
