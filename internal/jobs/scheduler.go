// Package jobs содержит периодические задачи сервиса геймификации.
// Планировщик — robfig/cron, часовой пояс берётся из конфигурации.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/features/badges"
	"studyhub.ru/gamification/internal/features/leaderboard"
	"studyhub.ru/gamification/internal/features/users"
)

// Scheduler управляет периодическими задачами.
type Scheduler struct {
	cron        *cron.Cron
	users       *users.Service
	badges      *badges.Service
	leaderboard *leaderboard.Service
	log         *logrus.Logger
}

// NewScheduler создаёт планировщик с задачами сервиса.
func NewScheduler(
	loc *time.Location,
	usersSvc *users.Service,
	badgesSvc *badges.Service,
	leaderboardSvc *leaderboard.Service,
	log *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		users:       usersSvc,
		badges:      badgesSvc,
		leaderboard: leaderboardSvc,
		log:         log,
	}
}

// Start регистрирует задачи и запускает планировщик.
func (s *Scheduler) Start() error {
	// 00:05 — сброс стриков пользователей, пропустивших день.
	// Пять минут после полуночи, чтобы не гоняться с входами на границе суток.
	if _, err := s.cron.AddFunc("5 0 * * *", s.resetStaleStreaks); err != nil {
		return err
	}

	// Каждый час — полная пересборка кеша рейтинга.
	if _, err := s.cron.AddFunc("0 * * * *", s.rebuildLeaderboard); err != nil {
		return err
	}

	// 03:00 — обход ранговых и особых бейджей (топ департамента,
	// ранняя регистрация). Их выполнение зависит от ДРУГИХ пользователей,
	// поэтому событиями самого пользователя не ловится.
	if _, err := s.cron.AddFunc("0 3 * * *", s.sweepRankBadges); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и дожидается выполняющихся задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Планировщик задач остановлен")
}

func (s *Scheduler) resetStaleStreaks() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.users.ResetStaleStreaks(ctx); err != nil {
		s.log.WithError(err).Error("Ошибка ночного сброса стриков")
	}
}

func (s *Scheduler) rebuildLeaderboard() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.leaderboard.Rebuild(ctx); err != nil {
		s.log.WithError(err).Error("Ошибка пересборки кеша рейтинга")
	}
}

func (s *Scheduler) sweepRankBadges() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	ids, err := s.users.ApprovedIDs(ctx)
	if err != nil {
		s.log.WithError(err).Error("Ошибка выборки пользователей для обхода бейджей")
		return
	}

	awarded := 0
	for _, id := range ids {
		fresh, err := s.badges.EvaluateAll(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("user_id", id).Warn("Ошибка проверки бейджей")
			continue
		}
		awarded += len(fresh)
	}
	s.log.WithFields(logrus.Fields{
		"users":   len(ids),
		"awarded": awarded,
	}).Info("Ночной обход бейджей завершён")
}
