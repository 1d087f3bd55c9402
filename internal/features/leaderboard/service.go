// Package leaderboard — service.go собирает рейтинги для выдачи.
// Чтение идёт через кеш с откатом в БД; запись кеша — после начислений
// и по расписанию.
package leaderboard

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/features/reputation"
)

// Options — настройки рейтинга из конфигурации.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	CacheEnabled bool
}

// Service реализует сценарии рейтинга.
type Service struct {
	repo  *Repository
	cache *Cache
	opts  Options
	log   *logrus.Logger
}

// NewService создаёт сервис рейтинга. cache может быть nil —
// тогда все чтения идут в БД.
func NewService(repo *Repository, cache *Cache, opts Options, log *logrus.Logger) *Service {
	return &Service{repo: repo, cache: cache, opts: opts, log: log}
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

func (s *Service) cacheUsable() bool {
	return s.opts.CacheEnabled && s.cache != nil
}

// markViewer проставляет is_you и проверяет попадание смотрящего в топ.
func markViewer(entries []*Entry, viewerID int64) bool {
	inTop := false
	for _, e := range entries {
		if e.UserID == viewerID {
			e.IsYou = true
			inTop = true
		}
	}
	return inTop
}

// Global возвращает глобальный рейтинг за период.
// Кеш обслуживает только all_time; срезы по периодам считает БД.
func (s *Service) Global(ctx context.Context, viewerID int64, limit int, period string) (*Board, error) {
	if !ValidPeriod(period) {
		period = PeriodAllTime
	}
	limit = s.clampLimit(limit)

	var entries []*Entry
	var err error
	if period == PeriodAllTime && s.cacheUsable() {
		entries, err = s.cache.TopGlobal(ctx, limit)
		if err != nil {
			if err != ErrCacheMiss {
				s.log.WithError(err).Warn("Кеш рейтинга недоступен, читаем БД")
			}
			entries = nil
		}
	}
	if entries == nil {
		entries, err = s.repo.TopGlobal(ctx, period, limit, time.Now())
		if err != nil {
			return nil, err
		}
	}
	if entries == nil {
		entries = []*Entry{}
	}

	board := &Board{Entries: entries, Period: period}

	if viewerID > 0 && !markViewer(entries, viewerID) {
		rank, err := s.viewerGlobalRank(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		board.YourRank = &rank
	}

	board.TotalUsers, err = s.repo.CountApproved(ctx, "")
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (s *Service) viewerGlobalRank(ctx context.Context, viewerID int64) (int, error) {
	if s.cacheUsable() {
		rank, err := s.cache.GlobalRank(ctx, viewerID)
		if err == nil {
			return rank, nil
		}
		if err != ErrCacheMiss {
			s.log.WithError(err).Warn("Ранг из кеша недоступен, читаем БД")
		}
	}
	return s.repo.GlobalRank(ctx, viewerID)
}

// Department возвращает рейтинг департамента.
func (s *Service) Department(ctx context.Context, viewerID int64, department string, limit int) (*Board, error) {
	limit = s.clampLimit(limit)

	var entries []*Entry
	var err error
	if s.cacheUsable() {
		entries, err = s.cache.TopDepartment(ctx, department, limit)
		if err != nil {
			if err != ErrCacheMiss {
				s.log.WithError(err).Warn("Кеш рейтинга недоступен, читаем БД")
			}
			entries = nil
		}
	}
	if entries == nil {
		entries, err = s.repo.TopDepartment(ctx, department, limit)
		if err != nil {
			return nil, err
		}
	}
	if entries == nil {
		entries = []*Entry{}
	}

	board := &Board{Entries: entries, Department: department}

	// Позиция смотрящего считается, только если он из этого департамента
	if viewerID > 0 && !markViewer(entries, viewerID) {
		viewerDept, err := s.repo.UserDepartment(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if viewerDept == department {
			rank, err := s.repo.DepartmentRank(ctx, viewerID, department)
			if err != nil {
				return nil, err
			}
			board.YourRank = &rank
		}
	}

	board.TotalUsers, err = s.repo.CountApproved(ctx, department)
	if err != nil {
		return nil, err
	}
	return board, nil
}

// GlobalRank возвращает позицию пользователя в глобальном рейтинге.
func (s *Service) GlobalRank(ctx context.Context, userID int64) (int, error) {
	return s.viewerGlobalRank(ctx, userID)
}

// RefreshUser обновляет строку пользователя в кеше после изменения
// репутации или счётчиков. Ошибки кеша не фатальны: БД — источник истины.
func (s *Service) RefreshUser(ctx context.Context, userID int64) {
	if !s.cacheUsable() {
		return
	}
	e, err := s.fetchEntry(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Не удалось прочитать строку рейтинга")
		return
	}
	if err := s.cache.UpdateUser(ctx, e); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Не удалось обновить кеш рейтинга")
		// Частично обновлённый кеш хуже пустого: сбрасываем его,
		// чтение уйдёт в БД до ближайшей пересборки
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.WithError(err).Warn("Не удалось сбросить кеш рейтинга")
		}
	}
}

func (s *Service) fetchEntry(ctx context.Context, userID int64) (*Entry, error) {
	var e Entry
	err := s.repo.db.QueryRow(ctx, `
		SELECT `+entryColumns+` FROM users WHERE user_id = $1 AND status = 'approved'
	`, userID).Scan(
		&e.UserID, &e.Username, &e.Name, &e.Department,
		&e.Reputation, &e.TotalPosts, &e.TotalHelpful,
	)
	if err != nil {
		return nil, err
	}
	e.Level = reputation.LevelFor(e.Reputation)
	return &e, nil
}

// Rebuild полностью пересобирает кеш из БД. Вызывается по расписанию.
func (s *Service) Rebuild(ctx context.Context) error {
	if !s.cacheUsable() {
		return nil
	}
	entries, err := s.repo.AllApproved(ctx)
	if err != nil {
		return err
	}
	if err := s.cache.Rebuild(ctx, entries); err != nil {
		return err
	}
	s.log.WithField("users", len(entries)).Info("Кеш рейтинга пересобран")
	return nil
}
