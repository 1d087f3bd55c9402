// Package reputation — service.go содержит бизнес-логику начислений.
package reputation

import (
	"context"

	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/common"
	"studyhub.ru/gamification/internal/features/users"
)

// RankFunc возвращает позицию пользователя в глобальном рейтинге.
// Передаётся функцией, чтобы пакет репутации не зависел от пакета рейтинга.
type RankFunc func(ctx context.Context, userID int64) (int, error)

// Service реализует сценарии работы с репутацией.
type Service struct {
	repo      *Repository
	usersRepo *users.Repository
	rankFn    RankFunc
	log       *logrus.Logger
}

// NewService создаёт сервис репутации.
func NewService(repo *Repository, usersRepo *users.Repository, rankFn RankFunc, log *logrus.Logger) *Service {
	return &Service{repo: repo, usersRepo: usersRepo, rankFn: rankFn, log: log}
}

// AwardRequest — входящий запрос на начисление от платформы.
type AwardRequest struct {
	UserID      int64   `json:"user_id"`
	Action      string  `json:"action"`
	Points      *int    `json:"points,omitempty"` // Кастомная дельта, приоритетнее таблицы
	RelatedType *string `json:"related_type,omitempty"`
	RelatedID   *int64  `json:"related_id,omitempty"`
}

// AwardResult — результат начисления.
type AwardResult struct {
	Entry     *HistoryEntry `json:"entry"`
	NewLevel  Level         `json:"new_level"`
	LeveledUp bool          `json:"leveled_up"`
}

// Award разрешает дельту очков и атомарно применяет её.
func (s *Service) Award(ctx context.Context, req AwardRequest) (*AwardResult, error) {
	points, action, err := ResolveAction(req.Action, req.Points)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.Award(ctx, AwardParams{
		UserID:      req.UserID,
		Action:      action,
		Points:      points,
		RelatedType: req.RelatedType,
		RelatedID:   req.RelatedID,
	})
	if err != nil {
		return nil, err
	}

	oldLevel := LevelFor(entry.ReputationBefore)
	newLevel := LevelFor(entry.ReputationAfter)
	result := &AwardResult{
		Entry:     entry,
		NewLevel:  newLevel,
		LeveledUp: newLevel.Min > oldLevel.Min,
	}

	s.log.WithFields(logrus.Fields{
		"user_id": req.UserID,
		"action":  action,
		"points":  points,
		"after":   entry.ReputationAfter,
	}).Info("Репутация начислена")
	if result.LeveledUp {
		s.log.WithFields(logrus.Fields{
			"user_id": req.UserID,
			"level":   newLevel.Name,
		}).Info("Пользователь повысил уровень")
	}
	return result, nil
}

// Overview — сводка репутации пользователя.
type Overview struct {
	UserID        int64           `json:"user_id"`
	Reputation    int             `json:"reputation"`
	Level         Level           `json:"level"`
	Progress      *LevelProgress  `json:"progress,omitempty"` // nil для высшего уровня
	GlobalRank    int             `json:"global_rank"`
	Summary       Summary         `json:"summary"`
	RecentChanges []*HistoryEntry `json:"recent_changes"`
}

// Overview собирает текущее состояние репутации: очки, уровень,
// прогресс до следующего уровня, агрегаты и последние изменения.
func (s *Service) Overview(ctx context.Context, userID int64) (*Overview, error) {
	user, err := s.usersRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rank, err := s.rankFn(ctx, userID)
	if err != nil {
		return nil, err
	}
	gained, lost, err := s.repo.HistorySummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentChanges(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*HistoryEntry{}
	}

	return &Overview{
		UserID:     userID,
		Reputation: user.Reputation,
		Level:      LevelFor(user.Reputation),
		Progress:   ProgressToNext(user.Reputation),
		GlobalRank: rank,
		Summary: Summary{
			TotalGained: gained,
			TotalLost:   lost,
			NetChange:   gained - lost,
			Current:     user.Reputation,
		},
		RecentChanges: recent,
	}, nil
}

// HistoryPage — страница истории начислений.
type HistoryPage struct {
	Items      []*HistoryEntry   `json:"history"`
	Pagination common.Pagination `json:"pagination"`
}

// History возвращает страницу истории с необязательным фильтром по действию.
func (s *Service) History(ctx context.Context, userID int64, actionFilter string, page, perPage int) (*HistoryPage, error) {
	if ok, err := s.usersRepo.Exists(ctx, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, common.ErrUserNotFound
	}

	total, err := s.repo.CountHistory(ctx, userID, actionFilter)
	if err != nil {
		return nil, err
	}
	p := common.NewPagination(page, perPage, 100, total)

	items, err := s.repo.ListHistory(ctx, userID, actionFilter, p.PerPage, p.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*HistoryEntry{}
	}
	return &HistoryPage{Items: items, Pagination: p}, nil
}
