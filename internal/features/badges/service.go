// Package badges — service.go содержит бизнес-логику выдачи бейджей.
package badges

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/common"
)

// Options — настройки сервиса бейджей из конфигурации.
type Options struct {
	// EarlyAdopterWindow — окно ранней регистрации от даты запуска.
	EarlyAdopterWindow time.Duration
	// MaxFeatured — лимит закреплённых на профиле бейджей.
	MaxFeatured int
	// Enabled — выключатель всей подсистемы бейджей.
	Enabled bool
}

// Service реализует сценарии работы с бейджами.
type Service struct {
	store Store
	stats StatsProvider
	opts  Options
	log   *logrus.Logger
}

// NewService создаёт сервис бейджей.
func NewService(store Store, stats StatsProvider, opts Options, log *logrus.Logger) *Service {
	return &Service{store: store, stats: stats, opts: opts, log: log}
}

// EvaluateAll проверяет ВСЕ активные бейджи пользователя и выдаёт
// заработанные. Вызывается после значимых действий (пост, стрик,
// начисление репутации). Возвращает только что выданные бейджи.
func (s *Service) EvaluateAll(ctx context.Context, userID int64) ([]*Badge, error) {
	if !s.opts.Enabled {
		return nil, nil
	}

	stats, err := s.stats.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListActive(ctx, "", "")
	if err != nil {
		return nil, err
	}
	earned, err := s.store.EarnedAt(ctx, userID)
	if err != nil {
		return nil, err
	}

	ec := EvalContext{Stats: *stats}
	// Контекстные данные считаем лениво: они нужны единицам бейджей
	cutoffLoaded, rankLoaded := false, false

	var awarded []*Badge
	for _, badge := range all {
		if _, has := earned[badge.ID]; has {
			continue
		}
		switch badge.Criteria.Kind {
		case KindEarlyAdopter:
			if !cutoffLoaded {
				ec.EarlyAdopterCutoff, err = s.stats.EarlyAdopterCutoff(ctx, s.opts.EarlyAdopterWindow)
				if err != nil {
					return nil, err
				}
				cutoffLoaded = true
			}
		case KindDepartmentRank:
			if !rankLoaded {
				ec.DepartmentRank, err = s.stats.DepartmentRank(ctx, userID)
				if err != nil {
					return nil, err
				}
				rankLoaded = true
			}
		}

		met, err := badge.Criteria.Met(ec)
		if err != nil {
			s.log.WithError(err).WithField("badge", badge.Name).Warn("Пропускаем бейдж с некорректным критерием")
			continue
		}
		if !met {
			continue
		}
		fresh, err := s.store.Award(ctx, userID, badge)
		if err != nil {
			return nil, err
		}
		if fresh {
			awarded = append(awarded, badge)
			s.log.WithFields(logrus.Fields{
				"user_id": userID,
				"badge":   badge.Name,
			}).Info("Выдан бейдж")
		}
	}
	return awarded, nil
}

// AwardBadge выдаёт бейдж вручную, минуя критерии. Используется
// платформой для разовых акций. Повторная выдача безопасна.
func (s *Service) AwardBadge(ctx context.Context, userID, badgeID int64) (*Badge, bool, error) {
	// Проверка существования пользователя, иначе вставка упадёт на FK
	if _, err := s.stats.Stats(ctx, userID); err != nil {
		return nil, false, err
	}
	badge, err := s.store.GetByID(ctx, badgeID)
	if err != nil {
		return nil, false, err
	}
	fresh, err := s.store.Award(ctx, userID, badge)
	if err != nil {
		return nil, false, err
	}
	if fresh {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"badge":   badge.Name,
		}).Info("Бейдж выдан вручную")
	}
	return badge, fresh, nil
}

// AvailableBadge — бейдж каталога с отметкой о получении.
type AvailableBadge struct {
	*Badge
	HasEarned bool       `json:"has_earned"`
	EarnedAt  *time.Time `json:"earned_at,omitempty"`
}

// AvailablePage — каталог бейджей для пользователя.
type AvailablePage struct {
	Badges     []*AvailableBadge            `json:"badges"`
	ByCategory map[string][]*AvailableBadge `json:"by_category"`
	Total      int                          `json:"total"`
	Earned     int                          `json:"earned"`
}

// Available возвращает каталог с фильтрами и отметками о получении.
func (s *Service) Available(ctx context.Context, userID int64, category, rarity string) (*AvailablePage, error) {
	all, err := s.store.ListActive(ctx, category, rarity)
	if err != nil {
		return nil, err
	}
	earned, err := s.store.EarnedAt(ctx, userID)
	if err != nil {
		return nil, err
	}

	page := &AvailablePage{
		Badges:     make([]*AvailableBadge, 0, len(all)),
		ByCategory: make(map[string][]*AvailableBadge),
		Earned:     len(earned),
	}
	for _, b := range all {
		ab := &AvailableBadge{Badge: b}
		if at, has := earned[b.ID]; has {
			ab.HasEarned = true
			t := at
			ab.EarnedAt = &t
		}
		page.Badges = append(page.Badges, ab)
		page.ByCategory[b.Category] = append(page.ByCategory[b.Category], ab)
	}
	page.Total = len(page.Badges)
	return page, nil
}

// MyBadgesPage — заработанные бейджи пользователя.
type MyBadgesPage struct {
	Badges      []*UserBadge            `json:"badges"`
	ByRarity    map[string][]*UserBadge `json:"by_rarity"`
	TotalEarned int                     `json:"total_earned"`
	Featured    []*UserBadge            `json:"featured"`
}

// MyBadges возвращает заработанные бейджи с группировкой по редкости.
func (s *Service) MyBadges(ctx context.Context, userID int64) (*MyBadgesPage, error) {
	items, err := s.store.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	page := &MyBadgesPage{
		Badges:      items,
		ByRarity:    make(map[string][]*UserBadge),
		TotalEarned: len(items),
		Featured:    []*UserBadge{},
	}
	if page.Badges == nil {
		page.Badges = []*UserBadge{}
	}
	for _, ub := range items {
		page.ByRarity[ub.Badge.Rarity] = append(page.ByRarity[ub.Badge.Rarity], ub)
		if ub.IsFeatured {
			page.Featured = append(page.Featured, ub)
		}
	}
	return page, nil
}

// BadgeProgress — прогресс к одному незаработанному бейджу.
type BadgeProgress struct {
	Badge    *Badge   `json:"badge"`
	Progress Progress `json:"progress"`
}

// ProgressAll возвращает прогресс ко всем незаработанным бейджам,
// ближайшие к получению — первыми.
func (s *Service) ProgressAll(ctx context.Context, userID int64) ([]*BadgeProgress, error) {
	stats, err := s.stats.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListActive(ctx, "", "")
	if err != nil {
		return nil, err
	}
	earned, err := s.store.EarnedAt(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := []*BadgeProgress{}
	for _, b := range all {
		if _, has := earned[b.ID]; has {
			continue
		}
		result = append(result, &BadgeProgress{
			Badge:    b,
			Progress: ProgressFor(b.Criteria, *stats),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Progress.Percentage > result[j].Progress.Percentage
	})
	return result, nil
}

// Details — карточка бейджа с прогрессом и последними обладателями.
type Details struct {
	Badge         *Badge     `json:"badge"`
	HasEarned     bool       `json:"has_earned"`
	EarnedAt      *time.Time `json:"earned_at,omitempty"`
	Progress      *Progress  `json:"progress,omitempty"`
	RecentEarners []*Earner  `json:"recent_earners"`
}

// BadgeDetails возвращает карточку одного бейджа.
func (s *Service) BadgeDetails(ctx context.Context, userID, badgeID int64) (*Details, error) {
	badge, err := s.store.GetByID(ctx, badgeID)
	if err != nil {
		return nil, err
	}
	earned, err := s.store.EarnedAt(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Details{Badge: badge}
	if at, has := earned[badgeID]; has {
		d.HasEarned = true
		t := at
		d.EarnedAt = &t
	} else {
		stats, err := s.stats.Stats(ctx, userID)
		if err != nil {
			return nil, err
		}
		p := ProgressFor(badge.Criteria, *stats)
		d.Progress = &p
	}

	d.RecentEarners, err = s.store.RecentEarners(ctx, badgeID, 10)
	if err != nil {
		return nil, err
	}
	if d.RecentEarners == nil {
		d.RecentEarners = []*Earner{}
	}
	return d, nil
}

// Feature закрепляет бейдж на профиле. Лимит закреплённых — из настроек.
// Повторное закрепление уже закреплённого бейджа — no-op, лимит при этом
// не проверяется: новых слотов операция не занимает.
func (s *Service) Feature(ctx context.Context, userID, badgeID int64) error {
	owned, err := s.store.ListUserBadges(ctx, userID)
	if err != nil {
		return err
	}
	for _, ub := range owned {
		if ub.Badge.ID == badgeID && ub.IsFeatured {
			return nil
		}
	}

	count, err := s.store.CountFeatured(ctx, userID)
	if err != nil {
		return err
	}
	if count >= s.opts.MaxFeatured {
		return common.ErrMaxFeaturedBadges
	}
	has, err := s.store.SetFeatured(ctx, userID, badgeID, true)
	if err != nil {
		return err
	}
	if !has {
		return common.ErrBadgeNotOwned
	}
	return nil
}

// Unfeature открепляет бейдж с профиля.
func (s *Service) Unfeature(ctx context.Context, userID, badgeID int64) error {
	owned, err := s.store.SetFeatured(ctx, userID, badgeID, false)
	if err != nil {
		return err
	}
	if !owned {
		return common.ErrBadgeNotOwned
	}
	return nil
}
