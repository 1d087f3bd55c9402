// Package badges — criteria.go описывает критерии выдачи бейджей.
// Критерий — помеченный вариант: вид проверки плюс числовой порог.
// Для видов-флагов (thread_leader, early_adopter) порог не используется.
package badges

import (
	"fmt"
	"time"
)

// CriterionKind — вид проверяемого критерия.
type CriterionKind string

// Виды критериев. Каждый проверяется по снимку счётчиков пользователя
// либо по контексту (дата запуска платформы, ранг в департаменте).
const (
	KindPostsCount       CriterionKind = "posts_count"
	KindHelpfulCount     CriterionKind = "helpful_count"
	KindSolutionsCount   CriterionKind = "solutions_count"
	KindLoginStreak      CriterionKind = "login_streak"
	KindConnectionsCount CriterionKind = "connections_count"
	KindThreadsCreated   CriterionKind = "threads_created"
	KindThreadLeader     CriterionKind = "thread_leader"
	KindThreadsLarge     CriterionKind = "threads_large"
	KindReputation       CriterionKind = "reputation"
	KindEarlyAdopter     CriterionKind = "early_adopter"
	KindDepartmentRank   CriterionKind = "department_rank"
)

// Criteria — критерий выдачи бейджа.
type Criteria struct {
	Kind      CriterionKind `json:"kind"`
	Threshold int           `json:"threshold"`
}

// EvalContext — всё, что нужно для проверки критерия одного пользователя.
type EvalContext struct {
	Stats UserStats
	// EarlyAdopterCutoff — дата, до которой регистрация считается ранней
	// (дата первого пользователя плюс окно из конфигурации).
	EarlyAdopterCutoff time.Time
	// DepartmentRank — место пользователя в рейтинге своего департамента.
	// Ноль, если департамент не указан.
	DepartmentRank int
}

// Met проверяет, выполнен ли критерий.
func (c Criteria) Met(ec EvalContext) (bool, error) {
	s := ec.Stats
	switch c.Kind {
	case KindPostsCount:
		return s.TotalPosts >= c.Threshold, nil
	case KindHelpfulCount:
		return s.TotalHelpful >= c.Threshold, nil
	case KindSolutionsCount:
		return s.SolutionsCount >= c.Threshold, nil
	case KindLoginStreak:
		return s.LoginStreak >= c.Threshold, nil
	case KindConnectionsCount:
		return s.ConnectionsCount >= c.Threshold, nil
	case KindThreadsCreated:
		return s.ThreadsCreated >= c.Threshold, nil
	case KindThreadLeader:
		// Хотя бы один тред с 10+ участниками
		return s.ThreadsLarge >= 1, nil
	case KindThreadsLarge:
		return s.ThreadsLarge >= c.Threshold, nil
	case KindReputation:
		return s.Reputation >= c.Threshold, nil
	case KindEarlyAdopter:
		return !ec.EarlyAdopterCutoff.IsZero() && !s.JoinedAt.After(ec.EarlyAdopterCutoff), nil
	case KindDepartmentRank:
		return ec.DepartmentRank > 0 && ec.DepartmentRank <= c.Threshold, nil
	default:
		return false, fmt.Errorf("неизвестный вид критерия: %q", c.Kind)
	}
}

// Countable сообщает, есть ли у критерия измеримый числовой прогресс.
// Особые критерии (лидер треда, ранняя регистрация, ранг в департаменте,
// крупные треды) бинарные либо зависят от других пользователей —
// прогресс для них не считается.
func (c Criteria) Countable() bool {
	switch c.Kind {
	case KindPostsCount, KindHelpfulCount, KindSolutionsCount,
		KindLoginStreak, KindConnectionsCount, KindThreadsCreated,
		KindReputation:
		return true
	}
	return false
}

// CurrentValue возвращает текущее значение измеримого критерия.
func (c Criteria) CurrentValue(s UserStats) int {
	switch c.Kind {
	case KindPostsCount:
		return s.TotalPosts
	case KindHelpfulCount:
		return s.TotalHelpful
	case KindSolutionsCount:
		return s.SolutionsCount
	case KindLoginStreak:
		return s.LoginStreak
	case KindConnectionsCount:
		return s.ConnectionsCount
	case KindThreadsCreated:
		return s.ThreadsCreated
	case KindReputation:
		return s.Reputation
	}
	return 0
}

// progressLabel — человекочитаемая единица измерения критерия.
func (c Criteria) progressLabel() string {
	switch c.Kind {
	case KindPostsCount:
		return "posts"
	case KindHelpfulCount:
		return "helpful reactions"
	case KindSolutionsCount:
		return "solutions"
	case KindLoginStreak:
		return "day streak"
	case KindConnectionsCount:
		return "connections"
	case KindThreadsCreated:
		return "threads created"
	case KindReputation:
		return "reputation points"
	}
	return "special"
}
