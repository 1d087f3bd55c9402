// Package badges реализует систему бейджей StudyHub: каталог,
// выдачу за достижения и прогресс к незаработанным бейджам.
// models.go описывает структуры хранения.
package badges

import "time"

// Категории бейджей.
const (
	CategoryEngagement  = "engagement"
	CategoryQuality     = "quality"
	CategoryConsistency = "consistency"
	CategorySocial      = "social"
	CategoryMilestone   = "milestone"
)

// Редкости бейджей, от обычного к легендарному.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Badge — запись каталога бейджей.
type Badge struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Icon         string    `db:"icon" json:"icon"`
	Category     string    `db:"category" json:"category"`
	Rarity       string    `db:"rarity" json:"rarity"`
	Color        string    `db:"color" json:"color"`
	Criteria     Criteria  `db:"-" json:"criteria"`
	AwardedCount int       `db:"awarded_count" json:"awarded_count"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// UserBadge — заработанный пользователем бейдж.
// Пара (user_id, badge_id) уникальна: повторная выдача невозможна.
type UserBadge struct {
	Badge      *Badge    `json:"badge"`
	EarnedAt   time.Time `json:"earned_at"`
	IsFeatured bool      `json:"is_featured"`
}

// Earner — недавний обладатель бейджа для карточки деталей.
type Earner struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	EarnedAt time.Time `json:"earned_at"`
}

// UserStats — снимок счётчиков пользователя для проверки критериев.
// Счётчики живут на строке пользователя и обновляются входящими событиями
// платформы, поэтому проверка не ходит по чужим таблицам.
type UserStats struct {
	TotalPosts       int
	TotalHelpful     int
	SolutionsCount   int
	LoginStreak      int
	ConnectionsCount int
	ThreadsCreated   int
	ThreadsLarge     int
	Reputation       int
	Department       string
	JoinedAt         time.Time
}
