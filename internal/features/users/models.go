// Package users управляет учётными записями и счётчиками активности.
// models.go описывает структуры для работы с таблицей users.
package users

import "time"

// User представляет пользователя платформы в базе геймификации.
// Запись зеркалируется из основной платформы StudyHub при регистрации;
// этот сервис владеет только геймификационными полями (репутация, счётчики,
// стрик), остальное — справочные данные для лидерборда и профиля.
type User struct {
	ID         int64  `db:"id"`          // Автоинкрементный ID записи в БД
	UserID     int64  `db:"user_id"`     // ID пользователя на платформе (уникальный)
	Username   string `db:"username"`    // Логин (может быть пустым)
	Name       string `db:"name"`        // Отображаемое имя
	Department string `db:"department"`  // Факультет (для лидерборда по факультету)
	Status     string `db:"status"`      // approved / pending / banned

	// Геймификация. reputation — источник истины, reputation_level —
	// кешированное имя уровня; пересчитывается при КАЖДОМ изменении очков
	// и никогда не меняется отдельно.
	Reputation      int    `db:"reputation"`
	ReputationLevel string `db:"reputation_level"`

	// Счётчики для критериев бейджей. Обновляются входящими событиями
	// платформы (пост создан, соединение принято и т.д.).
	TotalPosts       int `db:"total_posts"`
	TotalHelpful     int `db:"total_helpful"`
	SolutionsCount   int `db:"solutions_count"`
	ConnectionsCount int `db:"connections_count"`
	ThreadsCreated   int `db:"threads_created"`
	ThreadsLarge     int `db:"threads_large"` // Треды с 10+ участниками

	// Стрик ежедневных входов
	LoginStreak   int        `db:"login_streak"`
	LongestStreak int        `db:"longest_streak"`
	LastLogin     *time.Time `db:"last_login"`

	JoinedAt  time.Time `db:"joined_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// StatusApproved — единственный статус, попадающий в лидерборды.
const StatusApproved = "approved"

// RegisterParams содержит данные для зеркалирования нового пользователя.
type RegisterParams struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	JoinedAt   time.Time `json:"joined_at"`
}

// Counter перечисляет счётчики активности, которые можно инкрементировать
// входящим событием. Значения совпадают с именами колонок, но наружу
// колонки не утекают — репозиторий маппит enum сам.
type Counter int

const (
	CounterPosts Counter = iota
	CounterHelpful
	CounterSolutions
	CounterConnections
	CounterThreadsCreated
	CounterThreadsLarge
)
