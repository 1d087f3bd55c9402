// Package reputation — actions.go содержит статическую таблицу начислений.
// Каждое действие платформы даёт фиксированную подписанную дельту очков.
package reputation

import (
	"fmt"

	"studyhub.ru/gamification/internal/common"
)

// Action описывает одно начисляемое действие.
type Action struct {
	Key         string `json:"key"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// Ключи действий. Платформа присылает их во входящих событиях.
const (
	ActionPost10Likes           = "post_10_likes"
	ActionPost50Likes           = "post_50_likes"
	ActionPost100Likes          = "post_100_likes"
	ActionCommentMarkedSolution = "comment_marked_solution"
	ActionPostMarkedHelpful     = "post_marked_helpful"
	ActionPostDisliked          = "post_disliked"
	ActionContentReported       = "content_reported"
	ActionHelpfulStreak7        = "helpful_streak_7"
	ActionThreadCreated         = "thread_created"
	ActionThreadCompleted       = "thread_completed"

	// ActionCustom записывается в историю, когда дельта передана напрямую,
	// минуя таблицу.
	ActionCustom = "custom"
)

// Actions — таблица начислений в порядке объявления (порядок важен только
// для публичного дампа, семантики не несёт).
var Actions = []Action{
	{Key: ActionPost10Likes, Points: 5, Description: "Post reached 10 likes"},
	{Key: ActionPost50Likes, Points: 20, Description: "Post reached 50 likes"},
	{Key: ActionPost100Likes, Points: 50, Description: "Post reached 100 likes"},
	{Key: ActionCommentMarkedSolution, Points: 15, Description: "Comment marked as solution"},
	{Key: ActionPostMarkedHelpful, Points: 5, Description: "Post marked helpful"},
	{Key: ActionPostDisliked, Points: -2, Description: "Post received dislike"},
	{Key: ActionContentReported, Points: -10, Description: "Content reported"},
	{Key: ActionHelpfulStreak7, Points: 10, Description: "7 helpful reactions in a week"},
	{Key: ActionThreadCreated, Points: 3, Description: "Created study thread"},
	{Key: ActionThreadCompleted, Points: 10, Description: "Thread reached 10+ members"},
}

var actionIndex = func() map[string]Action {
	m := make(map[string]Action, len(Actions))
	for _, a := range Actions {
		m[a.Key] = a
	}
	return m
}()

// LookupAction возвращает действие по ключу.
func LookupAction(key string) (Action, bool) {
	a, ok := actionIndex[key]
	return a, ok
}

// ResolveAction разрешает дельту очков: кастомное значение имеет приоритет
// над таблицей; если ключ неизвестен и кастомных очков нет — ошибка.
// Возвращает дельту и ключ действия для записи в историю.
func ResolveAction(key string, customPoints *int) (points int, action string, err error) {
	if customPoints != nil {
		if key == "" {
			key = ActionCustom
		}
		return *customPoints, key, nil
	}
	a, ok := LookupAction(key)
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", common.ErrUnknownAction, key)
	}
	return a.Points, a.Key, nil
}
