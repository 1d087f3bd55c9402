// Package server — events.go принимает события платформы.
// Каждое событие отображается в инкременты счётчиков и/или одно
// начисление репутации, после чего перепроверяются бейджи и
// обновляется кеш рейтинга.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"studyhub.ru/gamification/internal/common"
	"studyhub.ru/gamification/internal/features/badges"
	"studyhub.ru/gamification/internal/features/leaderboard"
	"studyhub.ru/gamification/internal/features/reputation"
	"studyhub.ru/gamification/internal/features/users"
)

// Типы входящих событий платформы.
const (
	EventPostCreated           = "post_created"
	EventPostLiked             = "post_liked"
	EventPostDisliked          = "post_disliked"
	EventPostMarkedHelpful     = "post_marked_helpful"
	EventCommentMarkedSolution = "comment_marked_solution"
	EventContentReported       = "content_reported"
	EventThreadCreated         = "thread_created"
	EventThreadCompleted       = "thread_completed"
	EventHelpfulStreak7        = "helpful_streak_7"
	EventConnectionAccepted    = "connection_accepted"
	EventUserLoggedIn          = "user_logged_in"
)

// Event — входящее событие платформы.
type Event struct {
	UserID      int64   `json:"user_id"`
	Type        string  `json:"type"`
	RelatedType *string `json:"related_type,omitempty"`
	RelatedID   *int64  `json:"related_id,omitempty"`
	// Count несёт дополнительное число события: для post_liked это
	// итоговое число лайков поста.
	Count int `json:"count,omitempty"`
}

// EventResult — что произошло в ответ на событие.
type EventResult struct {
	Type          string                  `json:"type"`
	UserID        int64                   `json:"user_id"`
	Award         *reputation.AwardResult `json:"award,omitempty"`
	StreakChanged bool                    `json:"streak_changed,omitempty"`
	NewBadges     []*badges.Badge         `json:"new_badges"`
}

// EventDispatcher превращает события платформы в действия геймификации.
type EventDispatcher struct {
	users       *users.Service
	reputation  *reputation.Service
	badges      *badges.Service
	leaderboard *leaderboard.Service
	log         *logrus.Logger
}

// NewEventDispatcher создаёт диспетчер событий.
func NewEventDispatcher(
	usersSvc *users.Service,
	reputationSvc *reputation.Service,
	badgesSvc *badges.Service,
	leaderboardSvc *leaderboard.Service,
	log *logrus.Logger,
) *EventDispatcher {
	return &EventDispatcher{
		users:       usersSvc,
		reputation:  reputationSvc,
		badges:      badgesSvc,
		leaderboard: leaderboardSvc,
		log:         log,
	}
}

// likeMilestoneAction выбирает действие за веху лайков.
// Начисление происходит ровно в момент достижения порога.
func likeMilestoneAction(count int) string {
	switch count {
	case 10:
		return reputation.ActionPost10Likes
	case 50:
		return reputation.ActionPost50Likes
	case 100:
		return reputation.ActionPost100Likes
	}
	return ""
}

// Dispatch применяет событие: счётчики и начисление в своих транзакциях,
// затем перепроверка бейджей и обновление кеша рейтинга.
func (d *EventDispatcher) Dispatch(ctx context.Context, ev Event) (*EventResult, error) {
	result := &EventResult{Type: ev.Type, UserID: ev.UserID, NewBadges: []*badges.Badge{}}
	actionKey := ""

	switch ev.Type {
	case EventPostCreated:
		if err := d.users.BumpCounter(ctx, ev.UserID, users.CounterPosts, 1); err != nil {
			return nil, err
		}
	case EventPostLiked:
		actionKey = likeMilestoneAction(ev.Count)
	case EventPostDisliked:
		actionKey = reputation.ActionPostDisliked
	case EventPostMarkedHelpful:
		if err := d.users.BumpCounter(ctx, ev.UserID, users.CounterHelpful, 1); err != nil {
			return nil, err
		}
		actionKey = reputation.ActionPostMarkedHelpful
	case EventCommentMarkedSolution:
		if err := d.users.BumpCounter(ctx, ev.UserID, users.CounterSolutions, 1); err != nil {
			return nil, err
		}
		actionKey = reputation.ActionCommentMarkedSolution
	case EventContentReported:
		actionKey = reputation.ActionContentReported
	case EventThreadCreated:
		if err := d.users.BumpCounter(ctx, ev.UserID, users.CounterThreadsCreated, 1); err != nil {
			return nil, err
		}
		actionKey = reputation.ActionThreadCreated
	case EventThreadCompleted:
		if err := d.users.BumpCounter(ctx, ev.UserID, users.CounterThreadsLarge, 1); err != nil {
			return nil, err
		}
		actionKey = reputation.ActionThreadCompleted
	case EventHelpfulStreak7:
		actionKey = reputation.ActionHelpfulStreak7
	case EventConnectionAccepted:
		if err := d.users.BumpCounter(ctx, ev.UserID, users.CounterConnections, 1); err != nil {
			return nil, err
		}
	case EventUserLoggedIn:
		changed, err := d.users.RecordLogin(ctx, ev.UserID)
		if err != nil {
			return nil, err
		}
		result.StreakChanged = changed
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownEvent, ev.Type)
	}

	if actionKey != "" {
		award, err := d.reputation.Award(ctx, reputation.AwardRequest{
			UserID:      ev.UserID,
			Action:      actionKey,
			RelatedType: ev.RelatedType,
			RelatedID:   ev.RelatedID,
		})
		if err != nil {
			return nil, err
		}
		result.Award = award
	}

	// Счётчики и очки уже закоммичены — можно перепроверять бейджи
	newBadges, err := d.badges.EvaluateAll(ctx, ev.UserID)
	if err != nil {
		// Выдача бейджей вторична: событие уже применено
		d.log.WithError(err).WithField("user_id", ev.UserID).Warn("Не удалось перепроверить бейджи")
	} else if newBadges != nil {
		result.NewBadges = newBadges
	}

	d.leaderboard.RefreshUser(ctx, ev.UserID)
	return result, nil
}

// handleEvent — HTTP-обёртка над Dispatch.
func (d *EventDispatcher) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		common.WriteBadRequest(w, "некорректное тело события")
		return
	}
	if ev.UserID <= 0 || ev.Type == "" {
		common.WriteBadRequest(w, "user_id и type обязательны")
		return
	}
	result, err := d.Dispatch(r.Context(), ev)
	if err != nil {
		common.WriteError(w, d.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, result)
}

// handleRegister регистрирует (зеркалирует) пользователя платформы.
func (d *EventDispatcher) handleRegister(w http.ResponseWriter, r *http.Request) {
	var params users.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		common.WriteBadRequest(w, "некорректное тело запроса")
		return
	}
	if params.UserID <= 0 {
		common.WriteBadRequest(w, "user_id обязателен")
		return
	}
	if err := d.users.Register(r.Context(), params); err != nil {
		common.WriteError(w, d.log, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]any{"registered": true})
}
