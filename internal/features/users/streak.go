// Package users — streak.go содержит арифметику стрика ежедневных входов.
// Чистые функции без обращений к БД, чтобы правила легко проверялись тестами.
package users

import (
	"time"

	"studyhub.ru/gamification/internal/common"
)

// StreakUpdate описывает результат применения входа к текущему стрику.
type StreakUpdate struct {
	Streak  int  // Новое значение стрика
	Longest int  // Новый личный рекорд
	Changed bool // Стрик изменился (нужно пересчитать бейджи)
}

// NextStreak вычисляет новый стрик после входа в момент now.
//
// Правила:
//   - первый вход вообще → стрик 1
//   - вход в тот же календарный день → без изменений
//   - вход на следующий день → стрик + 1
//   - пропуск хотя бы одного дня → стрик сбрасывается в 1
//
// Дни считаются календарными в часовом поясе сервиса, не интервалами
// по 24 часа: вход в 23:59 и затем в 00:01 — это два соседних дня.
func NextStreak(current, longest int, lastLogin *time.Time, now time.Time) StreakUpdate {
	next := 1
	if lastLogin != nil {
		if common.SameDay(*lastLogin, now) {
			// Повторный вход в тот же день
			return StreakUpdate{Streak: current, Longest: longest, Changed: false}
		}
		if common.DaysBetween(*lastLogin, now) == 1 {
			next = current + 1
		}
	}

	if next > longest {
		longest = next
	}
	return StreakUpdate{Streak: next, Longest: longest, Changed: true}
}

// IsStreakStale проверяет, что стрик пора обнулить ночным заданием:
// последний вход был раньше вчерашнего дня (или его не было вовсе),
// а стрик ещё положительный.
func IsStreakStale(streak int, lastLogin *time.Time, now time.Time) bool {
	if streak <= 0 {
		return false
	}
	if lastLogin == nil {
		return true
	}
	return common.DaysBetween(*lastLogin, now) > 1
}
