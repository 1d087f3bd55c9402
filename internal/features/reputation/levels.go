// Package reputation — levels.go содержит статическую таблицу уровней.
// Уровень — производное от очков имя диапазона, используется только для
// отображения. Источник истины — всегда число очков.
package reputation

import (
	"math"

	"studyhub.ru/gamification/internal/common"
)

// Level — диапазон очков репутации с именем и оформлением.
type Level struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Levels — упорядоченная таблица уровней. Диапазоны покрывают [0, ∞)
// без дыр; верхний уровень открыт сверху.
var Levels = []Level{
	{Min: 0, Max: 50, Name: "Newbie", Icon: "🌱", Color: "#6B7280"},
	{Min: 51, Max: 200, Name: "Learner", Icon: "📚", Color: "#3B82F6"},
	{Min: 201, Max: 500, Name: "Contributor", Icon: "🎓", Color: "#8B5CF6"},
	{Min: 501, Max: 1000, Name: "Expert", Icon: "🌟", Color: "#F59E0B"},
	{Min: 1001, Max: math.MaxInt, Name: "Master", Icon: "👑", Color: "#EF4444"},
}

// LevelFor возвращает уровень для заданного числа очков.
// Отрицательные очки невозможны (зажим на нуле), но на всякий случай
// трактуются как нулевые; значения вне таблицы получают высший уровень.
func LevelFor(points int) Level {
	if points < 0 {
		points = 0
	}
	for _, lvl := range Levels {
		if points >= lvl.Min && points <= lvl.Max {
			return lvl
		}
	}
	return Levels[len(Levels)-1]
}

// NextLevel возвращает следующий уровень после текущего.
// Для высшего уровня второй результат — false.
func NextLevel(points int) (Level, bool) {
	current := LevelFor(points)
	for i, lvl := range Levels {
		if lvl.Name == current.Name && i < len(Levels)-1 {
			return Levels[i+1], true
		}
	}
	return Level{}, false
}

// LevelProgress — прогресс до следующего уровня.
type LevelProgress struct {
	Next         Level   `json:"next_level"`
	PointsNeeded int     `json:"points_needed"`
	Percentage   float64 `json:"progress_percentage"`
}

// ProgressToNext считает прогресс внутри текущего диапазона.
// Для высшего уровня возвращает nil — расти больше некуда.
func ProgressToNext(points int) *LevelProgress {
	next, ok := NextLevel(points)
	if !ok {
		return nil
	}
	current := LevelFor(points)
	levelRange := next.Min - current.Min
	pct := float64(points-current.Min) / float64(levelRange) * 100

	return &LevelProgress{
		Next:         next,
		PointsNeeded: next.Min - points,
		Percentage:   common.Round1(pct),
	}
}
