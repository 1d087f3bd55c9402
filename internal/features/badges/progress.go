// Package badges — progress.go считает прогресс к незаработанным бейджам.
package badges

import "studyhub.ru/gamification/internal/common"

// Progress — прогресс пользователя к одному бейджу.
type Progress struct {
	Current    int     `json:"current"`
	Required   int     `json:"required"`
	Percentage float64 `json:"percentage"`
	Type       string  `json:"type"`
	Remaining  int     `json:"remaining,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// ProgressFor считает прогресс по критерию бейджа.
// Особые критерии отображаются нулевым прогрессом с пояснением:
// их выполнение зависит не от одного счётчика.
func ProgressFor(c Criteria, stats UserStats) Progress {
	if !c.Countable() {
		return Progress{
			Current:    0,
			Required:   1,
			Percentage: 0,
			Type:       "special",
			Message:    "Complete special requirements",
		}
	}

	current := c.CurrentValue(stats)
	required := c.Threshold
	var pct float64
	if required > 0 {
		pct = common.ClampPercent(float64(current) / float64(required) * 100)
	}
	remaining := required - current
	if remaining < 0 {
		remaining = 0
	}
	return Progress{
		Current:    current,
		Required:   required,
		Percentage: common.Round1(pct),
		Type:       c.progressLabel(),
		Remaining:  remaining,
	}
}
