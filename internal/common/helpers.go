// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с календарными датами и арифметика пагинации.
package common

import (
	"math"
	"time"
)

// TruncateToDay обрезает время до начала календарного дня в его часовом поясе.
// Используется для сравнения "тот же день / соседний день" при подсчёте
// стрика входов.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay проверяет, что два момента приходятся на один календарный день.
func SameDay(a, b time.Time) bool {
	return TruncateToDay(a).Equal(TruncateToDay(b))
}

// DaysBetween возвращает число календарных дней от a до b (b позже — положительное).
// Даты переносятся в UTC-полночь перед вычитанием: в UTC нет перехода на
// летнее время, поэтому 23- и 25-часовые сутки не ломают деление на 24 часа.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// Pagination описывает страницу выборки.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// NewPagination нормализует параметры страницы и считает число страниц.
// page < 1 приводится к 1, perPage зажимается в [1, maxPerPage].
func NewPagination(page, perPage, maxPerPage, total int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, Pages: pages}
}

// Offset возвращает смещение для SQL-запроса.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ClampPercent зажимает процент в диапазон [0, 100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Round1 округляет до одного знака после запятой.
// Проценты прогресса отдаются клиенту именно с такой точностью.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
