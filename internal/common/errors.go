// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервиса.
// Эти ошибки позволяют HTTP-обработчикам различать типы проблем
// и отдавать клиенту понятный статус и сообщение.
package common

import "errors"

// Ошибки репутации
var (
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrUnknownAction — ключ действия отсутствует в таблице начислений
	// и кастомные очки не переданы
	ErrUnknownAction = errors.New("неизвестное действие начисления репутации")
)

// Ошибки бейджей
var (
	// ErrBadgeNotFound — бейдж не найден в каталоге
	ErrBadgeNotFound = errors.New("бейдж не найден")
	// ErrBadgeNotOwned — пользователь не заработал этот бейдж
	ErrBadgeNotOwned = errors.New("этот бейдж ещё не заработан")
	// ErrMaxFeaturedBadges — превышен лимит закреплённых бейджей
	ErrMaxFeaturedBadges = errors.New("можно закрепить максимум 3 бейджа")
)

// Ошибки событий
var (
	// ErrUnknownEvent — тип входящего события не поддерживается
	ErrUnknownEvent = errors.New("неизвестный тип события")
)

// Ошибки служебного API
var (
	// ErrInvalidToken — неверный служебный токен
	ErrInvalidToken = errors.New("неверный служебный токен")
)
