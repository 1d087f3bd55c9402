// Package notifications — service.go содержит логику чтения уведомлений.
package notifications

import (
	"context"

	"studyhub.ru/gamification/internal/common"
)

// Service отдаёт уведомления на чтение и помечает их прочитанными.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис уведомлений.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Page — страница уведомлений со счётчиком непрочитанных.
type Page struct {
	Items      []*Notification   `json:"notifications"`
	Unread     int               `json:"unread"`
	Pagination common.Pagination `json:"pagination"`
}

// List возвращает страницу уведомлений пользователя.
func (s *Service) List(ctx context.Context, userID int64, page, perPage int) (*Page, error) {
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := common.NewPagination(page, perPage, 50, total)

	items, err := s.repo.ListByUser(ctx, userID, p.PerPage, p.Offset())
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Notification{}
	}
	return &Page{Items: items, Unread: unread, Pagination: p}, nil
}

// MarkRead помечает одно уведомление прочитанным.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
