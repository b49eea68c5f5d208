package service

import (
	"context"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
)

const notificationPageSize = 50

type NotificationService struct {
	Repo *repo.GormRepo
}

type NotificationList struct {
	Items       []models.AdminNotification `json:"items"`
	UnreadCount int64                      `json:"unreadCount"`
}

func (s *NotificationService) List(ctx context.Context) (*NotificationList, error) {
	items, err := s.Repo.ListNotifications(ctx, notificationPageSize)
	if err != nil {
		return nil, err
	}
	unread, err := s.Repo.UnreadNotifications(ctx)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Items: items, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	return notFound(s.Repo.MarkNotificationRead(ctx, id), "notification")
}

// MarkAllRead is idempotent; the count is how many were unread before.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	return s.Repo.MarkAllNotificationsRead(ctx)
}
