package service

import (
	"context"
	"strings"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
)

type ContactService struct {
	Repo *repo.GormRepo
}

func (s *ContactService) Submit(ctx context.Context, req transport.ContactRequest) (*models.ContactMessage, error) {
	m := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if m.Name == "" || m.Message == "" {
		return nil, fail(ErrValidation, "name and message are required")
	}
	if err := s.Repo.CreateContactMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	return s.Repo.ListContactMessages(ctx)
}
