package service

import (
	"context"
	"math"
	"strings"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
)

const (
	ReasonNotPurchased    = "not_purchased"
	ReasonAlreadyReviewed = "already_reviewed"
)

type ReviewService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type Eligibility struct {
	CanReview bool   `json:"canReview"`
	Reason    string `json:"reason,omitempty"`
}

func eligibility(ctx context.Context, r *repo.GormRepo, userID, bookID uint) (Eligibility, error) {
	bought, err := r.HasCompletedPurchase(ctx, userID, bookID)
	if err != nil {
		return Eligibility{}, err
	}
	if !bought {
		return Eligibility{Reason: ReasonNotPurchased}, nil
	}
	exists, err := r.ReviewExists(ctx, userID, bookID)
	if err != nil {
		return Eligibility{}, err
	}
	if exists {
		return Eligibility{Reason: ReasonAlreadyReviewed}, nil
	}
	return Eligibility{CanReview: true}, nil
}

func (s *ReviewService) Eligibility(ctx context.Context, userID, bookID uint) (Eligibility, error) {
	if _, err := s.Repo.GetBook(ctx, bookID); err != nil {
		return Eligibility{}, notFound(err, "book")
	}
	return eligibility(ctx, s.Repo, userID, bookID)
}

func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

func recomputeRating(ctx context.Context, r *repo.GormRepo, bookID uint) error {
	avg, err := r.AverageRating(ctx, bookID)
	if err != nil {
		return err
	}
	return r.SetAverageRating(ctx, bookID, roundRating(avg))
}

// Create re-checks eligibility and inserts in one transaction; the unique
// (user, book) index turns a concurrent duplicate into "already reviewed".
func (s *ReviewService) Create(ctx context.Context, userID uint, req transport.ReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fail(ErrValidation, "rating must be between 1 and 5")
	}
	if _, err := s.Repo.GetBook(ctx, req.BookID); err != nil {
		return nil, notFound(err, "book")
	}

	rv := &models.Review{
		BookID:  req.BookID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		el, err := eligibility(ctx, tx, userID, req.BookID)
		if err != nil {
			return err
		}
		switch el.Reason {
		case ReasonNotPurchased:
			return fail(ErrValidation, "you can only review books from a completed order")
		case ReasonAlreadyReviewed:
			return fail(ErrValidation, "you have already reviewed this book")
		}
		if err := tx.CreateReview(ctx, rv); err != nil {
			if repo.IsDuplicate(err) {
				return fail(ErrValidation, "you have already reviewed this book")
			}
			return err
		}
		return recomputeRating(ctx, tx, req.BookID)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCatalog, req.BookID, events.TypeReviewCreated, map[string]any{
		"bookId":   req.BookID,
		"userId":   userID,
		"reviewId": rv.ID,
		"rating":   rv.Rating,
	})
	return rv, nil
}

func (s *ReviewService) ListForBook(ctx context.Context, bookID uint) ([]models.Review, error) {
	if _, err := s.Repo.GetActiveBook(ctx, bookID); err != nil {
		return nil, notFound(err, "book")
	}
	return s.Repo.ListReviews(ctx, bookID)
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	return s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		rv, err := tx.GetReview(ctx, id)
		if err != nil {
			return notFound(err, "review")
		}
		if err := tx.DeleteReview(ctx, rv.ID); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, rv.BookID)
	})
}
