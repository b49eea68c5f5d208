package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/search"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/internal/upload"
	"github.com/bukucerdas/bookstore/internal/util"
	"github.com/bukucerdas/bookstore/pkg/logging"
	"gorm.io/gorm"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Search search.Indexer
	Files  *upload.Store
}

type BookQuery struct {
	Q          string
	CategoryID uint
	Sort       string
	Page       int
	Size       int
}

type BookPage struct {
	Items []models.Book `json:"data"`
	Meta  util.Meta     `json:"meta"`
}

type BookDetail struct {
	Book    *models.Book    `json:"book"`
	Reviews []models.Review `json:"reviews"`
}

func (s *CatalogService) indexer() search.Indexer {
	if s.Search == nil {
		return search.Nop{}
	}
	return s.Search
}

func (s *CatalogService) ListPublic(ctx context.Context, q BookQuery) (*BookPage, error) {
	offset, limit := util.Calculate(q.Page, q.Size)
	total, items, err := s.Repo.ListActiveBooks(ctx, repo.BookFilter{
		Q:          strings.TrimSpace(q.Q),
		CategoryID: q.CategoryID,
		Sort:       q.Sort,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return &BookPage{Items: items, Meta: util.NewMeta(q.Page, offset, limit, total)}, nil
}

func (s *CatalogService) GetPublic(ctx context.Context, id uint) (*BookDetail, error) {
	book, err := s.Repo.GetActiveBook(ctx, id)
	if err != nil {
		return nil, notFound(err, "book")
	}
	reviews, err := s.Repo.ListReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookDetail{Book: book, Reviews: reviews}, nil
}

// SearchBooks goes through the search index when one is configured and falls
// back to a LIKE query otherwise, or when the index is unreachable.
func (s *CatalogService) SearchBooks(ctx context.Context, q string, page, size int) (*BookPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fail(ErrValidation, "query is required")
	}
	offset, limit := util.Calculate(page, size)

	idx := s.indexer()
	if idx.Enabled() {
		total, ids, err := idx.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.ActiveBooksByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &BookPage{Items: items, Meta: util.NewMeta(page, offset, limit, total)}, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "reason", "falling back to database", "error", err)
	}

	return s.ListPublic(ctx, BookQuery{Q: q, Page: page, Size: size})
}

func (s *CatalogService) ListAdmin(ctx context.Context) ([]models.Book, error) {
	return s.Repo.ListAllBooks(ctx)
}

func (s *CatalogService) GetAdmin(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		return nil, notFound(err, "book")
	}
	return book, nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id uint) error {
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrValidation, "category not found")
		}
		return err
	}
	return nil
}

func (s *CatalogService) CreateBook(ctx context.Context, req transport.CreateBookRequest, cover *multipart.FileHeader) (*models.Book, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		return nil, fail(ErrValidation, "title and author are required")
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	coverURL := strings.TrimSpace(req.CoverURL)
	if cover != nil {
		p, err := s.Files.Save(cover, upload.FolderCover)
		if err != nil {
			return nil, uploadError(err)
		}
		coverURL = p
	}

	categoryID := req.CategoryID
	book := &models.Book{
		Title:      strings.TrimSpace(req.Title),
		Author:     strings.TrimSpace(req.Author),
		Publisher:  strings.TrimSpace(req.Publisher),
		Year:       req.Year,
		ISBN:       strings.TrimSpace(req.ISBN),
		Stock:      req.Stock,
		Price:      req.Price,
		Synopsis:   req.Synopsis,
		CoverURL:   coverURL,
		Status:     models.BookActive,
		CategoryID: &categoryID,
	}
	if err := s.Repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	created, err := s.Repo.GetBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	s.afterBookWrite(ctx, created, events.TypeBookCreated)
	return created, nil
}

func (s *CatalogService) UpdateBook(ctx context.Context, id uint, req transport.PatchBookRequest, cover *multipart.FileHeader) (*models.Book, error) {
	book, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		return nil, notFound(err, "book")
	}

	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		book.Author = strings.TrimSpace(*req.Author)
	}
	if req.Publisher != nil {
		book.Publisher = strings.TrimSpace(*req.Publisher)
	}
	if req.Year != nil {
		book.Year = *req.Year
	}
	if req.ISBN != nil {
		book.ISBN = strings.TrimSpace(*req.ISBN)
	}
	if req.Stock != nil {
		book.Stock = *req.Stock
	}
	if req.Price != nil {
		book.Price = *req.Price
	}
	if req.Synopsis != nil {
		book.Synopsis = *req.Synopsis
	}
	if req.Status != nil {
		book.Status = models.BookStatus(*req.Status)
	}
	if req.CategoryID != nil {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		categoryID := *req.CategoryID
		book.CategoryID = &categoryID
		book.Category = nil
	}
	if book.Title == "" || book.Author == "" {
		return nil, fail(ErrValidation, "title and author are required")
	}

	oldCover := book.CoverURL
	switch {
	case cover != nil:
		p, err := s.Files.Save(cover, upload.FolderCover)
		if err != nil {
			return nil, uploadError(err)
		}
		book.CoverURL = p
	case req.CoverURL != nil:
		book.CoverURL = strings.TrimSpace(*req.CoverURL)
	}

	if err := s.Repo.SaveBook(ctx, book); err != nil {
		return nil, err
	}
	if oldCover != book.CoverURL {
		s.removeUpload(ctx, oldCover)
	}

	updated, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterBookWrite(ctx, updated, events.TypeBookUpdated)
	return updated, nil
}

// RetireBook hides the book from the storefront; the row stays so order
// history keeps resolving.
func (s *CatalogService) RetireBook(ctx context.Context, id uint) error {
	if err := s.Repo.RetireBook(ctx, id); err != nil {
		return notFound(err, "book")
	}
	if err := s.indexer().Delete(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_delete_error", "book_id", id, "error", err)
	}
	publish(ctx, s.Events, events.TopicCatalog, id, events.TypeBookRetired, map[string]any{"bookId": id})
	return nil
}

func (s *CatalogService) afterBookWrite(ctx context.Context, b *models.Book, typ string) {
	if err := s.indexer().Index(ctx, b); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "book_id", b.ID, "error", err)
	}
	publish(ctx, s.Events, events.TopicCatalog, b.ID, typ, map[string]any{
		"bookId": b.ID,
		"title":  b.Title,
		"price":  b.Price,
		"stock":  b.Stock,
		"status": b.Status,
	})
}

func (s *CatalogService) removeUpload(ctx context.Context, p string) {
	if s.Files == nil || !upload.IsLocal(p) {
		return
	}
	if err := s.Files.Remove(p); err != nil {
		logging.FromContext(ctx).Warn("remove_upload_error", "path", p, "error", err)
	}
}

// Reindex rebuilds the search index from the active catalog.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	idx := s.indexer()
	if !idx.Enabled() {
		return 0, nil
	}
	books, err := s.Repo.AllActiveBooks(ctx)
	if err != nil {
		return 0, err
	}
	if err := idx.Reindex(ctx, books); err != nil {
		return 0, err
	}
	return len(books), nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	c := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if c.Name == "" {
		return nil, fail(ErrValidation, "name is required")
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fail(ErrConflict, "category already exists")
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	c.Name = strings.TrimSpace(req.Name)
	c.Description = strings.TrimSpace(req.Description)
	if c.Name == "" {
		return nil, fail(ErrValidation, "name is required")
	}
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fail(ErrConflict, "category already exists")
		}
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses while an active book points at the category.
// Retired books are detached in the same transaction.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			return notFound(err, "category")
		}
		n, err := tx.CountActiveBooksInCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fail(ErrValidation, "category is still in use")
		}
		if err := tx.DetachRetiredBooks(ctx, id); err != nil {
			return err
		}
		return notFound(tx.DeleteCategory(ctx, id), "category")
	})
}
