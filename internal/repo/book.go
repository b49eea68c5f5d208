package repo

import (
	"context"

	"github.com/bukucerdas/bookstore/internal/models"
	"gorm.io/gorm"
)

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
)

type BookFilter struct {
	Q          string
	CategoryID uint
	Sort       string
	Offset     int
	Limit      int
}

func bookOrder(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "books.price ASC, books.id ASC"
	case SortPriceDesc:
		return "books.price DESC, books.id ASC"
	case SortRating:
		return "books.average_rating DESC, books.id ASC"
	default:
		return "books.created_at DESC, books.id DESC"
	}
}

// ListAllBooks is the back office listing: retired books included.
func (r *GormRepo) ListAllBooks(ctx context.Context) ([]models.Book, error) {
	var items []models.Book
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Order("books.id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (f BookFilter) scope(db *gorm.DB) *gorm.DB {
	db = db.Scopes(models.ActiveBooks)
	if f.Q != "" {
		p := likePattern(f.Q)
		db = db.Where("LOWER(books.title) LIKE ? OR LOWER(books.author) LIKE ?", p, p)
	}
	if f.CategoryID != 0 {
		db = db.Where("books.category_id = ?", f.CategoryID)
	}
	return db
}

func (r *GormRepo) ListActiveBooks(ctx context.Context, f BookFilter) (int64, []models.Book, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Scopes(f.scope).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Book, 0, f.Limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Book{}).
		Scopes(f.scope).
		Preload("Category").
		Order(bookOrder(f.Sort)).
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).Preload("Category").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepo) GetActiveBook(ctx context.Context, id uint) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).
		Scopes(models.ActiveBooks).
		Preload("Category").
		Where("books.id = ?", id).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ActiveBooksByIDs keeps the order of ids, skipping ids that are missing or
// retired.
func (r *GormRepo) ActiveBooksByIDs(ctx context.Context, ids []uint) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	var found []models.Book
	if err := r.DB.WithContext(ctx).
		Scopes(models.ActiveBooks).
		Preload("Category").
		Where("books.id IN ?", ids).
		Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	out := make([]models.Book, 0, len(found))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// AllActiveBooks feeds the search reindex.
func (r *GormRepo) AllActiveBooks(ctx context.Context) ([]models.Book, error) {
	var items []models.Book
	if err := r.DB.WithContext(ctx).Scopes(models.ActiveBooks).Preload("Category").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) SaveBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Omit("Category").Save(b).Error
}

func (r *GormRepo) RetireBook(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Update("status", models.BookRetired)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock only succeeds when enough stock is left; ok is false
// otherwise.
func (r *GormRepo) DecrementStock(ctx context.Context, bookID uint, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND stock >= ?", bookID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) IncrementStock(ctx context.Context, bookID uint, qty int) error {
	return r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

func (r *GormRepo) SetAverageRating(ctx context.Context, bookID uint, avg float64) error {
	return r.DB.WithContext(ctx).Model(&models.Book{}).Where("id = ?", bookID).Update("average_rating", avg).Error
}

func (r *GormRepo) CountActiveBooks(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Book{}).Scopes(models.ActiveBooks).Count(&n).Error
	return n, err
}

func (r *GormRepo) LowStockBooks(ctx context.Context, threshold, limit int) ([]models.Book, error) {
	var items []models.Book
	if err := r.DB.WithContext(ctx).
		Scopes(models.ActiveBooks).
		Where("books.stock <= ?", threshold).
		Order("books.stock ASC, books.id ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchAllBooks matches retired books too; it backs the admin search.
func (r *GormRepo) SearchAllBooks(ctx context.Context, q string, limit int) ([]models.Book, error) {
	p := likePattern(q)
	var items []models.Book
	if err := r.DB.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(isbn) LIKE ?", p, p, p).
		Order("id DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
