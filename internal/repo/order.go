package repo

import (
	"context"
	"time"

	"github.com/bukucerdas/bookstore/internal/models"
	"gorm.io/gorm"
)

type OrderFilter struct {
	OrderStatus   string
	PaymentStatus string
	Q             string
}

type BookSales struct {
	BookID   uint   `json:"bookId"`
	Title    string `json:"title"`
	Quantity int64  `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// CreateOrder inserts the order together with its lines.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) ListOrdersForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var items []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Book").
		Preload("Address").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetOrderForUser(ctx context.Context, id, userID uint) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Book").
		Preload("Address").
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Book").
		Preload("Address").
		Preload("User").
		First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := r.DB.WithContext(ctx).Model(&models.Order{}).Preload("User").Preload("Lines")
	if f.OrderStatus != "" {
		query = query.Where("order_status = ?", f.OrderStatus)
	}
	if f.PaymentStatus != "" {
		query = query.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.Q != "" {
		query = query.Where("LOWER(order_code) LIKE ?", likePattern(f.Q))
	}
	var items []models.Order
	if err := query.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, id uint, fields map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountOrdersByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("order_status = ?", status).Count(&n).Error
	return n, err
}

// ConfirmedRevenue sums what has actually been paid.
func (r *GormRepo) ConfirmedRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentConfirmed).
		Select("COALESCE(SUM(total_due), 0)").
		Scan(&total).Error
	return total, err
}

func (r *GormRepo) LatestOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var items []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// OrdersBetween returns non-cancelled orders created in [from, to).
func (r *GormRepo) OrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var items []models.Order
	if err := r.DB.WithContext(ctx).
		Select("id", "order_code", "total_due", "created_at").
		Where("created_at >= ? AND created_at < ? AND order_status <> ?", from, to, models.OrderCancelled).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) TopBooks(ctx context.Context, from, to time.Time, limit int) ([]BookSales, error) {
	var rows []BookSales
	if err := r.DB.WithContext(ctx).
		Table("order_lines").
		Select("order_lines.book_id AS book_id, books.title AS title, SUM(order_lines.quantity) AS quantity, SUM(order_lines.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Joins("JOIN books ON books.id = order_lines.book_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.order_status <> ?", from, to, models.OrderCancelled).
		Group("order_lines.book_id, books.title").
		Order("quantity DESC, order_lines.book_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) SearchOrders(ctx context.Context, q string, limit int) ([]models.Order, error) {
	var items []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Where("LOWER(order_code) LIKE ?", likePattern(q)).
		Order("id DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// HasCompletedPurchase reports whether userID has a completed order with a
// line for bookID.
func (r *GormRepo) HasCompletedPurchase(ctx context.Context, userID, bookID uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Table("order_lines").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.user_id = ? AND orders.order_status = ? AND order_lines.book_id = ?", userID, models.OrderCompleted, bookID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// TransitionOrder applies fields only while the order is still in one of
// the from statuses; ok is false when another writer got there first.
func (r *GormRepo) TransitionOrder(ctx context.Context, id uint, from []models.OrderStatus, fields map[string]any) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND order_status IN ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
