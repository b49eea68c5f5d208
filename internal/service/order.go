package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"slices"
	"time"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/internal/upload"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

const NotificationPaymentProof = "payment_proof"

var cancellable = []models.OrderStatus{models.OrderAwaitingConfirmation, models.OrderProcessing}

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Files  *upload.Store
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *OrderService) ListMine(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersForUser(ctx, userID)
}

func (s *OrderService) GetMine(ctx context.Context, userID, id uint) (*models.Order, error) {
	o, err := s.Repo.GetOrderForUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return o, nil
}

// UploadProof stores the buyer's payment proof, moves both statuses to
// awaiting_confirmation and notifies the back office in one transaction.
func (s *OrderService) UploadProof(ctx context.Context, userID, id uint, fh *multipart.FileHeader) (*models.Order, error) {
	if fh == nil {
		return nil, fail(ErrValidation, "file is required")
	}
	order, err := s.Repo.GetOrderForUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if order.PaymentMethod == models.PaymentCOD {
		return nil, fail(ErrValidation, "cash on delivery orders do not need a payment proof")
	}
	if order.PaymentStatus == models.PaymentConfirmed || order.PaymentStatus == models.PaymentCancelled ||
		order.OrderStatus == models.OrderCancelled || order.OrderStatus == models.OrderCompleted ||
		order.OrderStatus == models.OrderShipped {
		return nil, fail(ErrValidation, "order no longer accepts a payment proof")
	}

	proofURL, err := s.Files.Save(fh, upload.FolderPaymentProof)
	if err != nil {
		return nil, uploadError(err)
	}

	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.UpdateOrder(ctx, order.ID, map[string]any{
			"proof_url":      proofURL,
			"payment_status": models.PaymentAwaitingConfirmation,
			"order_status":   models.OrderAwaitingConfirmation,
		}); err != nil {
			return err
		}
		orderID := order.ID
		return tx.CreateNotification(ctx, &models.AdminNotification{
			Type:    NotificationPaymentProof,
			Title:   "Bukti pembayaran baru",
			Message: fmt.Sprintf("Pesanan %s mengunggah bukti pembayaran", order.OrderCode),
			OrderID: &orderID,
		})
	})
	if err != nil {
		s.removeUpload(ctx, proofURL)
		return nil, err
	}
	if order.ProofURL != "" && order.ProofURL != proofURL {
		s.removeUpload(ctx, order.ProofURL)
	}

	publish(ctx, s.Events, events.TopicOrders, order.ID, events.TypePaymentProofUploaded, map[string]any{
		"orderId":   order.ID,
		"orderCode": order.OrderCode,
		"proofUrl":  proofURL,
	})
	return s.GetMine(ctx, userID, id)
}

// Cancel is allowed until the order ships. Stock goes back to the catalog.
func (s *OrderService) Cancel(ctx context.Context, userID, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrderForUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		return cancelOrder(ctx, tx, order, map[string]any{
			"order_status":   models.OrderCancelled,
			"payment_status": models.PaymentCancelled,
		})
	}); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrders, order.ID, events.TypeOrderCancelled, map[string]any{
		"orderId":   order.ID,
		"orderCode": order.OrderCode,
		"by":        "customer",
	})
	return s.GetMine(ctx, userID, id)
}

func cancelOrder(ctx context.Context, tx *repo.GormRepo, order *models.Order, fields map[string]any) error {
	fields["stock_released"] = true
	ok, err := tx.TransitionOrder(ctx, order.ID, cancellable, fields)
	if err != nil {
		return err
	}
	if !ok {
		return fail(ErrValidation, "order can no longer be cancelled")
	}
	if order.StockReleased {
		return nil
	}
	for _, line := range order.Lines {
		if err := tx.IncrementStock(ctx, line.BookID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// reopenOrder moves a cancelled order back to an open status and takes its
// released stock out again.
func reopenOrder(ctx context.Context, tx *repo.GormRepo, order *models.Order, fields map[string]any) error {
	fields["stock_released"] = false
	ok, err := tx.TransitionOrder(ctx, order.ID, []models.OrderStatus{models.OrderCancelled}, fields)
	if err != nil {
		return err
	}
	if !ok {
		return fail(ErrValidation, "order is no longer cancelled")
	}
	if !order.StockReleased {
		return nil
	}
	for _, line := range order.Lines {
		ok, err := tx.DecrementStock(ctx, line.BookID, line.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return fail(ErrValidation, "insufficient stock to reopen order %s", order.OrderCode)
		}
	}
	return nil
}

func (s *OrderService) removeUpload(ctx context.Context, p string) {
	if s.Files == nil || !upload.IsLocal(p) {
		return
	}
	if err := s.Files.Remove(p); err != nil {
		logging.FromContext(ctx).Warn("remove_upload_error", "path", p, "error", err)
	}
}

func (s *OrderService) AdminList(ctx context.Context, f repo.OrderFilter) ([]models.Order, error) {
	if f.OrderStatus != "" && !models.OrderStatus(f.OrderStatus).Valid() {
		return nil, fail(ErrValidation, "unknown order status %q", f.OrderStatus)
	}
	if f.PaymentStatus != "" && !models.PaymentStatus(f.PaymentStatus).Valid() {
		return nil, fail(ErrValidation, "unknown payment status %q", f.PaymentStatus)
	}
	return s.Repo.ListOrders(ctx, f)
}

func (s *OrderService) AdminGet(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return o, nil
}

// AdminUpdate sets either status freely within its enum. Confirming payment
// stamps paidAt once; cancelling an open order restocks its lines and
// reopening a cancelled one takes that stock back.
func (s *OrderService) AdminUpdate(ctx context.Context, id uint, req transport.UpdateOrderRequest) (*models.Order, error) {
	if req.OrderStatus == nil && req.PaymentStatus == nil {
		return nil, fail(ErrValidation, "orderStatus or paymentStatus is required")
	}

	fields := map[string]any{}
	if req.OrderStatus != nil {
		st := models.OrderStatus(*req.OrderStatus)
		if !st.Valid() {
			return nil, fail(ErrValidation, "unknown order status %q", *req.OrderStatus)
		}
		fields["order_status"] = st
	}
	if req.PaymentStatus != nil {
		st := models.PaymentStatus(*req.PaymentStatus)
		if !st.Valid() {
			return nil, fail(ErrValidation, "unknown payment status %q", *req.PaymentStatus)
		}
		fields["payment_status"] = st
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if fields["payment_status"] == models.PaymentConfirmed && order.PaidAt == nil {
		fields["paid_at"] = s.now().UTC()
	}

	next, changing := fields["order_status"].(models.OrderStatus)
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		switch {
		case changing && next == models.OrderCancelled && slices.Contains(cancellable, order.OrderStatus):
			return cancelOrder(ctx, tx, order, fields)
		case changing && next != models.OrderCancelled && order.OrderStatus == models.OrderCancelled:
			return reopenOrder(ctx, tx, order, fields)
		}
		return tx.UpdateOrder(ctx, order.ID, fields)
	})
	if err != nil {
		return nil, notFound(err, "order")
	}

	updated, err := s.AdminGet(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, events.TopicOrders, updated.ID, events.TypeOrderUpdated, map[string]any{
		"orderId":       updated.ID,
		"orderCode":     updated.OrderCode,
		"orderStatus":   updated.OrderStatus,
		"paymentStatus": updated.PaymentStatus,
	})
	return updated, nil
}
