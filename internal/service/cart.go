package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/metrics"
	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/bukucerdas/bookstore/pkg/logging"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultShippingFee int64 = 20000
	orderCodeAttempts        = 5
)

type CartService struct {
	Repo    *repo.GormRepo
	Events  events.Publisher
	Metrics *metrics.Metrics
	Now     func() time.Time
	// Suffix returns the random part of an order code, 0..9999.
	Suffix func() int
}

type CartLine struct {
	ItemID    uint         `json:"id"`
	BookID    uint         `json:"bookId"`
	Book      *models.Book `json:"book"`
	Quantity  int          `json:"quantity"`
	UnitPrice int64        `json:"unitPrice"`
	Subtotal  int64        `json:"subtotal"`
}

type CartView struct {
	ID         uint       `json:"id"`
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	Subtotal   int64      `json:"subtotal"`
}

type ShippingQuote struct {
	City    string `json:"city"`
	Fee     int64  `json:"fee"`
	Zone    string `json:"zone"`
	Matched bool   `json:"matched"`
}

type PaymentInfo struct {
	Methods           []models.PaymentMethod `json:"methods"`
	TaxPercent        float64                `json:"taxPercent"`
	BankName          string                 `json:"bankName,omitempty"`
	BankAccountNumber string                 `json:"bankAccountNumber,omitempty"`
	BankAccountName   string                 `json:"bankAccountName,omitempty"`
	EWalletName       string                 `json:"ewalletName,omitempty"`
	EWalletNumber     string                 `json:"ewalletNumber,omitempty"`
	QRISImageURL      string                 `json:"qrisImageUrl,omitempty"`
}

func (s *CartService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CartService) suffix() int {
	if s.Suffix != nil {
		return s.Suffix()
	}
	return rand.Intn(10000)
}

// ComputeTax rounds half away from zero to whole rupiah.
func ComputeTax(subtotal int64, percent float64) int64 {
	return decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

func OrderCode(day time.Time, suffix int) string {
	return fmt.Sprintf("INV-%s-%04d", day.Format("20060102"), suffix%10000)
}

// InitialStatuses: cash on delivery goes straight to processing, every other
// method waits for the buyer's proof of payment.
func InitialStatuses(m models.PaymentMethod) (models.PaymentStatus, models.OrderStatus) {
	if m == models.PaymentCOD {
		return models.PaymentUnpaid, models.OrderProcessing
	}
	return models.PaymentUnpaid, models.OrderAwaitingConfirmation
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	if _, err := s.Repo.EnsureCart(ctx, userID); err != nil {
		return nil, err
	}
	cart, err := s.Repo.GetCartWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{ID: cart.ID, Items: make([]CartLine, 0, len(cart.Items))}
	for _, it := range cart.Items {
		line := CartLine{ItemID: it.ID, BookID: it.BookID, Book: it.Book, Quantity: it.Quantity}
		if it.Book != nil {
			line.UnitPrice = it.Book.Price
			line.Subtotal = it.Book.Price * int64(it.Quantity)
		}
		view.Items = append(view.Items, line)
		view.TotalItems += it.Quantity
		view.Subtotal += line.Subtotal
	}
	return view, nil
}

func (s *CartService) AddItem(ctx context.Context, userID uint, req transport.AddToCartRequest) (*models.CartItem, error) {
	if req.Quantity < 1 {
		return nil, fail(ErrValidation, "quantity must be at least 1")
	}
	if _, err := s.Repo.GetActiveBook(ctx, req.BookID); err != nil {
		return nil, notFound(err, "book")
	}
	cart, err := s.Repo.EnsureCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := &models.CartItem{CartID: cart.ID, BookID: req.BookID, Quantity: req.Quantity}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, fail(ErrValidation, "quantity must be at least 1")
	}
	item, err := s.Repo.GetCartItem(ctx, itemID, userID)
	if err != nil {
		return nil, notFound(err, "cart item")
	}
	if err := s.Repo.SetCartItemQuantity(ctx, item.ID, qty); err != nil {
		return nil, err
	}
	item.Quantity = qty
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	item, err := s.Repo.GetCartItem(ctx, itemID, userID)
	if err != nil {
		return notFound(err, "cart item")
	}
	return s.Repo.DeleteCartItem(ctx, item.ID)
}

func quoteFor(ctx context.Context, r *repo.GormRepo, city string) (ShippingQuote, error) {
	q := ShippingQuote{City: city, Fee: DefaultShippingFee}
	rate, err := r.MatchShippingRate(ctx, city)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return q, nil
		}
		return q, err
	}
	q.Fee = rate.Fee
	q.Zone = rate.Zone
	q.Matched = true
	return q, nil
}

func (s *CartService) ShippingQuote(ctx context.Context, city string) (ShippingQuote, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return ShippingQuote{}, fail(ErrValidation, "city is required")
	}
	return quoteFor(ctx, s.Repo, city)
}

func (s *CartService) PaymentMethods(ctx context.Context) (*PaymentInfo, error) {
	st, err := s.Repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	info := &PaymentInfo{Methods: []models.PaymentMethod{}, TaxPercent: st.TaxPercent}
	for _, m := range []models.PaymentMethod{models.PaymentCOD, models.PaymentBankTransfer, models.PaymentEWallet, models.PaymentQRIS} {
		if st.MethodEnabled(m) {
			info.Methods = append(info.Methods, m)
		}
	}
	if st.BankTransferEnabled {
		info.BankName = st.BankName
		info.BankAccountNumber = st.BankAccountNumber
		info.BankAccountName = st.BankAccountName
	}
	if st.EWalletEnabled {
		info.EWalletName = st.EWalletName
		info.EWalletNumber = st.EWalletNumber
	}
	if st.QRISEnabled {
		info.QRISImageURL = st.QRISImageURL
	}
	return info, nil
}

// Checkout turns the cart into an order. Everything from reading the cart to
// decrementing stock happens in one transaction; any failure leaves cart,
// stock and orders untouched. An order code clash retries with a new code.
func (s *CartService) Checkout(ctx context.Context, userID uint, req transport.CheckoutRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "cart.checkout", "user_id", userID)

	outcome := metrics.CheckoutError
	defer func() { s.Metrics.RecordCheckout(outcome) }()

	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		outcome = metrics.CheckoutInvalid
		return nil, fail(ErrValidation, "unknown payment method")
	}

	var order *models.Order
	var err error
	for attempt := 1; attempt <= orderCodeAttempts; attempt++ {
		now := s.now()
		code := OrderCode(now, s.suffix())
		err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
			var txErr error
			order, outcome, txErr = s.checkoutTx(ctx, tx, userID, req, method, code, now)
			return txErr
		})
		if err == nil || !repo.IsDuplicate(err) {
			break
		}
		l.Warn("order_code_collision", "code", code, "attempt", attempt)
		outcome = metrics.CheckoutError
	}
	if err != nil {
		return nil, err
	}

	outcome = metrics.CheckoutSuccess
	publish(ctx, s.Events, events.TopicOrders, order.ID, events.TypeOrderCreated, map[string]any{
		"orderId":       order.ID,
		"orderCode":     order.OrderCode,
		"userId":        order.UserID,
		"totalDue":      order.TotalDue,
		"paymentMethod": order.PaymentMethod,
	})

	full, err := s.Repo.GetOrderForUser(ctx, order.ID, userID)
	if err != nil {
		return order, nil
	}
	return full, nil
}

func (s *CartService) checkoutTx(
	ctx context.Context,
	tx *repo.GormRepo,
	userID uint,
	req transport.CheckoutRequest,
	method models.PaymentMethod,
	code string,
	now time.Time,
) (*models.Order, string, error) {
	cart, err := tx.GetCartWithItems(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, metrics.CheckoutError, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, metrics.CheckoutEmptyCart, fail(ErrValidation, "cart is empty")
	}

	addr, err := tx.GetAddress(ctx, req.AddressID, userID)
	if err != nil {
		return nil, metrics.CheckoutInvalid, notFound(err, "address")
	}

	settings, err := tx.GetSettings(ctx)
	if err != nil {
		return nil, metrics.CheckoutError, err
	}
	if !settings.MethodEnabled(method) {
		return nil, metrics.CheckoutInvalid, fail(ErrValidation, "payment method %s is not available", method)
	}

	var subtotal int64
	lines := make([]models.OrderLine, 0, len(cart.Items))
	for _, it := range cart.Items {
		if it.Book == nil || !it.Book.Active() {
			return nil, metrics.CheckoutInvalid, fail(ErrValidation, "a book in the cart is no longer available")
		}
		lineTotal := it.Book.Price * int64(it.Quantity)
		subtotal += lineTotal
		lines = append(lines, models.OrderLine{
			BookID:    it.BookID,
			Quantity:  it.Quantity,
			UnitPrice: it.Book.Price,
			Subtotal:  lineTotal,
		})
	}

	quote, err := quoteFor(ctx, tx, addr.City)
	if err != nil {
		return nil, metrics.CheckoutError, err
	}
	tax := ComputeTax(subtotal, settings.TaxPercent)
	paymentStatus, orderStatus := InitialStatuses(method)

	order := &models.Order{
		OrderCode:     code,
		UserID:        userID,
		AddressID:     addr.ID,
		Subtotal:      subtotal,
		ShippingFee:   quote.Fee,
		TaxPercent:    settings.TaxPercent,
		TaxAmount:     tax,
		TotalDue:      subtotal + quote.Fee + tax,
		PaymentMethod: method,
		PaymentStatus: paymentStatus,
		OrderStatus:   orderStatus,
		Notes:         strings.TrimSpace(req.Notes),
		Lines:         lines,
		CreatedAt:     now.UTC(),
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, metrics.CheckoutError, err
	}

	if err := tx.ClearCart(ctx, cart.ID); err != nil {
		return nil, metrics.CheckoutError, err
	}

	for _, it := range cart.Items {
		ok, err := tx.DecrementStock(ctx, it.BookID, it.Quantity)
		if err != nil {
			return nil, metrics.CheckoutError, err
		}
		if !ok {
			return nil, metrics.CheckoutInsufficientStock, fail(ErrValidation, "insufficient stock for %q", it.Book.Title)
		}
	}

	return order, metrics.CheckoutSuccess, nil
}
