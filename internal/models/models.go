package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountInactive  AccountStatus = "inactive"
	AccountSuspended AccountStatus = "suspended"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountInactive, AccountSuspended:
		return true
	}
	return false
}

type User struct {
	ID            uint          `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name          string        `gorm:"not null"                          json:"name"`
	Username      string        `gorm:"uniqueIndex;size:64;not null"      json:"username"`
	Email         string        `gorm:"uniqueIndex;size:191;not null"     json:"email"`
	PasswordHash  string        `gorm:"not null"                          json:"-"`
	Phone         string        `                                         json:"phone"`
	Role          Role          `gorm:"size:16;not null"                  json:"role"`
	AccountStatus AccountStatus `gorm:"size:16;not null"                  json:"accountStatus"`
	PhotoURL      string        `                                         json:"photoUrl"`
	LastLoginAt   *time.Time    `                                         json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time     `                                         json:"registeredAt"`
	UpdatedAt     time.Time     `                                         json:"updatedAt"`
}

type Address struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"index;not null"           json:"userId"`
	Label         string    `                                json:"label"`
	RecipientName string    `gorm:"not null"                 json:"recipientName"`
	Phone         string    `gorm:"not null"                 json:"phone"`
	Street        string    `gorm:"not null"                 json:"street"`
	City          string    `gorm:"not null"                 json:"city"`
	Province      string    `                                json:"province"`
	PostalCode    string    `                                json:"postalCode"`
	IsDefault     bool      `gorm:"not null"                 json:"isDefault"`
	CreatedAt     time.Time `                                json:"createdAt"`
	UpdatedAt     time.Time `                                json:"updatedAt"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description string    `                                 json:"description"`
	CreatedAt   time.Time `                                 json:"createdAt"`
	UpdatedAt   time.Time `                                 json:"updatedAt"`
}

// BookStatus replaces a boolean active flag: retired books stay in the table
// so historical order lines keep a valid reference.
type BookStatus string

const (
	BookActive  BookStatus = "active"
	BookRetired BookStatus = "retired"
)

type Book struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"       json:"id"`
	Title         string     `gorm:"not null;index"                 json:"title"`
	Author        string     `gorm:"not null"                       json:"author"`
	Publisher     string     `                                      json:"publisher"`
	Year          int        `                                      json:"year"`
	ISBN          string     `gorm:"size:32"                        json:"isbn"`
	Stock         int        `gorm:"not null"                       json:"stock"`
	Price         int64      `gorm:"not null"                       json:"price"`
	Synopsis      string     `                                      json:"synopsis"`
	CoverURL      string     `                                      json:"coverUrl"`
	Status        BookStatus `gorm:"size:16;not null;index"         json:"status"`
	AverageRating float64    `gorm:"not null"                       json:"averageRating"`
	CategoryID    *uint      `gorm:"index"                          json:"categoryId"`
	Category      *Category  `gorm:"constraint:OnDelete:RESTRICT;"  json:"category,omitempty"`
	CreatedAt     time.Time  `                                      json:"createdAt"`
	UpdatedAt     time.Time  `                                      json:"updatedAt"`
}

func (b Book) Active() bool { return b.Status == BookActive }

// MarshalJSON adds the derived activeStatus flag the storefront filters on.
func (b Book) MarshalJSON() ([]byte, error) {
	type alias Book
	return json.Marshal(struct {
		alias
		ActiveStatus bool `json:"activeStatus"`
	}{alias(b), b.Active()})
}

// ActiveBooks is the default scope for anything customer facing.
func ActiveBooks(db *gorm.DB) *gorm.DB {
	return db.Where("books.status = ?", BookActive)
}

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"     json:"userId"`
	Items     []CartItem `gorm:"foreignKey:CartID"        json:"items"`
	CreatedAt time.Time  `                                json:"createdAt"`
	UpdatedAt time.Time  `                                json:"updatedAt"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                 json:"id"`
	CartID    uint      `gorm:"uniqueIndex:idx_cart_book;not null"       json:"cartId"`
	BookID    uint      `gorm:"uniqueIndex:idx_cart_book;not null"       json:"bookId"`
	Book      *Book     `                                                json:"book,omitempty"`
	Quantity  int       `gorm:"not null;check:quantity>0"                json:"quantity"`
	CreatedAt time.Time `                                                json:"createdAt"`
	UpdatedAt time.Time `                                                json:"updatedAt"`
}

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentEWallet      PaymentMethod = "ewallet"
	PaymentQRIS         PaymentMethod = "qris"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentBankTransfer, PaymentEWallet, PaymentQRIS:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid               PaymentStatus = "unpaid"
	PaymentAwaitingConfirmation PaymentStatus = "awaiting_confirmation"
	PaymentConfirmed            PaymentStatus = "confirmed"
	PaymentCancelled            PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentAwaitingConfirmation, PaymentConfirmed, PaymentCancelled:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderAwaitingConfirmation OrderStatus = "awaiting_confirmation"
	OrderProcessing           OrderStatus = "processing"
	OrderShipped              OrderStatus = "shipped"
	OrderCompleted            OrderStatus = "completed"
	OrderCancelled            OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderAwaitingConfirmation, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            uint          `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderCode     string        `gorm:"uniqueIndex;size:32;not null" json:"orderCode"`
	UserID        uint          `gorm:"index;not null"               json:"userId"`
	User          *User         `                                    json:"user,omitempty"`
	AddressID     uint          `gorm:"index;not null"               json:"addressId"`
	Address       *Address      `                                    json:"address,omitempty"`
	Subtotal      int64         `gorm:"not null"                     json:"subtotal"`
	ShippingFee   int64         `gorm:"not null"                     json:"shippingFee"`
	TaxPercent    float64       `gorm:"not null"                     json:"taxPercent"`
	TaxAmount     int64         `gorm:"not null"                     json:"taxAmount"`
	TotalDue      int64         `gorm:"not null"                     json:"totalDue"`
	PaymentMethod PaymentMethod `gorm:"size:32;not null"             json:"paymentMethod"`
	PaymentStatus PaymentStatus `gorm:"size:32;not null;index"       json:"paymentStatus"`
	OrderStatus   OrderStatus   `gorm:"size:32;not null;index"       json:"orderStatus"`
	ProofURL      string        `                                    json:"proofUrl"`
	Notes         string        `                                    json:"notes"`
	PaidAt        *time.Time    `                                    json:"paidAt,omitempty"`
	// StockReleased is set while the order's quantities are back in stock.
	StockReleased bool        `gorm:"not null;default:false"       json:"-"`
	Lines         []OrderLine `gorm:"foreignKey:OrderID"           json:"lines"`
	CreatedAt     time.Time   `gorm:"index"                        json:"createdAt"`
	UpdatedAt     time.Time   `                                    json:"updatedAt"`
}

type OrderLine struct {
	ID        uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint  `gorm:"index;not null"           json:"orderId"`
	BookID    uint  `gorm:"index;not null"           json:"bookId"`
	Book      *Book `                                json:"book,omitempty"`
	Quantity  int   `gorm:"not null"                 json:"quantity"`
	UnitPrice int64 `gorm:"not null"                 json:"unitPrice"`
	Subtotal  int64 `gorm:"not null"                 json:"subtotal"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	BookID    uint      `gorm:"uniqueIndex:idx_review_user_book;not null" json:"bookId"`
	UserID    uint      `gorm:"uniqueIndex:idx_review_user_book;not null" json:"userId"`
	User      *User     `                                                 json:"user,omitempty"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5"     json:"rating"`
	Comment   string    `                                                 json:"comment"`
	CreatedAt time.Time `                                                 json:"createdAt"`
	UpdatedAt time.Time `                                                 json:"updatedAt"`
}

// StoreSettings is a singleton row, created on first read.
type StoreSettings struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TaxPercent          float64   `gorm:"not null"                 json:"taxPercent"`
	BankName            string    `                                json:"bankName"`
	BankAccountNumber   string    `                                json:"bankAccountNumber"`
	BankAccountName     string    `                                json:"bankAccountName"`
	EWalletName         string    `                                json:"ewalletName"`
	EWalletNumber       string    `                                json:"ewalletNumber"`
	QRISImageURL        string    `                                json:"qrisImageUrl"`
	CODEnabled          bool      `gorm:"not null"                 json:"codEnabled"`
	BankTransferEnabled bool      `gorm:"not null"                 json:"bankTransferEnabled"`
	EWalletEnabled      bool      `gorm:"not null"                 json:"ewalletEnabled"`
	QRISEnabled         bool      `gorm:"not null"                 json:"qrisEnabled"`
	UpdatedAt           time.Time `                                json:"updatedAt"`
}

func (s StoreSettings) MethodEnabled(m PaymentMethod) bool {
	switch m {
	case PaymentCOD:
		return s.CODEnabled
	case PaymentBankTransfer:
		return s.BankTransferEnabled
	case PaymentEWallet:
		return s.EWalletEnabled
	case PaymentQRIS:
		return s.QRISEnabled
	}
	return false
}

type ShippingRate struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DestinationCity string    `gorm:"not null"                 json:"destinationCity"`
	Zone            string    `                                json:"zone"`
	Fee             int64     `gorm:"not null"                 json:"fee"`
	CreatedAt       time.Time `                                json:"createdAt"`
	UpdatedAt       time.Time `                                json:"updatedAt"`
}

type AdminNotification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      string    `gorm:"size:64;not null"         json:"type"`
	Title     string    `gorm:"not null"                 json:"title"`
	Message   string    `                                json:"message"`
	OrderID   *uint     `gorm:"index"                    json:"orderId,omitempty"`
	Read      bool      `gorm:"not null;index"           json:"read"`
	CreatedAt time.Time `                                json:"createdAt"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Email     string    `gorm:"not null"                 json:"email"`
	Subject   string    `                                json:"subject"`
	Message   string    `gorm:"not null"                 json:"message"`
	CreatedAt time.Time `                                json:"createdAt"`
}

func All() []any {
	return []any{
		&User{}, &Address{}, &Category{}, &Book{}, &Cart{}, &CartItem{},
		&Order{}, &OrderLine{}, &Review{}, &StoreSettings{}, &ShippingRate{},
		&AdminNotification{}, &ContactMessage{},
	}
}
