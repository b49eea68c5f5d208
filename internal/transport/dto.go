package transport

import "strings"

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone"    validate:"omitempty,max=20"`
}

// LoginRequest accepts the identifier under any of three keys.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password" validate:"required"`
}

func (r LoginRequest) Login() string {
	for _, v := range []string{r.Identifier, r.Username, r.Email} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type CreateBookRequest struct {
	Title      string `json:"title"      form:"title"      validate:"required,max=255"`
	Author     string `json:"author"     form:"author"     validate:"required,max=255"`
	Publisher  string `json:"publisher"  form:"publisher"  validate:"max=255"`
	Year       int    `json:"year"       form:"year"       validate:"gte=0,lte=9999"`
	ISBN       string `json:"isbn"       form:"isbn"       validate:"max=32"`
	Stock      int    `json:"stock"      form:"stock"      validate:"gte=0"`
	Price      int64  `json:"price"      form:"price"      validate:"required,gt=0"`
	Synopsis   string `json:"synopsis"   form:"synopsis"`
	CoverURL   string `json:"coverUrl"   form:"coverUrl"   validate:"max=500"`
	CategoryID uint   `json:"categoryId" form:"categoryId" validate:"required"`
}

type PatchBookRequest struct {
	Title      *string `json:"title"      validate:"omitempty,min=1,max=255"`
	Author     *string `json:"author"     validate:"omitempty,min=1,max=255"`
	Publisher  *string `json:"publisher"  validate:"omitempty,max=255"`
	Year       *int    `json:"year"       validate:"omitempty,gte=0,lte=9999"`
	ISBN       *string `json:"isbn"       validate:"omitempty,max=32"`
	Stock      *int    `json:"stock"      validate:"omitempty,gte=0"`
	Price      *int64  `json:"price"      validate:"omitempty,gt=0"`
	Synopsis   *string `json:"synopsis"`
	CoverURL   *string `json:"coverUrl"   validate:"omitempty,max=500"`
	CategoryID *uint   `json:"categoryId" validate:"omitempty,gt=0"`
	Status     *string `json:"status"     validate:"omitempty,oneof=active retired"`
}

type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=128"`
	Description string `json:"description" validate:"max=1000"`
}

type AddToCartRequest struct {
	BookID   uint `json:"bookId"   validate:"required"`
	Quantity int  `json:"quantity" validate:"required,min=1,max=999"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=999"`
}

type CheckoutRequest struct {
	AddressID     uint   `json:"addressId"     validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=cod bank_transfer ewallet qris"`
	Notes         string `json:"notes"         validate:"max=500"`
}

type ShippingLookupRequest struct {
	City string `json:"city" validate:"required,max=128"`
}

type AddressRequest struct {
	Label         string `json:"label"         validate:"max=64"`
	RecipientName string `json:"recipientName" validate:"required,max=100"`
	Phone         string `json:"phone"         validate:"required,max=20"`
	Street        string `json:"street"        validate:"required,max=500"`
	City          string `json:"city"          validate:"required,max=128"`
	Province      string `json:"province"      validate:"max=128"`
	PostalCode    string `json:"postalCode"    validate:"max=10"`
	IsDefault     bool   `json:"isDefault"`
}

type UpdateOrderRequest struct {
	OrderStatus   *string `json:"orderStatus"   validate:"omitempty,oneof=awaiting_confirmation processing shipped completed cancelled"`
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=unpaid awaiting_confirmation confirmed cancelled"`
}

type ReviewRequest struct {
	BookID  uint   `json:"bookId"  validate:"required"`
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ProfileRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=191"`
	Phone string `json:"phone" validate:"omitempty,max=20"`
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=72"`
}

type AdminUserUpdateRequest struct {
	AccountStatus *string `json:"accountStatus" validate:"omitempty,oneof=active inactive suspended"`
	Role          *string `json:"role"          validate:"omitempty,oneof=admin user"`
}

type SettingsRequest struct {
	TaxPercent          *float64 `json:"taxPercent"          validate:"omitempty,gte=0,lte=100"`
	BankName            *string  `json:"bankName"            validate:"omitempty,max=100"`
	BankAccountNumber   *string  `json:"bankAccountNumber"   validate:"omitempty,max=50"`
	BankAccountName     *string  `json:"bankAccountName"     validate:"omitempty,max=100"`
	EWalletName         *string  `json:"ewalletName"         validate:"omitempty,max=100"`
	EWalletNumber       *string  `json:"ewalletNumber"       validate:"omitempty,max=50"`
	CODEnabled          *bool    `json:"codEnabled"`
	BankTransferEnabled *bool    `json:"bankTransferEnabled"`
	EWalletEnabled      *bool    `json:"ewalletEnabled"`
	QRISEnabled         *bool    `json:"qrisEnabled"`
}

type ShippingRateRequest struct {
	DestinationCity string `json:"destinationCity" validate:"required,max=128"`
	Zone            string `json:"zone"            validate:"max=64"`
	Fee             int64  `json:"fee"             validate:"gte=0"`
}

type ContactRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}
