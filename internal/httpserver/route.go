package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/metrics"
	"github.com/bukucerdas/bookstore/internal/middleware/auth"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/search"
	"github.com/bukucerdas/bookstore/internal/service"
	"github.com/bukucerdas/bookstore/internal/upload"
	"github.com/bukucerdas/bookstore/pkg/db"
	"github.com/bukucerdas/bookstore/pkg/middleware/csrf"
	loggingmw "github.com/bukucerdas/bookstore/pkg/middleware/logging"
	"github.com/bukucerdas/bookstore/pkg/middleware/ratelimit"
	"github.com/bukucerdas/bookstore/pkg/validate"
)

// bodyLimit leaves room for a 5MB upload plus form fields.
const bodyLimit = "6M"

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	SecureCookies  bool
	CSRFEnabled    bool
	TrustedOrigins []string
	PublicDir      string
	AuthLimiter    *ratelimit.Limiter
	Metrics        *metrics.Metrics

	Auth     *AuthHTTP
	Catalog  *CatalogHTTP
	Cart     *CartHTTP
	Address  *AddressHTTP
	Orders   *OrderHTTP
	Reviews  *ReviewHTTP
	Profile  *ProfileHTTP
	Contact  *ContactHTTP
	Admin    *AdminHTTP
	Services *Services
}

// Services exposes the wired services for callers outside HTTP, such as the
// scheduled jobs.
type Services struct {
	Catalog *service.CatalogService
}

type Options struct {
	JWTSecret     []byte
	SecureCookies bool
	CSRFEnabled   bool
	// TrustedOrigins are cross-origin frontends allowed past the CSRF
	// origin check.
	TrustedOrigins []string
	PublicDir      string
	Events         events.Publisher
	Search         search.Indexer
	Files          *upload.Store
	Metrics        *metrics.Metrics
	AuthLimiter    *ratelimit.Limiter
}

// Build wires repositories and services over gdb into handlers.
func Build(gdb *gorm.DB, o Options) *Deps {
	r := repo.New(gdb)
	if o.Events == nil {
		o.Events = events.Nop{}
	}
	if o.Search == nil {
		o.Search = search.Nop{}
	}
	if o.Files == nil {
		o.Files = upload.New(o.PublicDir)
	}

	catalog := &service.CatalogService{Repo: r, Events: o.Events, Search: o.Search, Files: o.Files}
	return &Deps{
		DB:             gdb,
		JWTSecret:      o.JWTSecret,
		SecureCookies:  o.SecureCookies,
		CSRFEnabled:    o.CSRFEnabled,
		TrustedOrigins: o.TrustedOrigins,
		PublicDir:      o.PublicDir,
		AuthLimiter:    o.AuthLimiter,
		Metrics:        o.Metrics,

		Auth:    &AuthHTTP{Svc: &service.AuthService{Repo: r, Events: o.Events, JWTSecret: o.JWTSecret}, SecureCookies: o.SecureCookies},
		Catalog: &CatalogHTTP{Svc: catalog},
		Cart:    &CartHTTP{Svc: &service.CartService{Repo: r, Events: o.Events, Metrics: o.Metrics}},
		Address: &AddressHTTP{Svc: &service.AddressService{Repo: r}},
		Orders:  &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: o.Events, Files: o.Files}},
		Reviews: &ReviewHTTP{Svc: &service.ReviewService{Repo: r, Events: o.Events}},
		Profile: &ProfileHTTP{Svc: &service.ProfileService{Repo: r, Files: o.Files}},
		Contact: &ContactHTTP{Svc: &service.ContactService{Repo: r}},
		Admin: &AdminHTTP{
			Users:         &service.UserAdminService{Repo: r},
			Settings:      &service.SettingsService{Repo: r, Files: o.Files},
			Notifications: &service.NotificationService{Repo: r},
			Reports:       &service.ReportService{Repo: r},
		},
		Services: &Services{Catalog: catalog},
	}
}

// NewEcho returns an echo instance with the JSON error handler, the
// validator and the base middleware chain.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger, "/health/live", "/health/ready", "/metrics"))
	e.Use(middleware.BodyLimit(bodyLimit))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware)
		e.GET("/metrics", d.Metrics.Handler())
	}
	e.Use(auth.Session(d.JWTSecret))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	var apiMW []echo.MiddlewareFunc
	if d.CSRFEnabled {
		cfg := csrf.DefaultConfig()
		cfg.Secure = d.SecureCookies
		cfg.TrustedOrigins = d.TrustedOrigins
		cfg.Skipper = csrf.SkipPaths("/api/auth/login", "/api/auth/register")
		apiMW = append(apiMW, csrf.Middleware(cfg))
	}
	api := e.Group("/api", apiMW...)

	var limit []echo.MiddlewareFunc
	if d.AuthLimiter != nil {
		limit = append(limit, d.AuthLimiter.Middleware)
	}
	authG := api.Group("/auth")
	authG.POST("/register", d.Auth.Register, limit...)
	authG.POST("/login", d.Auth.Login, limit...)
	authG.POST("/logout", d.Auth.Logout)
	authG.GET("/me", d.Auth.Me, auth.RequireAuth)

	api.GET("/books", d.Catalog.ListBooks)
	api.GET("/books/search", d.Catalog.SearchBooks)
	api.GET("/books/:id", d.Catalog.GetBook)
	api.GET("/books/:id/reviews", d.Reviews.ListForBook)
	api.GET("/categories", d.Catalog.ListCategories)
	api.GET("/payment-methods", d.Cart.PaymentMethods)
	api.POST("/shipping-rate-lookup", d.Cart.ShippingLookup)
	api.POST("/contact", d.Contact.Submit)

	member := api.Group("", auth.RequireAuth)
	member.GET("/cart", d.Cart.GetCart)
	member.POST("/cart", d.Cart.AddItem)
	member.PUT("/cart/:itemId", d.Cart.UpdateItem)
	member.DELETE("/cart/:itemId", d.Cart.RemoveItem)
	member.POST("/checkout", d.Cart.Checkout)
	member.GET("/reviews/eligibility", d.Reviews.Eligibility)
	member.POST("/reviews", d.Reviews.Create)

	user := api.Group("/user", auth.RequireAuth)
	user.GET("/addresses", d.Address.List)
	user.POST("/addresses", d.Address.Create)
	user.PUT("/addresses/:id", d.Address.Update)
	user.PUT("/addresses/:id/default", d.Address.SetDefault)
	user.DELETE("/addresses/:id", d.Address.Delete)
	user.GET("/orders", d.Orders.ListMine)
	user.GET("/orders/:id", d.Orders.GetMine)
	user.POST("/orders/:id/upload-proof", d.Orders.UploadProof)
	user.POST("/orders/:id/cancel", d.Orders.Cancel)
	user.GET("/profile", d.Profile.Get)
	user.PUT("/profile", d.Profile.Update)
	user.POST("/profile/photo", d.Profile.UpdatePhoto)
	user.PUT("/password", d.Profile.ChangePassword)

	admin := api.Group("/admin", auth.RequireAdmin)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/reports/sales", d.Admin.SalesReport)
	admin.GET("/search", d.Admin.Search)
	admin.GET("/books", d.Catalog.AdminListBooks)
	admin.POST("/books", d.Catalog.CreateBook)
	admin.POST("/books/reindex", d.Catalog.Reindex)
	admin.GET("/books/:id", d.Catalog.AdminGetBook)
	admin.PUT("/books/:id", d.Catalog.UpdateBook)
	admin.DELETE("/books/:id", d.Catalog.RetireBook)
	admin.POST("/categories", d.Catalog.CreateCategory)
	admin.PUT("/categories/:id", d.Catalog.UpdateCategory)
	admin.DELETE("/categories/:id", d.Catalog.DeleteCategory)
	admin.GET("/orders", d.Orders.AdminList)
	admin.GET("/orders/:id", d.Orders.AdminGet)
	admin.PUT("/orders/:id", d.Orders.AdminUpdate)
	admin.DELETE("/reviews/:id", d.Reviews.Delete)
	admin.GET("/users", d.Admin.ListUsers)
	admin.PUT("/users/:id", d.Admin.UpdateUser)
	admin.GET("/settings", d.Admin.GetSettings)
	admin.PUT("/settings", d.Admin.UpdateSettings)
	admin.GET("/shipping-rates", d.Admin.ListShippingRates)
	admin.POST("/shipping-rates", d.Admin.CreateShippingRate)
	admin.PUT("/shipping-rates/:id", d.Admin.UpdateShippingRate)
	admin.DELETE("/shipping-rates/:id", d.Admin.DeleteShippingRate)
	admin.GET("/notifications", d.Admin.ListNotifications)
	admin.PUT("/notifications/read-all", d.Admin.MarkAllNotificationsRead)
	admin.PUT("/notifications/:id/read", d.Admin.MarkNotificationRead)
	admin.GET("/messages", d.Contact.List)

	if d.PublicDir != "" {
		pages := e.Group("", auth.PageGuard)
		pages.Static("/", d.PublicDir)
	}
}
