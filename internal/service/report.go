package service

import (
	"context"
	"strings"
	"time"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/repo"
	"golang.org/x/sync/errgroup"
)

const (
	LowStockThreshold = 5
	dateLayout        = "2006-01-02"
	maxReportDays     = 366
	defaultReportDays = 30
	searchLimit       = 10
)

type ReportService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type Dashboard struct {
	TotalBooks           int64          `json:"totalBooks"`
	TotalUsers           int64          `json:"totalUsers"`
	TotalOrders          int64          `json:"totalOrders"`
	Revenue              int64          `json:"revenue"`
	AwaitingConfirmation int64          `json:"awaitingConfirmation"`
	UnreadNotifications  int64          `json:"unreadNotifications"`
	LowStock             []models.Book  `json:"lowStock"`
	LatestOrders         []models.Order `json:"latestOrders"`
}

func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { d.TotalBooks, err = s.Repo.CountActiveBooks(gctx); return })
	g.Go(func() (err error) { d.TotalUsers, err = s.Repo.CountUsers(gctx); return })
	g.Go(func() (err error) { d.TotalOrders, err = s.Repo.CountOrders(gctx); return })
	g.Go(func() (err error) { d.Revenue, err = s.Repo.ConfirmedRevenue(gctx); return })
	g.Go(func() (err error) {
		d.AwaitingConfirmation, err = s.Repo.CountOrdersByStatus(gctx, models.OrderAwaitingConfirmation)
		return
	})
	g.Go(func() (err error) { d.UnreadNotifications, err = s.Repo.UnreadNotifications(gctx); return })
	g.Go(func() (err error) { d.LowStock, err = s.Repo.LowStockBooks(gctx, LowStockThreshold, 10); return })
	g.Go(func() (err error) { d.LatestOrders, err = s.Repo.LatestOrders(gctx, 5); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

type DailySales struct {
	Date    string `json:"date"`
	Orders  int64  `json:"orders"`
	Revenue int64  `json:"revenue"`
}

type SalesReport struct {
	From         string           `json:"from"`
	To           string           `json:"to"`
	TotalOrders  int64            `json:"totalOrders"`
	TotalRevenue int64            `json:"totalRevenue"`
	Daily        []DailySales     `json:"daily"`
	TopBooks     []repo.BookSales `json:"topBooks"`
}

// parseRange reads inclusive YYYY-MM-DD bounds, defaulting to the last 30
// days, and returns [from, to+1day).
func (s *ReportService) parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	to := today
	if toStr = strings.TrimSpace(toStr); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fail(ErrValidation, "to must be YYYY-MM-DD")
		}
		to = t
	}
	from := to.AddDate(0, 0, -(defaultReportDays - 1))
	if fromStr = strings.TrimSpace(fromStr); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fail(ErrValidation, "from must be YYYY-MM-DD")
		}
		from = t
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fail(ErrValidation, "from must not be after to")
	}
	toExcl := to.AddDate(0, 0, 1)
	if toExcl.Sub(from) > maxReportDays*24*time.Hour {
		return time.Time{}, time.Time{}, fail(ErrValidation, "range is limited to %d days", maxReportDays)
	}
	return from, toExcl, nil
}

// Sales reports per-day order count and revenue for orders that were not
// cancelled, plus the ten best selling books of the period.
func (s *ReportService) Sales(ctx context.Context, fromStr, toStr string) (*SalesReport, error) {
	from, toExcl, err := s.parseRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	var (
		orders []models.Order
		top    []repo.BookSales
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { orders, err = s.Repo.OrdersBetween(gctx, from, toExcl); return })
	g.Go(func() (err error) { top, err = s.Repo.TopBooks(gctx, from, toExcl, 10); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &SalesReport{
		From:     from.Format(dateLayout),
		To:       toExcl.AddDate(0, 0, -1).Format(dateLayout),
		Daily:    []DailySales{},
		TopBooks: top,
	}
	byDay := map[string]int{}
	for d := from; d.Before(toExcl); d = d.AddDate(0, 0, 1) {
		byDay[d.Format(dateLayout)] = len(report.Daily)
		report.Daily = append(report.Daily, DailySales{Date: d.Format(dateLayout)})
	}
	for _, o := range orders {
		i, ok := byDay[o.CreatedAt.UTC().Format(dateLayout)]
		if !ok {
			continue
		}
		report.Daily[i].Orders++
		report.Daily[i].Revenue += o.TotalDue
		report.TotalOrders++
		report.TotalRevenue += o.TotalDue
	}
	if report.TopBooks == nil {
		report.TopBooks = []repo.BookSales{}
	}
	return report, nil
}

type AdminSearchResult struct {
	Books  []models.Book  `json:"books"`
	Users  []models.User  `json:"users"`
	Orders []models.Order `json:"orders"`
}

func (s *ReportService) Search(ctx context.Context, q string) (*AdminSearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fail(ErrValidation, "query is required")
	}

	var res AdminSearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { res.Books, err = s.Repo.SearchAllBooks(gctx, q, searchLimit); return })
	g.Go(func() (err error) { res.Users, err = s.Repo.ListUsers(gctx, q, searchLimit); return })
	g.Go(func() (err error) { res.Orders, err = s.Repo.SearchOrders(gctx, q, searchLimit); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}
