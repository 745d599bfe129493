package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JMPenyaP/fixer-back-end/internal/models"
	"github.com/JMPenyaP/fixer-back-end/internal/months"
	"github.com/JMPenyaP/fixer-back-end/internal/repo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	TopProductsLimit = 10
	dateLayout       = "2006-01-02"
)

var (
	ErrValidation   = errors.New("validation")
	ErrInvalidMonth = fmt.Errorf("%w: invalid month name", ErrValidation)
)

type Store interface {
	OrderAmounts(ctx context.Context, from, to time.Time) ([]decimal.Decimal, error)
	OrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	OrdersPerGender(ctx context.Context) ([]repo.GenderCount, error)
	OrdersPerUser(ctx context.Context) ([]repo.UserOrderCount, error)
	TopProductQuantities(ctx context.Context, from, to time.Time, limit int) ([]repo.ProductQuantity, error)
	UsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	CountOrders(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
}

type MonthlySales struct {
	Month      time.Month
	MonthName  string
	TotalSales decimal.Decimal
}

type GenderOrders struct {
	Men            int64
	Women          int64
	PreferNotToSay int64
	Unknown        int64
}

type BuyerCount struct {
	User        *models.User
	TotalOrders int64
}

type ProductSales struct {
	Product   *models.Product
	TotalSold int64
}

type Totals struct {
	Orders   int64
	Users    int64
	Products int64
}

// MetricsService computes read-only dashboard aggregates. Now and Location
// decide the current year and calendar-day boundaries; zero values fall back
// to time.Now and UTC.
type MetricsService struct {
	Repo     Store
	Now      func() time.Time
	Location *time.Location
}

func NewMetricsService(r Store, loc *time.Location) *MetricsService {
	return &MetricsService{Repo: r, Now: time.Now, Location: loc}
}

func (s *MetricsService) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s *MetricsService) currentYear() int {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().In(s.loc()).Year()
}

func (s *MetricsService) SalesByMonth(ctx context.Context) ([]MonthlySales, error) {
	return s.SalesByMonthOf(ctx, s.currentYear())
}

// SalesByMonthOf sums order totals for each calendar month of year. The
// result always has 12 entries in calendar order.
func (s *MetricsService) SalesByMonthOf(ctx context.Context, year int) ([]MonthlySales, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year out of range", ErrValidation)
	}

	out := make([]MonthlySales, 12)
	g, gctx := errgroup.WithContext(ctx)
	for i := range out {
		i := i
		m := time.Month(i + 1)
		g.Go(func() error {
			from, to := months.Range(year, m, s.loc())
			amounts, err := s.Repo.OrderAmounts(gctx, from, to)
			if err != nil {
				return fmt.Errorf("sales for %s %d: %w", m, year, err)
			}
			out[i] = MonthlySales{
				Month:      m,
				MonthName:  months.Name(m),
				TotalSales: decimal.Sum(decimal.Zero, amounts...),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MetricsService) OrdersByGender(ctx context.Context) (GenderOrders, error) {
	var res GenderOrders

	rows, err := s.Repo.OrdersPerGender(ctx)
	if err != nil {
		return res, fmt.Errorf("orders per gender: %w", err)
	}

	for _, row := range rows {
		if row.Gender == nil {
			res.Unknown += row.Total
			continue
		}
		switch *row.Gender {
		case models.GenderMale:
			res.Men += row.Total
		case models.GenderFemale:
			res.Women += row.Total
		case models.GenderPreferNotToSay:
			res.PreferNotToSay += row.Total
		default:
			res.Unknown += row.Total
		}
	}
	return res, nil
}

// OrdersInMonth returns the orders placed during the named Spanish month of
// the current year.
func (s *MetricsService) OrdersInMonth(ctx context.Context, month string) ([]models.Order, error) {
	m, ok := months.Parse(month)
	if !ok {
		return nil, ErrInvalidMonth
	}

	from, to := months.Range(s.currentYear(), m, s.loc())
	orders, err := s.Repo.OrdersBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("orders in %s: %w", m, err)
	}
	return orders, nil
}

func (s *MetricsService) TopBuyers(ctx context.Context) ([]BuyerCount, error) {
	counts, err := s.Repo.OrdersPerUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders per user: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(counts))
	for _, c := range counts {
		if c.UserID != nil {
			ids = append(ids, *c.UserID)
		}
	}
	users, err := s.Repo.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load buyers: %w", err)
	}

	out := make([]BuyerCount, 0, len(counts))
	for _, c := range counts {
		entry := BuyerCount{TotalOrders: c.TotalOrders}
		if c.UserID != nil {
			entry.User = users[*c.UserID]
		}
		out = append(out, entry)
	}
	return out, nil
}

// TopSoldProducts ranks products by quantity sold between two inclusive
// calendar days given as YYYY-MM-DD.
func (s *MetricsService) TopSoldProducts(ctx context.Context, startDate, endDate string) ([]ProductSales, error) {
	from, err := time.ParseInLocation(dateLayout, startDate, s.loc())
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q", ErrValidation, startDate)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, s.loc())
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q", ErrValidation, endDate)
	}
	to := end.AddDate(0, 0, 1)

	if !from.Before(to) {
		return []ProductSales{}, nil
	}

	sold, err := s.Repo.TopProductQuantities(ctx, from, to, TopProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("top product quantities: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(sold))
	for _, p := range sold {
		ids = append(ids, p.ProductID)
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	out := make([]ProductSales, 0, len(sold))
	for _, p := range sold {
		out = append(out, ProductSales{Product: products[p.ProductID], TotalSold: p.TotalSold})
	}
	return out, nil
}

func (s *MetricsService) Totals(ctx context.Context) (Totals, error) {
	var (
		res Totals
		err error
	)
	if res.Orders, err = s.Repo.CountOrders(ctx); err != nil {
		return Totals{}, fmt.Errorf("count orders: %w", err)
	}
	if res.Users, err = s.Repo.CountUsers(ctx); err != nil {
		return Totals{}, fmt.Errorf("count users: %w", err)
	}
	if res.Products, err = s.Repo.CountProducts(ctx); err != nil {
		return Totals{}, fmt.Errorf("count products: %w", err)
	}
	return res, nil
}
