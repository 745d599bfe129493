package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JMPenyaP/fixer-back-end/internal/models"
	"github.com/JMPenyaP/fixer-back-end/internal/repo"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:                                  func() time.Time { return testNow },
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to :memory: would get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestService(t *testing.T) (*MetricsService, *gorm.DB) {
	db := InitTestDB(t)
	svc := NewMetricsService(&repo.GormRepo{DB: db}, time.UTC)
	svc.Now = func() time.Time { return testNow }
	return svc, db
}

func at(month time.Month, day, hour int) time.Time {
	return time.Date(testNow.Year(), month, day, hour, 0, 0, 0, time.UTC)
}

func seedUser(t *testing.T, db *gorm.DB, gender string) *models.User {
	t.Helper()
	u := &models.User{Name: "user", Email: uuid.NewString() + "@example.com", Gender: gender}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.RequireFromString("9.99"), Stock: 10}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedOrder(t *testing.T, db *gorm.DB, user *models.User, amount string, createdAt time.Time) *models.Order {
	t.Helper()
	o := &models.Order{TotalAmount: decimal.RequireFromString(amount), CreatedAt: createdAt}
	if user != nil {
		o.UserID = &user.ID
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func seedItem(t *testing.T, db *gorm.DB, order *models.Order, product *models.Product, qty int, createdAt time.Time) {
	t.Helper()
	item := &models.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: qty, CreatedAt: createdAt}
	require.NoError(t, db.Create(item).Error)
}

func TestMetricsService_SalesByMonth(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	u := seedUser(t, db, models.GenderMale)

	seedOrder(t, db, u, "10.50", at(time.January, 1, 0))
	seedOrder(t, db, u, "4.50", at(time.January, 31, 23))
	seedOrder(t, db, u, "100.00", at(time.February, 28, 12))
	seedOrder(t, db, u, "0.10", at(time.December, 31, 23))
	seedOrder(t, db, u, "0.20", at(time.December, 31, 22))
	// outside the current year
	seedOrder(t, db, u, "999.00", time.Date(testNow.Year()-1, time.December, 31, 23, 0, 0, 0, time.UTC))
	seedOrder(t, db, u, "999.00", time.Date(testNow.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC))

	sales, err := svc.SalesByMonth(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 12)

	names := []string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	total := decimal.Zero
	for i, s := range sales {
		assert.Equal(t, time.Month(i+1), s.Month)
		assert.Equal(t, names[i], s.MonthName)
		total = total.Add(s.TotalSales)
	}

	assert.True(t, decimal.RequireFromString("15").Equal(sales[0].TotalSales), sales[0].TotalSales.String())
	assert.True(t, decimal.RequireFromString("100").Equal(sales[1].TotalSales), sales[1].TotalSales.String())
	assert.True(t, decimal.RequireFromString("0.3").Equal(sales[11].TotalSales), sales[11].TotalSales.String())
	assert.True(t, sales[5].TotalSales.IsZero())
	assert.True(t, decimal.RequireFromString("115.3").Equal(total), total.String())
}

func TestMetricsService_SalesByMonthOf_EmptyYear(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	sales, err := svc.SalesByMonthOf(context.Background(), 1999)
	require.NoError(t, err)
	require.Len(t, sales, 12)
	for _, s := range sales {
		assert.True(t, s.TotalSales.IsZero())
	}

	_, err = svc.SalesByMonthOf(context.Background(), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMetricsService_OrdersByGender(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	man := seedUser(t, db, models.GenderMale)
	woman := seedUser(t, db, models.GenderFemale)
	private := seedUser(t, db, models.GenderPreferNotToSay)
	other := seedUser(t, db, "otro")
	deleted := &models.User{ID: uuid.New()}

	seedOrder(t, db, man, "1", testNow)
	seedOrder(t, db, man, "1", testNow)
	seedOrder(t, db, woman, "1", testNow)
	seedOrder(t, db, private, "1", testNow)
	seedOrder(t, db, other, "1", testNow)
	seedOrder(t, db, deleted, "1", testNow)
	seedOrder(t, db, nil, "1", testNow)

	res, err := svc.OrdersByGender(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GenderOrders{Men: 2, Women: 1, PreferNotToSay: 1, Unknown: 3}, res)

	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Men+res.Women+res.PreferNotToSay, totals.Orders)
}

func TestMetricsService_OrdersByGender_Empty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	res, err := svc.OrdersByGender(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GenderOrders{}, res)
}

func TestMetricsService_OrdersInMonth(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	u := seedUser(t, db, models.GenderFemale)

	want := []*models.Order{
		seedOrder(t, db, u, "1", at(time.March, 1, 0)),
		seedOrder(t, db, u, "2", at(time.March, 15, 10)),
		seedOrder(t, db, u, "3", at(time.March, 31, 23)),
	}
	seedOrder(t, db, u, "4", at(time.February, 28, 23))
	seedOrder(t, db, u, "5", at(time.April, 1, 0))
	seedOrder(t, db, u, "6", time.Date(testNow.Year()-1, time.March, 10, 0, 0, 0, 0, time.UTC))

	orders, err := svc.OrdersInMonth(context.Background(), "marzo")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := range want {
		assert.Equal(t, want[i].ID, orders[i].ID)
	}

	feb, err := svc.OrdersInMonth(context.Background(), "Febrero")
	require.NoError(t, err)
	require.Len(t, feb, 1)
	assert.True(t, decimal.RequireFromString("4").Equal(feb[0].TotalAmount))
}

func TestMetricsService_OrdersInMonth_InvalidName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	orders, err := svc.OrdersInMonth(context.Background(), "notamonth")
	require.Error(t, err)
	assert.Nil(t, orders)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMetricsService_TopBuyers(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	a := seedUser(t, db, models.GenderMale)
	b := seedUser(t, db, models.GenderFemale)
	seedUser(t, db, models.GenderFemale)
	gone := &models.User{ID: uuid.New()}

	for i := 0; i < 3; i++ {
		seedOrder(t, db, a, "1", testNow)
	}
	seedOrder(t, db, b, "1", testNow)
	seedOrder(t, db, gone, "1", testNow)
	seedOrder(t, db, gone, "1", testNow)
	for i := 0; i < 4; i++ {
		seedOrder(t, db, nil, "1", testNow)
	}

	buyers, err := svc.TopBuyers(context.Background())
	require.NoError(t, err)
	require.Len(t, buyers, 4)

	// orders without a user form their own group
	assert.Nil(t, buyers[0].User)
	assert.EqualValues(t, 4, buyers[0].TotalOrders)

	require.NotNil(t, buyers[1].User)
	assert.Equal(t, a.ID, buyers[1].User.ID)
	assert.EqualValues(t, 3, buyers[1].TotalOrders)

	// deleted user keeps its count
	assert.Nil(t, buyers[2].User)
	assert.EqualValues(t, 2, buyers[2].TotalOrders)

	require.NotNil(t, buyers[3].User)
	assert.Equal(t, b.ID, buyers[3].User.ID)
	assert.EqualValues(t, 1, buyers[3].TotalOrders)

	var sum int64
	for _, b := range buyers {
		sum += b.TotalOrders
	}
	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, totals.Orders, sum)
}

func TestMetricsService_TopSoldProducts(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	u := seedUser(t, db, models.GenderMale)
	order := seedOrder(t, db, u, "1", at(time.May, 1, 0))

	products := make([]*models.Product, 12)
	for i := range products {
		products[i] = seedProduct(t, db, "product")
		// product i sells i+1 units inside the range
		seedItem(t, db, order, products[i], i+1, at(time.May, 10, 12))
	}
	// boundaries are inclusive calendar days
	seedItem(t, db, order, products[0], 100, at(time.May, 1, 0))
	seedItem(t, db, order, products[1], 100, time.Date(testNow.Year(), time.May, 20, 23, 59, 59, 0, time.UTC))
	// outside the range
	seedItem(t, db, order, products[2], 1000, at(time.April, 30, 23))
	seedItem(t, db, order, products[3], 1000, at(time.May, 21, 0))

	year := testNow.Format("2006")
	res, err := svc.TopSoldProducts(context.Background(), year+"-05-01", year+"-05-20")
	require.NoError(t, err)
	require.Len(t, res, TopProductsLimit)

	require.NotNil(t, res[0].Product)
	assert.Equal(t, products[1].ID, res[0].Product.ID)
	assert.EqualValues(t, 102, res[0].TotalSold)
	assert.Equal(t, products[0].ID, res[1].Product.ID)
	assert.EqualValues(t, 101, res[1].TotalSold)
	assert.Equal(t, products[11].ID, res[2].Product.ID)
	assert.EqualValues(t, 12, res[2].TotalSold)

	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, res[i-1].TotalSold, res[i].TotalSold)
	}
}

func TestMetricsService_TopSoldProducts_MissingProduct(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	u := seedUser(t, db, models.GenderMale)
	order := seedOrder(t, db, u, "1", testNow)
	kept := seedProduct(t, db, "kept")
	seedItem(t, db, order, kept, 1, testNow)
	seedItem(t, db, order, &models.Product{ID: uuid.New()}, 5, testNow)

	day := testNow.Format("2006-01-02")
	res, err := svc.TopSoldProducts(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Nil(t, res[0].Product)
	assert.EqualValues(t, 5, res[0].TotalSold)
	require.NotNil(t, res[1].Product)
	assert.Equal(t, kept.ID, res[1].Product.ID)
}

func TestMetricsService_TopSoldProducts_Dates(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	u := seedUser(t, db, models.GenderMale)
	order := seedOrder(t, db, u, "1", testNow)
	seedItem(t, db, order, seedProduct(t, db, "p"), 1, testNow)

	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{name: "reversed range", start: "2025-07-01", end: "2025-06-01"},
		{name: "bad start", start: "01/06/2025", end: "2025-06-30", wantErr: true},
		{name: "bad end", start: "2025-06-01", end: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := svc.TopSoldProducts(context.Background(), tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, res)
		})
	}
}

func TestMetricsService_Totals(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)

	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)

	u := seedUser(t, db, models.GenderMale)
	seedUser(t, db, models.GenderFemale)
	seedProduct(t, db, "a")
	seedProduct(t, db, "b")
	seedProduct(t, db, "c")
	seedOrder(t, db, u, "1", testNow)

	totals, err = svc.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Totals{Orders: 1, Users: 2, Products: 3}, totals)
}

type failingStore struct {
	Store
	err error
}

func (f failingStore) OrderAmounts(ctx context.Context, from, to time.Time) ([]decimal.Decimal, error) {
	if from.Month() == time.July {
		return nil, f.err
	}
	return nil, nil
}

func (f failingStore) CountUsers(ctx context.Context) (int64, error) {
	return 0, f.err
}

func (f failingStore) CountOrders(ctx context.Context) (int64, error) {
	return 7, nil
}

func (f failingStore) OrdersPerUser(ctx context.Context) ([]repo.UserOrderCount, error) {
	id := uuid.New()
	return []repo.UserOrderCount{{UserID: &id, TotalOrders: 3}}, nil
}

func (f failingStore) UsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	return nil, f.err
}

func (f failingStore) TopProductQuantities(ctx context.Context, from, to time.Time, limit int) ([]repo.ProductQuantity, error) {
	return []repo.ProductQuantity{{ProductID: uuid.New(), TotalSold: 5}}, nil
}

func (f failingStore) ProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	return nil, f.err
}

func TestMetricsService_PropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	svc := NewMetricsService(failingStore{err: boom}, time.UTC)

	sales, err := svc.SalesByMonthOf(context.Background(), 2025)
	assert.Nil(t, sales)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Totals(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestMetricsService_EnrichmentErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	svc := NewMetricsService(failingStore{err: boom}, time.UTC)

	buyers, err := svc.TopBuyers(context.Background())
	assert.Nil(t, buyers)
	assert.ErrorIs(t, err, boom)

	products, err := svc.TopSoldProducts(context.Background(), "2025-01-01", "2025-01-31")
	assert.Nil(t, products)
	assert.ErrorIs(t, err, boom)
}
