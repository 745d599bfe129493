package repo

import (
	"context"
	"time"

	"github.com/JMPenyaP/fixer-back-end/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GenderCount struct {
	Gender *string
	Total  int64
}

// UserOrderCount is one user_id group; UserID is nil for orders without a user.
type UserOrderCount struct {
	UserID      *uuid.UUID
	TotalOrders int64
}

type ProductQuantity struct {
	ProductID uuid.UUID
	TotalSold int64
}

// OrderAmounts returns total_amount of every order created in [from, to).
func (r *GormRepo) OrderAmounts(ctx context.Context, from, to time.Time) ([]decimal.Decimal, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("total_amount").
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	amounts := make([]decimal.Decimal, 0, len(orders))
	for i := range orders {
		amounts = append(amounts, orders[i].TotalAmount)
	}
	return amounts, nil
}

func (r *GormRepo) OrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Order("created_at ASC").
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OrdersPerGender counts orders grouped by the owner's gender. Orders without
// a matching user land in the group with a nil Gender.
func (r *GormRepo) OrdersPerGender(ctx context.Context) ([]GenderCount, error) {
	var rows []GenderCount
	if err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("users.gender AS gender, COUNT(orders.id) AS total").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Group("users.gender").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// OrdersPerUser counts orders per user_id. Orders without a user are kept
// as their own group so the counts add up to the total number of orders.
func (r *GormRepo) OrdersPerUser(ctx context.Context) ([]UserOrderCount, error) {
	var rows []UserOrderCount
	if err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("user_id, COUNT(id) AS total_orders").
		Group("user_id").
		Order("total_orders DESC").
		Order("user_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProductQuantities sums sold quantity per product for items created in
// [from, to), largest first, at most limit rows.
func (r *GormRepo) TopProductQuantities(ctx context.Context, from, to time.Time, limit int) ([]ProductQuantity, error) {
	var rows []ProductQuantity
	if err := r.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("product_id, SUM(quantity) AS total_sold").
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Group("product_id").
		Order("total_sold DESC").
		Order("product_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) UsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	out := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
