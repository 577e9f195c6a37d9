package repo

import (
	"context"

	"github.com/truongnx/gearstore/internal/models"
)

// DashboardStats is the admin overview aggregation. Revenue sums every
// non-cancelled order: item subtotals plus shipping fees minus discounts.
type DashboardStats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalOrders   int64   `json:"total_orders"`
	TotalProducts int64   `json:"total_products"`
	TotalRevenue  float64 `json:"total_revenue"`
}

func (r *GormRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	var itemRevenue float64
	err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.StatusCancelled).
		Select("COALESCE(SUM(order_items.price * order_items.quantity), 0)").
		Scan(&itemRevenue).Error
	if err != nil {
		return nil, err
	}

	var feesAndDiscounts float64
	err = db.Model(&models.Order{}).
		Where("status <> ?", models.StatusCancelled).
		Select("COALESCE(SUM(shipping_fee - discount), 0)").
		Scan(&feesAndDiscounts).Error
	if err != nil {
		return nil, err
	}

	stats.TotalRevenue = itemRevenue + feesAndDiscounts
	return stats, nil
}
