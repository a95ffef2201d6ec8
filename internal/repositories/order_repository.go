package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/servease/household-services-platform/internal/models"
	"github.com/servease/household-services-platform/internal/utils"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	addressJSON, err := json.Marshal(order.Address)
	if err != nil {
		return fmt.Errorf("failed to marshal order address: %w", err)
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, customer_id, status, subtotal, discount_amount, gst_amount, service_charge_amount, final_amount, coupon_code, address, notes, scheduled_date, time_slot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`

	_, err = tx.ExecContext(dbCtx, query,
		order.ID, order.CustomerID, order.Status,
		order.Subtotal, order.DiscountAmount, order.GSTAmount, order.ServiceChargeAmount, order.FinalAmount,
		order.CouponCode, addressJSON, order.Notes, order.ScheduledDate, order.TimeSlot,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, service_id, service_name, category_id, subcategory_id, variant_id, quantity, unit_price, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`

	for _, item := range order.Items {
		_, err := tx.ExecContext(dbCtx, itemQuery,
			item.ID, order.ID, item.ServiceID, item.ServiceName, item.CategoryID, item.SubcategoryID,
			item.VariantID, item.Quantity, item.UnitPrice, item.TotalPrice, item.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT customer_id, status, subtotal, discount_amount, gst_amount, service_charge_amount, final_amount, coupon_code, address, notes, scheduled_date, time_slot, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var addressJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&order.CustomerID, &order.Status,
		&order.Subtotal, &order.DiscountAmount, &order.GSTAmount, &order.ServiceChargeAmount, &order.FinalAmount,
		&order.CouponCode, &addressJSON, &order.Notes, &order.ScheduledDate, &order.TimeSlot,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &order.Address); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order address: %w", err)
	}

	itemsQuery := `
		SELECT id, service_id, service_name, category_id, subcategory_id, variant_id, quantity, unit_price, total_price, status, created_at
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.DB.QueryContext(dbCtx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := models.ResolvedOrderItem{OrderID: id}

		err := rows.Scan(
			&item.ID, &item.ServiceID, &item.ServiceName, &item.CategoryID, &item.SubcategoryID,
			&item.VariantID, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Status, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}

		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order item rows: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByCustomer(ctx context.Context, customerID string, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := `
		SELECT id, status, subtotal, discount_amount, gst_amount, service_charge_amount, final_amount, coupon_code, address, notes, scheduled_date, time_slot, created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, customerID, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		order := models.Order{CustomerID: customerID}

		var addressJSON []byte

		err := rows.Scan(
			&order.ID, &order.Status,
			&order.Subtotal, &order.DiscountAmount, &order.GSTAmount, &order.ServiceChargeAmount, &order.FinalAmount,
			&order.CouponCode, &addressJSON, &order.Notes, &order.ScheduledDate, &order.TimeSlot,
			&order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order row: %w", err)
		}

		if err := json.Unmarshal(addressJSON, &order.Address); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal order address: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return nil, sql.ErrNoRows
	}

	return r.GetOrderByID(ctx, id)
}
