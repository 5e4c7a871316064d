package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/internal/pricing"
	"github.com/raxitsanghani/Nexura-Sports/internal/repository"
	"github.com/raxitsanghani/Nexura-Sports/pkg/database"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
// Line items and the address are stored as JSONB snapshots; items are frozen
// at checkout and never updated row-by-row.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, user_id, status, previous_status, cancel_reason, items, shipping, subtotal, discount, tax, shipping_cost, grand_total, address, created_at, updated_at`

// Create inserts a new order with its item snapshot.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	var addressJSON []byte
	if o.Address != nil {
		addressJSON, err = json.Marshal(o.Address)
		if err != nil {
			return fmt.Errorf("marshal address: %w", err)
		}
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = r.pool.Exec(ctx, query,
		o.ID,
		o.UserID,
		o.Status,
		o.PreviousStatus,
		o.CancelReason,
		itemsJSON,
		string(o.Shipping),
		o.Subtotal,
		o.Discount,
		o.Tax,
		o.ShippingCost,
		o.GrandTotal,
		addressJSON,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	return o, nil
}

// List returns orders matching the filter with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() gives the total in the same query.
	query := fmt.Sprintf(`
		SELECT `+orderColumns+`, count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o           domain.Order
			itemsJSON   []byte
			addressJSON []byte
			shipping    string
		)

		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Status,
			&o.PreviousStatus,
			&o.CancelReason,
			&itemsJSON,
			&shipping,
			&o.Subtotal,
			&o.Discount,
			&o.Tax,
			&o.ShippingCost,
			&o.GrandTotal,
			&addressJSON,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		if err := hydrateOrder(&o, shipping, itemsJSON, addressJSON); err != nil {
			return nil, 0, err
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, totalCount, nil
}

// UpdateStatus changes the status, previous-status and cancellation reason.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status, previousStatus, cancelReason string) error {
	query := `
		UPDATE orders
		SET status = $1, previous_status = $2, cancel_reason = $3, updated_at = now()
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, status, previousStatus, cancelReason, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes an order permanently.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o           domain.Order
		itemsJSON   []byte
		addressJSON []byte
		shipping    string
	)

	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.PreviousStatus,
		&o.CancelReason,
		&itemsJSON,
		&shipping,
		&o.Subtotal,
		&o.Discount,
		&o.Tax,
		&o.ShippingCost,
		&o.GrandTotal,
		&addressJSON,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := hydrateOrder(&o, shipping, itemsJSON, addressJSON); err != nil {
		return nil, err
	}

	return &o, nil
}

func hydrateOrder(o *domain.Order, shipping string, itemsJSON, addressJSON []byte) error {
	o.Shipping = pricing.Shipping(shipping)

	if len(itemsJSON) > 0 && string(itemsJSON) != "null" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return fmt.Errorf("unmarshal order items: %w", err)
		}
	} else {
		o.Items = []domain.OrderItem{}
	}

	if len(addressJSON) > 0 && string(addressJSON) != "null" {
		var addr domain.Address
		if err := json.Unmarshal(addressJSON, &addr); err != nil {
			return fmt.Errorf("unmarshal address: %w", err)
		}
		o.Address = &addr
	}

	return nil
}
