package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	query, args := r.qb.Select(
		"order_id", "subtotal", "shipping_cost", "tax", "total",
		"payment_method", "payment_status", "transaction_id",
		"created_at", "updated_at").
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	query, args = r.qb.Select(
		"order_id", "full_name", "email", "phone", "address",
		"city", "region", "postal_code", "id_type", "id_number").
		From("shipping_info").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var shipping Shipping
	err = r.getContext(ctx, &shipping, query, args...)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get shipping info: %w", err)
	}

	query, args = r.qb.Select(
		"order_id", "product_id", "name", "price", "quantity", "image", "category").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var items []Item
	err = r.selectContext(ctx, &items, query, args...)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order items: %w", err)
	}

	return OrderToEntity(order, shipping, items), nil
}

func (r *postgresRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	query, args := r.qb.Select(
		"order_id", "subtotal", "shipping_cost", "tax", "total",
		"payment_method", "payment_status", "transaction_id",
		"created_at", "updated_at").
		From("orders").
		OrderBy("created_at DESC").
		Limit(uint64(count)).
		MustSql()

	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.OrderID
	}

	query, args = r.qb.Select(
		"order_id", "full_name", "email", "phone", "address",
		"city", "region", "postal_code", "id_type", "id_number").
		From("shipping_info").
		Where(sq.Eq{"order_id": ids}).
		MustSql()

	var shippings []Shipping
	if err := r.selectContext(ctx, &shippings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select shipping info: %w", err)
	}
	shippingMap := make(map[string]Shipping, len(shippings))
	for _, s := range shippings {
		shippingMap[s.OrderID] = s
	}

	query, args = r.qb.Select(
		"order_id", "product_id", "name", "price", "quantity", "image", "category").
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		MustSql()

	var items []Item
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order items: %w", err)
	}
	itemsMap := make(map[string][]Item, len(ids))
	for _, it := range items {
		itemsMap[it.OrderID] = append(itemsMap[it.OrderID], it)
	}

	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderToEntity(order, shippingMap[order.OrderID], itemsMap[order.OrderID]))
	}

	return result, nil
}

func (r *postgresRepo) SaveOrder(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns(
			"order_id", "subtotal", "shipping_cost", "tax", "total",
			"payment_method", "payment_status", "transaction_id",
			"created_at", "updated_at",
		).
		Values(
			o.OrderID, o.Subtotal, o.ShippingCost, o.Tax, o.Total,
			string(o.Method), string(o.Status), nullString(o.TransactionID),
			o.CreatedAt, o.UpdatedAt,
		).
		Suffix("ON CONFLICT (order_id) DO NOTHING").
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *postgresRepo) SaveShipping(ctx context.Context, orderID string, s entities.ShippingInfo) error {
	query, args := r.qb.Insert("shipping_info").
		Columns("order_id", "full_name", "email", "phone", "address",
			"city", "region", "postal_code", "id_type", "id_number").
		Values(orderID, s.FullName, s.Email, s.Phone, s.Address,
			nullString(s.City),
			nullString(s.Region),
			nullString(s.PostalCode),
			nullString(s.IDType),
			nullString(s.IDNumber),
		).
		Suffix("ON CONFLICT (order_id) DO NOTHING").
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save shipping info: %w", err)
	}
	return nil
}

func (r *postgresRepo) SaveItems(ctx context.Context, orderID string, items []entities.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").
		Columns("order_id", "product_id", "name", "price", "quantity", "image", "category").
		Suffix("ON CONFLICT (order_id, product_id) DO NOTHING")

	for _, it := range items {
		q = q.Values(
			orderID,
			it.ProductID,
			it.Name,
			it.Price,
			it.Quantity,
			nullString(it.Image),
			nullString(it.Category),
		)
	}

	query, args := q.MustSql()
	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save order items: %w", err)
	}
	return nil
}

func (r *postgresRepo) UpdateOrderPayment(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error {
	q := r.qb.Update("orders").
		Set("payment_status", string(status)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"order_id": orderID})

	if transactionID != "" {
		q = q.Set("transaction_id", transactionID)
	}

	query, args := q.MustSql()
	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return entities.ErrOrderNotFound
	}
	return nil
}

// PruneOrders drops everything but the keep newest orders. Child rows
// go with them via ON DELETE CASCADE.
func (r *postgresRepo) PruneOrders(ctx context.Context, keep int) error {
	query, args := r.qb.Delete("orders").
		Where(sq.Expr(
			"order_id NOT IN (SELECT order_id FROM orders ORDER BY created_at DESC LIMIT ?)",
			keep,
		)).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to prune orders: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
