package repo

import (
	"database/sql"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
)

type Order struct {
	OrderID       string         `db:"order_id"`
	Subtotal      float64        `db:"subtotal"`
	ShippingCost  float64        `db:"shipping_cost"`
	Tax           float64        `db:"tax"`
	Total         float64        `db:"total"`
	PaymentMethod string         `db:"payment_method"`
	PaymentStatus string         `db:"payment_status"`
	TransactionID sql.NullString `db:"transaction_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type Shipping struct {
	OrderID    string         `db:"order_id"`
	FullName   string         `db:"full_name"`
	Email      string         `db:"email"`
	Phone      string         `db:"phone"`
	Address    string         `db:"address"`
	City       sql.NullString `db:"city"`
	Region     sql.NullString `db:"region"`
	PostalCode sql.NullString `db:"postal_code"`
	IDType     sql.NullString `db:"id_type"`
	IDNumber   sql.NullString `db:"id_number"`
}

type Item struct {
	OrderID   string         `db:"order_id"`
	ProductID string         `db:"product_id"`
	Name      string         `db:"name"`
	Price     float64        `db:"price"`
	Quantity  int            `db:"quantity"`
	Image     sql.NullString `db:"image"`
	Category  sql.NullString `db:"category"`
}

func ShippingToEntity(s Shipping) entities.ShippingInfo {
	return entities.ShippingInfo{
		FullName:   s.FullName,
		Email:      s.Email,
		Phone:      s.Phone,
		Address:    s.Address,
		City:       nullStringToString(s.City),
		Region:     nullStringToString(s.Region),
		PostalCode: nullStringToString(s.PostalCode),
		IDType:     nullStringToString(s.IDType),
		IDNumber:   nullStringToString(s.IDNumber),
	}
}

func ItemToEntity(i Item) entities.OrderItem {
	return entities.OrderItem{
		ProductID: i.ProductID,
		Name:      i.Name,
		Price:     i.Price,
		Quantity:  i.Quantity,
		Image:     nullStringToString(i.Image),
		Category:  nullStringToString(i.Category),
	}
}

func OrderToEntity(o Order, s Shipping, items []Item) entities.Order {
	order := entities.Order{
		OrderID:       o.OrderID,
		Subtotal:      o.Subtotal,
		ShippingCost:  o.ShippingCost,
		Tax:           o.Tax,
		Total:         o.Total,
		Method:        entities.PaymentMethod(o.PaymentMethod),
		Status:        entities.PaymentStatus(o.PaymentStatus),
		TransactionID: nullStringToString(o.TransactionID),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Shipping:      ShippingToEntity(s),
	}

	if len(items) > 0 {
		order.Items = make([]entities.OrderItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, ItemToEntity(it))
		}
	}

	return order
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
