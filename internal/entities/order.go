package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"
)

// ShippingInfo is immutable once attached to an order.
type ShippingInfo struct {
	FullName   string
	Email      string
	Phone      string
	Address    string
	City       string
	Region     string
	PostalCode string
	IDType     string
	IDNumber   string
}

// OrderItem is a by-value snapshot of a cart line taken at checkout time.
// Later catalog changes must not affect stored orders.
type OrderItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
	Image     string
	Category  string
}

type Order struct {
	OrderID       string
	Items         []OrderItem
	Shipping      ShippingInfo
	Subtotal      float64
	ShippingCost  float64
	Tax           float64
	Total         float64
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrder       = errors.New("invalid order data")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrIllegalTransition  = errors.New("illegal payment status transition")
	ErrInvalidStatus      = errors.New("unknown payment status")
	ErrUnsupportedMethod  = errors.New("unsupported payment method")
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")
)

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(o); err != nil {
		return ErrInvalidOrder
	}
	return nil
}

func init() {
	gob.Register(Order{})
	gob.Register(OrderItem{})
	gob.Register(ShippingInfo{})
}
