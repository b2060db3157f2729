package handler

import (
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/gallery"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/service"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/money"
)

// AddItemRequest carries the product snapshot being added to the cart.
type AddItemRequest struct {
	ProductID string   `json:"product_id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Price     float64  `json:"price" validate:"gte=0"`
	Images    []string `json:"images,omitempty"`
	Category  string   `json:"category,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartItem is a cart line as shown to the storefront
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	PriceText string `json:"price_text"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Category  string `json:"category,omitempty"`
}

// CartView is the whole cart with recomputed totals
type CartView struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	TotalText string     `json:"total_text"`
	ItemCount int        `json:"item_count"`
}

// ShippingRequest is the step-one form. All fields except postal code
// are required; email must be well-formed and phone numeric-ish.
type ShippingRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=7"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	Region     string `json:"region" validate:"required"`
	PostalCode string `json:"postal_code,omitempty"`
	IDType     string `json:"id_type" validate:"required"`
	IDNumber   string `json:"id_number" validate:"required"`
}

// SelectMethodRequest is the step-two choice plus method-specific data.
type SelectMethodRequest struct {
	Method       string `json:"method" validate:"required,oneof=card bank_redirect wallet manual_contact"`
	CardToken    string `json:"card_token,omitempty"`
	Installments int    `json:"installments,omitempty" validate:"gte=0"`
	BankCode     string `json:"bank_code,omitempty"`
	WalletPhone  string `json:"wallet_phone,omitempty"`
}

// SessionResponse mirrors the checkout session for the UI
type SessionResponse struct {
	ID        string    `json:"id"`
	Step      string    `json:"step"`
	OrderID   string    `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfirmResponse is the outcome of the confirmation step. Completed
// false means a gateway decline; the message explains why.
type ConfirmResponse struct {
	Completed     bool    `json:"completed"`
	Order         *Order  `json:"order,omitempty"`
	StatusMessage string  `json:"status_message,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
	WhatsAppURL   string  `json:"whatsapp_url,omitempty"`
}

// Order is the persisted order as returned by the API
type Order struct {
	OrderID       string       `json:"order_id"`
	Items         []OrderItem  `json:"items"`
	Shipping      ShippingInfo `json:"shipping"`
	Subtotal      float64      `json:"subtotal"`
	ShippingCost  float64      `json:"shipping_cost"`
	Tax           float64      `json:"tax"`
	Total         float64      `json:"total"`
	TotalText     string       `json:"total_text"`
	Method        string       `json:"payment_method"`
	Status        string       `json:"payment_status"`
	TransactionID string       `json:"transaction_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Category  string  `json:"category,omitempty"`
}

type ShippingInfo struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	IDType     string `json:"id_type,omitempty"`
	IDNumber   string `json:"id_number,omitempty"`
}

// GalleryItemRequest adds a CDN-hosted media entry
type GalleryItemRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Kind  string `json:"kind" validate:"required,oneof=image video"`
	Title string `json:"title,omitempty"`
}

type GalleryItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func AddItemRequestToProduct(r AddItemRequest) entities.Product {
	return entities.Product{
		ID:       r.ProductID,
		Name:     r.Name,
		Price:    r.Price,
		Images:   r.Images,
		Category: r.Category,
	}
}

func ShippingRequestToEntity(r ShippingRequest) entities.ShippingInfo {
	return entities.ShippingInfo{
		FullName:   r.FullName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		Region:     r.Region,
		PostalCode: r.PostalCode,
		IDType:     r.IDType,
		IDNumber:   r.IDNumber,
	}
}

func MethodRequestToEntity(r SelectMethodRequest) (entities.PaymentMethod, entities.PaymentMethodData) {
	return entities.PaymentMethod(r.Method), entities.PaymentMethodData{
		CardToken:    r.CardToken,
		Installments: r.Installments,
		BankCode:     r.BankCode,
		WalletPhone:  r.WalletPhone,
	}
}

func CartItemToJSON(it entities.CartItem) CartItem {
	return CartItem{
		ProductID: it.ProductID,
		Name:      it.Name,
		PriceText: it.PriceText,
		Quantity:  it.Quantity,
		Image:     it.Image,
		Category:  it.Category,
	}
}

func CartViewJSON(items []entities.CartItem, total float64, count int) CartView {
	view := CartView{
		Items:     make([]CartItem, 0, len(items)),
		Total:     total,
		TotalText: money.FormatPrice(total),
		ItemCount: count,
	}
	for _, it := range items {
		view.Items = append(view.Items, CartItemToJSON(it))
	}
	return view
}

func SessionToJSON(s service.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Step:      string(s.Step),
		OrderID:   s.OrderID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ShippingEntityToJSON(s entities.ShippingInfo) ShippingInfo {
	return ShippingInfo{
		FullName:   s.FullName,
		Email:      s.Email,
		Phone:      s.Phone,
		Address:    s.Address,
		City:       s.City,
		Region:     s.Region,
		PostalCode: s.PostalCode,
		IDType:     s.IDType,
		IDNumber:   s.IDNumber,
	}
}

func OrderItemEntityToJSON(i entities.OrderItem) OrderItem {
	return OrderItem{
		ProductID: i.ProductID,
		Name:      i.Name,
		Price:     i.Price,
		Quantity:  i.Quantity,
		Image:     i.Image,
		Category:  i.Category,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemEntityToJSON(it))
	}

	return Order{
		OrderID:       o.OrderID,
		Items:         items,
		Shipping:      ShippingEntityToJSON(o.Shipping),
		Subtotal:      o.Subtotal,
		ShippingCost:  o.ShippingCost,
		Tax:           o.Tax,
		Total:         o.Total,
		TotalText:     money.FormatPrice(o.Total),
		Method:        string(o.Method),
		Status:        string(o.Status),
		TransactionID: o.TransactionID,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func GalleryItemToJSON(it gallery.Item) GalleryItem {
	return GalleryItem{
		ID:        it.ID,
		URL:       it.URL,
		Kind:      string(it.Kind),
		Title:     it.Title,
		CreatedAt: it.CreatedAt,
	}
}
