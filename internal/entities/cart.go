package entities

// Product is a read-mostly catalog entity owned by the product service.
// Checkout only ever snapshots it into order items.
type Product struct {
	ID          string
	Name        string
	Price       float64
	Images      []string
	Category    string
	Description string
	Stock       int
}

// CartItem is a live cart line. PriceText keeps the display string the
// storefront shows ("$89.000"); the numeric price is derived from it.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	PriceText string `json:"price_text"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Category  string `json:"category,omitempty"`
}
