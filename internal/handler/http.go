package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/gallery"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/service"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type CartStore interface {
	AddItem(product entities.Product) []entities.CartItem
	UpdateQuantity(productID string, quantity int) []entities.CartItem
	RemoveItem(productID string) []entities.CartItem
	Items() []entities.CartItem
	Total() float64
	ItemCount() int
}

type CheckoutFlow interface {
	Start(ctx context.Context) (service.Session, error)
	GetSession(ctx context.Context, sessionID string) (service.Session, error)
	SubmitShipping(ctx context.Context, sessionID string, shipping entities.ShippingInfo) (service.Session, error)
	SelectMethod(ctx context.Context, sessionID string, method entities.PaymentMethod, data entities.PaymentMethodData) (service.Session, error)
	Confirm(ctx context.Context, sessionID string) (service.ConfirmResult, error)
	Back(ctx context.Context, sessionID string) (service.Session, bool, error)
	Abandon(ctx context.Context, sessionID string) error
}

type OrderGetter interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)
}

type GalleryStore interface {
	Add(url string, kind gallery.Kind, title string) (gallery.Item, error)
	List() ([]gallery.Item, error)
	Remove(id string) error
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	cart     CartStore
	checkout CheckoutFlow
	orders   OrderGetter
	gallery  GalleryStore
}

func NewHTTPHandler(logger *slog.Logger, cart CartStore, checkout CheckoutFlow, orders OrderGetter, gallery GalleryStore) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		cart:     cart,
		checkout: checkout,
		orders:   orders,
		gallery:  gallery,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddCartItem)
		r.Patch("/items/{product_id}", h.UpdateCartItem)
		r.Delete("/items/{product_id}", h.RemoveCartItem)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", h.StartCheckout)
		r.Get("/{session_id}", h.GetCheckout)
		r.Post("/{session_id}/shipping", h.SubmitShipping)
		r.Post("/{session_id}/method", h.SelectMethod)
		r.Post("/{session_id}/confirm", h.Confirm)
		r.Post("/{session_id}/back", h.Back)
		r.Delete("/{session_id}", h.AbandonCheckout)
	})

	r.Get("/order/{order_id}", h.GetOrderByID)
	r.Get("/orders/latest", h.LatestOrders)

	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", h.ListGallery)
		r.Post("/", h.AddGalleryItem)
		r.Delete("/{item_id}", h.RemoveGalleryItem)
	})
}

// GetCart returns the live cart.
// @Summary      Get cart
// @Description  Returns the cart lines with recomputed totals
// @Tags         cart
// @Success      200  {object}  CartView
// @Router       /cart [get]
func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, CartViewJSON(h.cart.Items(), h.cart.Total(), h.cart.ItemCount()), http.StatusOK)
}

// AddCartItem adds a product to the cart.
// @Summary      Add cart item
// @Description  Adds a product, bumping quantity if already present
// @Tags         cart
// @Param        request  body  AddItemRequest  true  "Product snapshot"
// @Success      200  {object}  CartView
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Router       /cart/items [post]
func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	items := h.cart.AddItem(AddItemRequestToProduct(req))
	utils.WriteJSON(w, CartViewJSON(items, h.cart.Total(), h.cart.ItemCount()), http.StatusOK)
}

// UpdateCartItem sets a line's quantity; zero or less removes it.
// @Summary      Update cart item quantity
// @Tags         cart
// @Param        product_id  path  string                 true  "Product id"
// @Param        request     body  UpdateQuantityRequest  true  "New quantity"
// @Success      200  {object}  CartView
// @Router       /cart/items/{product_id} [patch]
func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items := h.cart.UpdateQuantity(productID, req.Quantity)
	utils.WriteJSON(w, CartViewJSON(items, h.cart.Total(), h.cart.ItemCount()), http.StatusOK)
}

// RemoveCartItem deletes a line.
// @Summary      Remove cart item
// @Tags         cart
// @Param        product_id  path  string  true  "Product id"
// @Success      200  {object}  CartView
// @Router       /cart/items/{product_id} [delete]
func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	items := h.cart.RemoveItem(chi.URLParam(r, "product_id"))
	utils.WriteJSON(w, CartViewJSON(items, h.cart.Total(), h.cart.ItemCount()), http.StatusOK)
}

// StartCheckout opens a checkout session at the shipping step.
// @Summary      Start checkout
// @Tags         checkout
// @Success      201  {object}  SessionResponse
// @Failure      400  {object}  utils.ErrorResponse "Cart is empty"
// @Router       /checkout [post]
func (h *HTTPHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Start(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, SessionToJSON(session), http.StatusCreated)
}

// GetCheckout returns a session's current step.
// @Summary      Get checkout session
// @Tags         checkout
// @Param        session_id  path  string  true  "Session id"
// @Success      200  {object}  SessionResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /checkout/{session_id} [get]
func (h *HTTPHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.GetSession(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, SessionToJSON(session), http.StatusOK)
}

// SubmitShipping validates the shipping form and advances the session.
// @Summary      Submit shipping info
// @Tags         checkout
// @Param        session_id  path  string           true  "Session id"
// @Param        request     body  ShippingRequest  true  "Shipping form"
// @Success      200  {object}  SessionResponse
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /checkout/{session_id}/shipping [post]
func (h *HTTPHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var req ShippingRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	session, err := h.checkout.SubmitShipping(r.Context(), chi.URLParam(r, "session_id"), ShippingRequestToEntity(req))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, SessionToJSON(session), http.StatusOK)
}

// SelectMethod records the payment method choice.
// @Summary      Select payment method
// @Tags         checkout
// @Param        session_id  path  string               true  "Session id"
// @Param        request     body  SelectMethodRequest  true  "Method choice"
// @Success      200  {object}  SessionResponse
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /checkout/{session_id}/method [post]
func (h *HTTPHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	var req SelectMethodRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	method, data := MethodRequestToEntity(req)
	session, err := h.checkout.SelectMethod(r.Context(), chi.URLParam(r, "session_id"), method, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, SessionToJSON(session), http.StatusOK)
}

// Confirm submits the order and runs the payment. A gateway decline is
// a normal 200 with completed=false; only transport failures error.
// @Summary      Confirm checkout
// @Tags         checkout
// @Param        session_id  path  string  true  "Session id"
// @Success      200  {object}  ConfirmResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Failure      502  {object}  utils.ErrorResponse "Gateway unreachable"
// @Router       /checkout/{session_id}/confirm [post]
func (h *HTTPHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	result, err := h.checkout.Confirm(r.Context(), chi.URLParam(r, "session_id"))
	checkoutConfirmDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		checkoutConfirmTotal.WithLabelValues("error").Inc()
		h.writeServiceError(w, r, err)
		return
	}
	if result.Completed {
		checkoutConfirmTotal.WithLabelValues("completed").Inc()
	} else {
		checkoutConfirmTotal.WithLabelValues("declined").Inc()
	}

	order := OrderEntityToJSON(result.Order)
	resp := ConfirmResponse{
		Completed:     result.Completed,
		Order:         &order,
		StatusMessage: result.StatusMessage,
		TransactionID: result.TransactionID,
		WhatsAppURL:   result.WhatsAppURL,
	}
	utils.WriteJSON(w, resp, http.StatusOK)
}

// Back steps the session towards the cart; from the shipping step it
// abandons the session.
// @Summary      Go back one checkout step
// @Tags         checkout
// @Param        session_id  path  string  true  "Session id"
// @Success      200  {object}  SessionResponse
// @Success      204  "Session abandoned"
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /checkout/{session_id}/back [post]
func (h *HTTPHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, abandoned, err := h.checkout.Back(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if abandoned {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.WriteJSON(w, SessionToJSON(session), http.StatusOK)
}

// AbandonCheckout drops the session from any step; the cart is untouched.
// @Summary      Abandon checkout
// @Tags         checkout
// @Param        session_id  path  string  true  "Session id"
// @Success      204  "Session abandoned"
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /checkout/{session_id} [delete]
func (h *HTTPHandler) AbandonCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.checkout.Abandon(r.Context(), chi.URLParam(r, "session_id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOrderByID returns a stored order.
// @Summary      Get order
// @Tags         orders
// @Param        order_id  path  string  true  "Order id"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /order/{order_id} [get]
func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.GetOrderByID(ctx, orderID)
	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// LatestOrders returns the newest stored orders.
// @Summary      List latest orders
// @Tags         orders
// @Success      200  {array}  Order
// @Router       /orders/latest [get]
func (h *HTTPHandler) LatestOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.LatestOrders(ctx, 50)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderEntityToJSON(o))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

// ListGallery returns the media entries newest first.
// @Summary      List gallery
// @Tags         gallery
// @Success      200  {array}  GalleryItem
// @Router       /gallery [get]
func (h *HTTPHandler) ListGallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.gallery.List()
	if err != nil {
		h.logger.Error("failed to list gallery", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]GalleryItem, 0, len(items))
	for _, it := range items {
		out = append(out, GalleryItemToJSON(it))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

// AddGalleryItem registers a CDN-hosted media entry.
// @Summary      Add gallery item
// @Tags         gallery
// @Param        request  body  GalleryItemRequest  true  "Media entry"
// @Success      201  {object}  GalleryItem
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Router       /gallery [post]
func (h *HTTPHandler) AddGalleryItem(w http.ResponseWriter, r *http.Request) {
	var req GalleryItemRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	item, err := h.gallery.Add(req.URL, gallery.Kind(req.Kind), req.Title)
	if err != nil {
		h.logger.Error("failed to add gallery item", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, GalleryItemToJSON(item), http.StatusCreated)
}

// RemoveGalleryItem deletes a media entry.
// @Summary      Remove gallery item
// @Tags         gallery
// @Param        item_id  path  string  true  "Item id"
// @Success      204  "Removed"
// @Router       /gallery/{item_id} [delete]
func (h *HTTPHandler) RemoveGalleryItem(w http.ResponseWriter, r *http.Request) {
	if err := h.gallery.Remove(chi.URLParam(r, "item_id")); err != nil {
		h.logger.Error("failed to remove gallery item", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entities.ErrSessionNotFound):
		utils.WriteError(w, "checkout session not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrEmptyCart):
		utils.WriteError(w, "cart is empty", http.StatusBadRequest)
	case errors.Is(err, entities.ErrUnsupportedMethod):
		utils.WriteError(w, "unsupported payment method", http.StatusBadRequest)
	case errors.Is(err, entities.ErrIllegalTransition):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, entities.ErrGatewayUnreachable):
		h.logger.ErrorContext(r.Context(), "payment gateway unreachable", slog.Any("error", err))
		utils.WriteError(w, "payment service is temporarily unavailable, please try again", http.StatusBadGateway)
	default:
		h.logger.ErrorContext(r.Context(), "internal error", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
