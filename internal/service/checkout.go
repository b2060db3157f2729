package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/gateway"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/notify"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/money"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/storage"

	"github.com/google/uuid"
)

const (
	sessionsStorageKey = "checkout_sessions"
	checkoutCurrency   = "COP"
)

// CheckoutStep is the position in the fixed three-step flow.
type CheckoutStep string

const (
	StepShipping      CheckoutStep = "shipping"
	StepPaymentMethod CheckoutStep = "payment_method"
	StepConfirmation  CheckoutStep = "confirmation"
	StepCompleted     CheckoutStep = "completed"
)

// Session is one in-progress checkout. No order exists until Confirm
// succeeds on the confirmation step; abandoning earlier leaves only the
// still-populated cart behind.
type Session struct {
	ID         string                     `json:"id"`
	Step       CheckoutStep               `json:"step"`
	Shipping   *entities.ShippingInfo     `json:"shipping,omitempty"`
	Method     entities.PaymentMethod     `json:"method,omitempty"`
	MethodData entities.PaymentMethodData `json:"method_data,omitempty"`
	OrderID    string                     `json:"order_id,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// ConfirmResult is what the UI shows after the confirmation step.
type ConfirmResult struct {
	Order         entities.Order
	Completed     bool
	StatusMessage string
	TransactionID string
	WhatsAppURL   string
}

type Cart interface {
	Snapshot() []entities.OrderItem
	ItemCount() int
	Clear()
}

type Orders interface {
	CreateOrder(ctx context.Context, items []entities.OrderItem, shipping entities.ShippingInfo, method entities.PaymentMethod) (entities.Order, error)
	UpdateOrderPayment(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error
}

type Notifier interface {
	OrderCreated(ctx context.Context, order entities.Order) error
	PaymentUpdated(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error
}

type checkoutService struct {
	logger     *slog.Logger
	store      *storage.Store
	cart       Cart
	orders     Orders
	gateway    gateway.Gateway
	notifier   Notifier
	storePhone string
	sessionTTL time.Duration
}

func NewCheckoutService(
	logger *slog.Logger,
	store *storage.Store,
	cart Cart,
	orders Orders,
	gw gateway.Gateway,
	notifier Notifier,
	storePhone string,
	sessionTTL time.Duration,
) *checkoutService {
	return &checkoutService{
		logger:     logger.With(slog.String("service", "checkout")),
		store:      store,
		cart:       cart,
		orders:     orders,
		gateway:    gw,
		notifier:   notifier,
		storePhone: storePhone,
		sessionTTL: sessionTTL,
	}
}

// Start opens a new session at the shipping step. An empty cart cannot
// be checked out.
func (s *checkoutService) Start(ctx context.Context) (Session, error) {
	if s.cart.ItemCount() == 0 {
		return Session{}, entities.ErrEmptyCart
	}

	now := time.Now()
	session := Session{
		ID:        uuid.NewString(),
		Step:      StepShipping,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.saveSession(session); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *checkoutService) GetSession(ctx context.Context, sessionID string) (Session, error) {
	return s.loadSession(sessionID)
}

// SubmitShipping attaches the shipping info and advances to payment
// method selection. Field validation happens at the transport boundary;
// the state machine only guards the step.
func (s *checkoutService) SubmitShipping(ctx context.Context, sessionID string, shipping entities.ShippingInfo) (Session, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return Session{}, err
	}
	if session.Step != StepShipping {
		return Session{}, fmt.Errorf("%w: cannot submit shipping at step %s", entities.ErrIllegalTransition, session.Step)
	}

	session.Shipping = &shipping
	session.Step = StepPaymentMethod
	session.UpdatedAt = time.Now()
	if err := s.saveSession(session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// SelectMethod records the chosen payment method and advances to the
// confirmation step unconditionally; no payment is attempted yet, not
// even for manual contact.
func (s *checkoutService) SelectMethod(ctx context.Context, sessionID string, method entities.PaymentMethod, data entities.PaymentMethodData) (Session, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return Session{}, err
	}
	if session.Step != StepPaymentMethod {
		return Session{}, fmt.Errorf("%w: cannot select method at step %s", entities.ErrIllegalTransition, session.Step)
	}
	if !method.Valid() {
		return Session{}, entities.ErrUnsupportedMethod
	}

	session.Method = method
	session.MethodData = data
	session.Step = StepConfirmation
	session.UpdatedAt = time.Now()
	if err := s.saveSession(session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Confirm is the user-initiated submit on step three. The order record
// is created here, then the chosen method decides what happens:
// gateway methods call the payment adapter, manual contact completes
// immediately with a WhatsApp link. On a gateway decline or transport
// failure the session returns to method selection so the user can
// retry with a different method.
func (s *checkoutService) Confirm(ctx context.Context, sessionID string) (ConfirmResult, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return ConfirmResult{}, err
	}
	if session.Step != StepConfirmation {
		return ConfirmResult{}, fmt.Errorf("%w: cannot confirm at step %s", entities.ErrIllegalTransition, session.Step)
	}
	if session.Shipping == nil {
		return ConfirmResult{}, fmt.Errorf("%w: session has no shipping info", entities.ErrIllegalTransition)
	}

	order, err := s.orders.CreateOrder(ctx, s.cart.Snapshot(), *session.Shipping, session.Method)
	if err != nil {
		return ConfirmResult{}, err
	}
	session.OrderID = order.OrderID

	if err := s.notifier.OrderCreated(ctx, order); err != nil {
		// notification is best effort, the order is already stored
		s.logger.Warn("failed to publish order created event", slog.Any("error", err))
	}

	switch session.Method {
	case entities.MethodManualContact:
		return s.completeManual(ctx, session, order)
	case entities.MethodCard, entities.MethodBankRedirect, entities.MethodWallet:
		return s.completeWithGateway(ctx, session, order)
	default:
		return ConfirmResult{}, entities.ErrUnsupportedMethod
	}
}

func (s *checkoutService) completeManual(ctx context.Context, session Session, order entities.Order) (ConfirmResult, error) {
	if err := s.updatePayment(ctx, order.OrderID, entities.StatusPending, ""); err != nil {
		return ConfirmResult{}, err
	}
	order.Status = entities.StatusPending

	s.cart.Clear()
	s.finishSession(session)

	return ConfirmResult{
		Order:       order,
		Completed:   true,
		WhatsAppURL: notify.WhatsAppLink(s.storePhone, order),
	}, nil
}

func (s *checkoutService) completeWithGateway(ctx context.Context, session Session, order entities.Order) (ConfirmResult, error) {
	req := entities.PaymentRequest{
		AmountInCents: money.ToMinorUnits(order.Total),
		Currency:      checkoutCurrency,
		CustomerEmail: order.Shipping.Email,
		Method:        session.Method,
		MethodData:    session.MethodData,
		Reference:     order.OrderID,
		CustomerName:  order.Shipping.FullName,
		CustomerPhone: order.Shipping.Phone,
		Shipping:      &order.Shipping,
	}

	result, err := s.gateway.CreatePayment(ctx, req)
	if err != nil {
		// transport failure: the order stays pending_payment and the
		// user lands back on method selection to retry
		s.rewindToMethodSelect(session)
		return ConfirmResult{}, fmt.Errorf("%w: %v", entities.ErrGatewayUnreachable, err)
	}

	tx := result.Transaction

	if result.Success {
		status := entities.StatusApproved
		if tx.Status == entities.TxPending {
			status = entities.StatusPending
		}
		if err := s.updatePayment(ctx, order.OrderID, status, tx.ID); err != nil {
			return ConfirmResult{}, err
		}
		order.Status = status
		order.TransactionID = tx.ID

		s.cart.Clear()
		s.finishSession(session)

		return ConfirmResult{
			Order:         order,
			Completed:     true,
			StatusMessage: tx.StatusMessage,
			TransactionID: tx.ID,
		}, nil
	}

	if tx.Status == entities.TxPending {
		// legacy gateway: payment needs manual handling, treat like a
		// manual-contact completion
		if err := s.updatePayment(ctx, order.OrderID, entities.StatusPending, tx.ID); err != nil {
			return ConfirmResult{}, err
		}
		order.Status = entities.StatusPending
		order.TransactionID = tx.ID

		s.cart.Clear()
		s.finishSession(session)

		return ConfirmResult{
			Order:         order,
			Completed:     true,
			StatusMessage: tx.StatusMessage,
			TransactionID: tx.ID,
			WhatsAppURL:   notify.WhatsAppLink(s.storePhone, order),
		}, nil
	}

	// gateway-declared decline: not an error, surface the message
	if err := s.updatePayment(ctx, order.OrderID, entities.StatusDeclined, tx.ID); err != nil {
		return ConfirmResult{}, err
	}
	order.Status = entities.StatusDeclined
	order.TransactionID = tx.ID

	s.rewindToMethodSelect(session)

	return ConfirmResult{
		Order:         order,
		Completed:     false,
		StatusMessage: tx.StatusMessage,
		TransactionID: tx.ID,
	}, nil
}

// Back moves one step towards the cart. Going back from the shipping
// step abandons the session entirely; the cart is untouched.
func (s *checkoutService) Back(ctx context.Context, sessionID string) (Session, bool, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return Session{}, false, err
	}

	switch session.Step {
	case StepConfirmation:
		session.Step = StepPaymentMethod
	case StepPaymentMethod:
		session.Step = StepShipping
	case StepShipping:
		if err := s.deleteSession(sessionID); err != nil {
			return Session{}, false, err
		}
		return Session{}, true, nil
	default:
		return Session{}, false, fmt.Errorf("%w: cannot go back from step %s", entities.ErrIllegalTransition, session.Step)
	}

	session.UpdatedAt = time.Now()
	if err := s.saveSession(session); err != nil {
		return Session{}, false, err
	}
	return session, false, nil
}

// Abandon drops the session without creating anything.
func (s *checkoutService) Abandon(ctx context.Context, sessionID string) error {
	if _, err := s.loadSession(sessionID); err != nil {
		return err
	}
	return s.deleteSession(sessionID)
}

func (s *checkoutService) updatePayment(ctx context.Context, orderID string, status entities.PaymentStatus, txID string) error {
	if err := s.orders.UpdateOrderPayment(ctx, orderID, status, txID); err != nil {
		return err
	}
	if err := s.notifier.PaymentUpdated(ctx, orderID, status, txID); err != nil {
		s.logger.Warn("failed to publish payment updated event", slog.Any("error", err))
	}
	return nil
}

func (s *checkoutService) rewindToMethodSelect(session Session) {
	session.Step = StepPaymentMethod
	session.UpdatedAt = time.Now()
	if err := s.saveSession(session); err != nil {
		s.logger.Error("failed to rewind session", slog.String("session_id", session.ID), slog.Any("error", err))
	}
}

func (s *checkoutService) finishSession(session Session) {
	session.Step = StepCompleted
	session.UpdatedAt = time.Now()
	if err := s.saveSession(session); err != nil {
		s.logger.Error("failed to finish session", slog.String("session_id", session.ID), slog.Any("error", err))
	}
}

func (s *checkoutService) loadSession(sessionID string) (Session, error) {
	sessions, err := s.loadSessions()
	if err != nil {
		return Session{}, err
	}
	session, ok := sessions[sessionID]
	if !ok {
		return Session{}, entities.ErrSessionNotFound
	}
	return session, nil
}

func (s *checkoutService) saveSession(session Session) error {
	sessions, err := s.loadSessions()
	if err != nil {
		return err
	}
	sessions[session.ID] = session
	return s.store.Set(sessionsStorageKey, sessions, s.sessionTTL)
}

func (s *checkoutService) deleteSession(sessionID string) error {
	sessions, err := s.loadSessions()
	if err != nil {
		return err
	}
	delete(sessions, sessionID)
	return s.store.Set(sessionsStorageKey, sessions, s.sessionTTL)
}

// loadSessions drops entries idle past the session TTL; the storage
// key's own TTL keeps sliding forward on every save, so expiry of
// individual sessions (completed ones included) is enforced here.
func (s *checkoutService) loadSessions() (map[string]Session, error) {
	sessions := make(map[string]Session)
	if _, err := s.store.Get(sessionsStorageKey, &sessions); err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-s.sessionTTL)
	for id, session := range sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(sessions, id)
		}
	}
	return sessions, nil
}
