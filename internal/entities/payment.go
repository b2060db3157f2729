package entities

import "time"

// PaymentStatus is the lifecycle state of an order's payment.
type PaymentStatus string

const (
	StatusPendingPayment PaymentStatus = "pending_payment"
	StatusPending        PaymentStatus = "pending"
	StatusApproved       PaymentStatus = "approved"
	StatusDeclined       PaymentStatus = "declined"
	StatusCancelled      PaymentStatus = "cancelled"
	StatusRefunded       PaymentStatus = "refunded"
)

// transitions is the forward-only table. Refund and cancel of a paid
// order are only reachable from approved.
var transitions = map[PaymentStatus][]PaymentStatus{
	StatusPendingPayment: {StatusPending, StatusApproved, StatusDeclined, StatusCancelled},
	StatusPending:        {StatusApproved, StatusDeclined, StatusCancelled},
	StatusApproved:       {StatusRefunded, StatusCancelled},
	StatusDeclined:       {},
	StatusCancelled:      {},
	StatusRefunded:       {},
}

func (s PaymentStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod is the customer-chosen way to pay.
type PaymentMethod string

const (
	MethodCard          PaymentMethod = "card"
	MethodBankRedirect  PaymentMethod = "bank_redirect"
	MethodWallet        PaymentMethod = "wallet"
	MethodManualContact PaymentMethod = "manual_contact"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodBankRedirect, MethodWallet, MethodManualContact:
		return true
	}
	return false
}

// RequiresGateway reports whether confirming with this method calls a
// payment gateway. Manual contact completes out of band.
func (m PaymentMethod) RequiresGateway() bool {
	return m.Valid() && m != MethodManualContact
}

// TransactionStatus is the gateway-side status of a single payment attempt.
type TransactionStatus string

const (
	TxPending  TransactionStatus = "PENDING"
	TxApproved TransactionStatus = "APPROVED"
	TxDeclined TransactionStatus = "DECLINED"
	TxVoided   TransactionStatus = "VOIDED"
)

// PaymentRequest is the normalized shape every gateway adapter consumes.
// Amounts are in minor units (COP cents).
type PaymentRequest struct {
	AmountInCents int64
	Currency      string
	CustomerEmail string
	Method        PaymentMethod
	MethodData    PaymentMethodData
	Reference     string
	CustomerName  string
	CustomerPhone string
	Shipping      *ShippingInfo
}

// PaymentMethodData carries the method-specific fields, populated
// according to Method.
type PaymentMethodData struct {
	CardToken    string
	Installments int
	BankCode     string
	WalletPhone  string
}

type Transaction struct {
	ID            string
	Status        TransactionStatus
	StatusMessage string
	AmountInCents int64
	Reference     string
	CreatedAt     time.Time
	FinalizedAt   *time.Time
}

// PaymentResult is the normalized gateway response. A gateway-declared
// decline is Success=false with a message, not an error; errors are
// reserved for transport failures.
type PaymentResult struct {
	Success     bool
	Transaction Transaction
}
