package entities

import "testing"

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from PaymentStatus
		to   PaymentStatus
		want bool
	}{
		{"pending_payment to approved", StatusPendingPayment, StatusApproved, true},
		{"pending_payment to pending", StatusPendingPayment, StatusPending, true},
		{"pending_payment to declined", StatusPendingPayment, StatusDeclined, true},
		{"pending to approved", StatusPending, StatusApproved, true},
		{"approved to refunded", StatusApproved, StatusRefunded, true},
		{"approved to cancelled", StatusApproved, StatusCancelled, true},
		{"refund only from approved", StatusPending, StatusRefunded, false},
		{"no going back to pending_payment", StatusApproved, StatusPendingPayment, false},
		{"refunded is final", StatusRefunded, StatusPending, false},
		{"declined is final", StatusDeclined, StatusApproved, false},
		{"cancelled is final", StatusCancelled, StatusRefunded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	terminal := []PaymentStatus{StatusDeclined, StatusCancelled, StatusRefunded}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	open := []PaymentStatus{StatusPendingPayment, StatusPending, StatusApproved}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}

	if PaymentStatus("bogus").IsTerminal() {
		t.Error("unknown status must not report terminal")
	}
}

func TestPaymentMethod(t *testing.T) {
	if !MethodCard.RequiresGateway() || !MethodBankRedirect.RequiresGateway() || !MethodWallet.RequiresGateway() {
		t.Error("gateway methods must require a gateway")
	}
	if MethodManualContact.RequiresGateway() {
		t.Error("manual contact must not require a gateway")
	}
	if PaymentMethod("cash").Valid() {
		t.Error("unknown method must be invalid")
	}
}
