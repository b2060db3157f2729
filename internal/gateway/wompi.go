package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/config"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
)

// WompiClient calls the Wompi gateway through the store's thin backend
// proxy. Card tokenization and redirect flows happen outside; this
// client only builds the transaction request and interprets the result.
type WompiClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	publicKey  string
	timeout    time.Duration
}

func NewWompiClient(logger *slog.Logger, cfg config.Payment) *WompiClient {
	return &WompiClient{
		logger:     logger.With(slog.String("gateway", "wompi")),
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		publicKey:  cfg.PublicKey,
		timeout:    cfg.Timeout,
	}
}

type wompiPaymentMethod struct {
	Type         string `json:"type"`
	Token        string `json:"token,omitempty"`
	Installments int    `json:"installments,omitempty"`
	BankCode     string `json:"financial_institution_code,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

type wompiRequest struct {
	AmountInCents int64              `json:"amount_in_cents"`
	Currency      string             `json:"currency"`
	CustomerEmail string             `json:"customer_email"`
	PaymentMethod wompiPaymentMethod `json:"payment_method"`
	Reference     string             `json:"reference"`
	PublicKey     string             `json:"public_key,omitempty"`
	CustomerData  struct {
		PhoneNumber string `json:"phone_number"`
		FullName    string `json:"full_name"`
	} `json:"customer_data"`
	ShippingAddress *wompiAddress `json:"shipping_address,omitempty"`
}

type wompiAddress struct {
	AddressLine1 string `json:"address_line_1"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code,omitempty"`
	PhoneNumber  string `json:"phone_number"`
}

type wompiResponse struct {
	Data struct {
		ID            string  `json:"id"`
		Status        string  `json:"status"`
		StatusMessage string  `json:"status_message"`
		AmountInCents int64   `json:"amount_in_cents"`
		Reference     string  `json:"reference"`
		CreatedAt     string  `json:"created_at"`
		FinalizedAt   *string `json:"finalized_at,omitempty"`
	} `json:"data"`
	Error *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error,omitempty"`
}

func (c *WompiClient) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	// the source had no timeout here and a hung gateway blocked the
	// checkout forever; bound every attempt explicitly
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := wompiRequest{
		AmountInCents: req.AmountInCents,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		Reference:     req.Reference,
		PublicKey:     c.publicKey,
	}
	if payload.Reference == "" {
		payload.Reference = wompiReference()
	}
	payload.CustomerData.PhoneNumber = wompiPhone(req.CustomerPhone)
	payload.CustomerData.FullName = req.CustomerName

	switch req.Method {
	case entities.MethodCard:
		payload.PaymentMethod = wompiPaymentMethod{
			Type:         "CARD",
			Token:        req.MethodData.CardToken,
			Installments: max(req.MethodData.Installments, 1),
		}
	case entities.MethodBankRedirect:
		payload.PaymentMethod = wompiPaymentMethod{
			Type:     "PSE",
			BankCode: req.MethodData.BankCode,
		}
	case entities.MethodWallet:
		payload.PaymentMethod = wompiPaymentMethod{
			Type:        "NEQUI",
			PhoneNumber: wompiPhone(req.MethodData.WalletPhone),
		}
	default:
		return entities.PaymentResult{}, entities.ErrUnsupportedMethod
	}

	if req.Shipping != nil {
		payload.ShippingAddress = &wompiAddress{
			AddressLine1: req.Shipping.Address,
			City:         req.Shipping.City,
			Region:       req.Shipping.Region,
			PostalCode:   req.Shipping.PostalCode,
			PhoneNumber:  wompiPhone(req.Shipping.Phone),
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return entities.PaymentResult{}, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return entities.PaymentResult{}, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return entities.PaymentResult{}, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return entities.PaymentResult{}, fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return entities.PaymentResult{}, fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, raw)
	}

	var decoded wompiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return entities.PaymentResult{}, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if decoded.Error != nil {
		// gateway rejected the request itself, surface as a decline
		return entities.PaymentResult{
			Success: false,
			Transaction: entities.Transaction{
				Status:        entities.TxDeclined,
				StatusMessage: decoded.Error.Reason,
				Reference:     payload.Reference,
				AmountInCents: req.AmountInCents,
				CreatedAt:     time.Now(),
			},
		}, nil
	}

	tx := entities.Transaction{
		ID:            decoded.Data.ID,
		Status:        wompiStatus(decoded.Data.Status),
		StatusMessage: decoded.Data.StatusMessage,
		AmountInCents: decoded.Data.AmountInCents,
		Reference:     decoded.Data.Reference,
		CreatedAt:     parseWompiTime(decoded.Data.CreatedAt),
	}
	if decoded.Data.FinalizedAt != nil {
		t := parseWompiTime(*decoded.Data.FinalizedAt)
		tx.FinalizedAt = &t
	}

	success := tx.Status == entities.TxApproved || tx.Status == entities.TxPending
	if !success {
		c.logger.Debug("payment declined", slog.String("reference", tx.Reference), slog.String("message", tx.StatusMessage))
	}

	return entities.PaymentResult{Success: success, Transaction: tx}, nil
}

func wompiStatus(s string) entities.TransactionStatus {
	switch s {
	case "APPROVED":
		return entities.TxApproved
	case "PENDING":
		return entities.TxPending
	case "VOIDED":
		return entities.TxVoided
	default:
		return entities.TxDeclined
	}
}

func parseWompiTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t
}

// wompiPhone strips everything but digits and forces the Colombian
// country code the gateway expects.
func wompiPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "57") && len(digits) > 10 {
		return digits
	}
	return "57" + digits
}

func wompiReference() string {
	return fmt.Sprintf("WMP-%d-%06d", time.Now().UnixMilli(), rand.Intn(1_000_000))
}
