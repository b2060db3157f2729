package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/config"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/service"
	mocks "github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/service/mocks"
	txMocks "github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/trm/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testPolicy = config.Checkout{
	FreeShippingThreshold: 200000,
	ShippingFee:           15000,
	TaxRate:               0.19,
	RetentionMax:          500,
}

var testShipping = entities.ShippingInfo{
	FullName: "Ana María Pérez",
	Phone:    "3001234567",
	Email:    "ana@example.com",
	Address:  "Calle 12 #34-56",
	City:     "Bogotá",
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOrderService_CreateOrder(t *testing.T) {
	type MockBehavior func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache)

	dbError := errors.New("db error")

	items := []entities.OrderItem{
		{ProductID: "p1", Name: "Caja de regalo", Price: 89000, Quantity: 1},
	}

	saveOK := func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache) {
		orderRepo.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)
		orderRepo.On("SaveShipping", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		orderRepo.On("SaveItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		orderRepo.On("PruneOrders", mock.Anything, 500).Return(nil)
		cache.On("Set", mock.Anything, mock.Anything).Return()
	}

	testCases := []struct {
		name         string
		items        []entities.OrderItem
		method       entities.PaymentMethod
		mockBehavior MockBehavior
		wantErr      error
		wantShipping float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "OK",
			items:        items,
			method:       entities.MethodCard,
			mockBehavior: saveOK,
			wantShipping: 15000,
			wantTax:      16910,
			wantTotal:    120910,
		},
		{
			name: "free shipping above threshold",
			items: []entities.OrderItem{
				{ProductID: "p1", Name: "Anchetas premium", Price: 250000, Quantity: 1},
			},
			method:       entities.MethodCard,
			mockBehavior: saveOK,
			wantShipping: 0,
			wantTax:      47500,
			wantTotal:    297500,
		},
		{
			name:         "empty cart",
			items:        nil,
			method:       entities.MethodCard,
			mockBehavior: func(_ *mocks.MockOrderRepo, _ *mocks.MockCache) {},
			wantErr:      entities.ErrEmptyCart,
		},
		{
			name:         "unsupported method",
			items:        items,
			method:       entities.PaymentMethod("crypto"),
			mockBehavior: func(_ *mocks.MockOrderRepo, _ *mocks.MockCache) {},
			wantErr:      entities.ErrUnsupportedMethod,
		},
		{
			name:   "retry works (first save fails, second succeeds)",
			items:  items,
			method: entities.MethodManualContact,
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache) {
				orderRepo.On("SaveOrder", mock.Anything, mock.Anything).
					Once().Return(errors.New("temporary error"))
				orderRepo.On("SaveOrder", mock.Anything, mock.Anything).
					Once().Return(nil)
				orderRepo.On("SaveShipping", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				orderRepo.On("SaveItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				orderRepo.On("PruneOrders", mock.Anything, 500).Return(nil)
				cache.On("Set", mock.Anything, mock.Anything).Return()
			},
			wantShipping: 15000,
			wantTax:      16910,
			wantTotal:    120910,
		},
		{
			name:   "prune failure does not fail the order",
			items:  items,
			method: entities.MethodCard,
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache) {
				orderRepo.On("SaveOrder", mock.Anything, mock.Anything).Return(nil)
				orderRepo.On("SaveShipping", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				orderRepo.On("SaveItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				orderRepo.On("PruneOrders", mock.Anything, 500).Return(dbError)
				cache.On("Set", mock.Anything, mock.Anything).Return()
			},
			wantShipping: 15000,
			wantTax:      16910,
			wantTotal:    120910,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := mocks.NewMockOrderRepo(t)
			cache := mocks.NewMockCache(t)
			tx := txMocks.NewMockManager()

			tc.mockBehavior(orderRepo, cache)

			svc := service.NewOrderService(newTestLogger(), tx, orderRepo, cache, testPolicy)

			order, err := svc.CreateOrder(context.Background(), tc.items, testShipping, tc.method)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(order.OrderID, "CLEO-"))
			assert.Equal(t, entities.StatusPendingPayment, order.Status)
			assert.Equal(t, tc.wantShipping, order.ShippingCost)
			assert.Equal(t, tc.wantTax, order.Tax)
			assert.Equal(t, tc.wantTotal, order.Total)
			assert.Equal(t, order.Subtotal+order.ShippingCost+order.Tax, order.Total)
		})
	}
}

func TestOrderService_UpdateOrderPayment(t *testing.T) {
	type MockBehavior func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache)

	existing := entities.Order{OrderID: "CLEO-1-abc", Status: entities.StatusPendingPayment}

	testCases := []struct {
		name         string
		orderID      string
		status       entities.PaymentStatus
		txID         string
		mockBehavior MockBehavior
		wantErr      error
	}{
		{
			name:    "OK",
			orderID: "CLEO-1-abc",
			status:  entities.StatusApproved,
			txID:    "TX-1",
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache) {
				orderRepo.On("GetOrderByID", mock.Anything, "CLEO-1-abc").Return(existing, nil)
				orderRepo.On("UpdateOrderPayment", mock.Anything, "CLEO-1-abc", entities.StatusApproved, "TX-1").Return(nil)
				cache.On("Set", mock.Anything, mock.Anything).Return()
			},
		},
		{
			name:    "re-applying current status is allowed",
			orderID: "CLEO-1-abc",
			status:  entities.StatusApproved,
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache) {
				approved := existing
				approved.Status = entities.StatusApproved
				orderRepo.On("GetOrderByID", mock.Anything, "CLEO-1-abc").Return(approved, nil)
				orderRepo.On("UpdateOrderPayment", mock.Anything, "CLEO-1-abc", entities.StatusApproved, "").Return(nil)
				cache.On("Set", mock.Anything, mock.Anything).Return()
			},
		},
		{
			name:         "invalid status",
			orderID:      "CLEO-1-abc",
			status:       entities.PaymentStatus("paid"),
			mockBehavior: func(_ *mocks.MockOrderRepo, _ *mocks.MockCache) {},
			wantErr:      entities.ErrInvalidStatus,
		},
		{
			name:    "unknown order",
			orderID: "missing",
			status:  entities.StatusApproved,
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, _ *mocks.MockCache) {
				orderRepo.On("GetOrderByID", mock.Anything, "missing").
					Return(entities.Order{}, entities.ErrOrderNotFound)
			},
			wantErr: entities.ErrOrderNotFound,
		},
		{
			name:    "illegal transition",
			orderID: "CLEO-1-abc",
			status:  entities.StatusPendingPayment,
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, _ *mocks.MockCache) {
				approved := existing
				approved.Status = entities.StatusApproved
				orderRepo.On("GetOrderByID", mock.Anything, "CLEO-1-abc").Return(approved, nil)
			},
			wantErr: entities.ErrIllegalTransition,
		},
		{
			name:    "refund only from approved",
			orderID: "CLEO-1-abc",
			status:  entities.StatusRefunded,
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, _ *mocks.MockCache) {
				orderRepo.On("GetOrderByID", mock.Anything, "CLEO-1-abc").Return(existing, nil)
			},
			wantErr: entities.ErrIllegalTransition,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := mocks.NewMockOrderRepo(t)
			cache := mocks.NewMockCache(t)
			tx := txMocks.NewMockManager()

			tc.mockBehavior(orderRepo, cache)

			svc := service.NewOrderService(newTestLogger(), tx, orderRepo, cache, testPolicy)

			err := svc.UpdateOrderPayment(context.Background(), tc.orderID, tc.status, tc.txID)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_GetOrderByID(t *testing.T) {
	type MockBehavior func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache)

	validOrder := entities.Order{OrderID: "CLEO-1-abc", Status: entities.StatusApproved}
	validData, err := validOrder.Marshal()
	require.NoError(t, err)

	testCases := []struct {
		name         string
		orderID      string
		mockBehavior MockBehavior
		wantErr      error
		want         entities.Order
	}{
		{
			name:    "success from cache",
			orderID: "CLEO-1-abc",
			mockBehavior: func(_ *mocks.MockOrderRepo, cache *mocks.MockCache) {
				cache.On("Get", "CLEO-1-abc").Return(validData, true).Once()
			},
			want: validOrder,
		},
		{
			name:    "cache hit but unmarshal fails",
			orderID: "CLEO-1-abc",
			mockBehavior: func(_ *mocks.MockOrderRepo, cache *mocks.MockCache) {
				cache.On("Get", "CLEO-1-abc").Return([]byte("broken"), true).Once()
			},
			wantErr: entities.ErrInvalidOrder,
		},
		{
			name:    "success from repo and set to cache",
			orderID: "CLEO-1-abc",
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache) {
				cache.On("Get", "CLEO-1-abc").Return(nil, false).Once()
				orderRepo.On("GetOrderByID", mock.Anything, "CLEO-1-abc").
					Return(validOrder, nil).Once()
				cache.On("Set", "CLEO-1-abc", mock.Anything).Return().Once()
			},
			want: validOrder,
		},
		{
			name:    "not found in repo",
			orderID: "not-exist",
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache) {
				cache.On("Get", "not-exist").Return(nil, false).Once()
				orderRepo.On("GetOrderByID", mock.Anything, "not-exist").
					Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantErr: entities.ErrOrderNotFound,
		},
		{
			name:    "second attempt from repo",
			orderID: "CLEO-1-abc",
			mockBehavior: func(orderRepo *mocks.MockOrderRepo, cache *mocks.MockCache) {
				cache.On("Get", "CLEO-1-abc").Return(nil, false).Once()
				orderRepo.On("GetOrderByID", mock.Anything, "CLEO-1-abc").
					Return(entities.Order{}, errors.New("some error")).Once()
				orderRepo.On("GetOrderByID", mock.Anything, "CLEO-1-abc").
					Return(validOrder, nil).Once()
				cache.On("Set", "CLEO-1-abc", mock.Anything).Return().Once()
			},
			want: validOrder,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := mocks.NewMockOrderRepo(t)
			cache := mocks.NewMockCache(t)
			tx := txMocks.NewMockManager()

			tc.mockBehavior(orderRepo, cache)

			svc := service.NewOrderService(newTestLogger(), tx, orderRepo, cache, testPolicy)

			got, err := svc.GetOrderByID(context.Background(), tc.orderID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
