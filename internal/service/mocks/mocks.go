// Package mocks provides testify doubles for the service-layer
// interfaces.
package mocks

import (
	"context"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockOrderRepo struct {
	mock.Mock
}

func NewMockOrderRepo(t testingT) *MockOrderRepo {
	m := &MockOrderRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockOrderRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	args := m.Called(ctx, count)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepo) SaveOrder(ctx context.Context, o entities.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepo) SaveShipping(ctx context.Context, orderID string, s entities.ShippingInfo) error {
	return m.Called(ctx, orderID, s).Error(0)
}

func (m *MockOrderRepo) SaveItems(ctx context.Context, orderID string, items []entities.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *MockOrderRepo) UpdateOrderPayment(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error {
	return m.Called(ctx, orderID, status, transactionID).Error(0)
}

func (m *MockOrderRepo) PruneOrders(ctx context.Context, keep int) error {
	return m.Called(ctx, keep).Error(0)
}

type MockCache struct {
	mock.Mock
}

func NewMockCache(t testingT) *MockCache {
	m := &MockCache{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1)
}

func (m *MockCache) Set(key string, value []byte) {
	m.Called(key, value)
}

type MockCart struct {
	mock.Mock
}

func NewMockCart(t testingT) *MockCart {
	m := &MockCart{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCart) Snapshot() []entities.OrderItem {
	items, _ := m.Called().Get(0).([]entities.OrderItem)
	return items
}

func (m *MockCart) ItemCount() int {
	return m.Called().Int(0)
}

func (m *MockCart) Clear() {
	m.Called()
}

type MockOrders struct {
	mock.Mock
}

func NewMockOrders(t testingT) *MockOrders {
	m := &MockOrders{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrders) CreateOrder(ctx context.Context, items []entities.OrderItem, shipping entities.ShippingInfo, method entities.PaymentMethod) (entities.Order, error) {
	args := m.Called(ctx, items, shipping, method)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockOrders) UpdateOrderPayment(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error {
	return m.Called(ctx, orderID, status, transactionID).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier(t testingT) *MockNotifier {
	m := &MockNotifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) OrderCreated(ctx context.Context, order entities.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockNotifier) PaymentUpdated(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error {
	return m.Called(ctx, orderID, status, transactionID).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func NewMockGateway(t testingT) *MockGateway {
	m := &MockGateway{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(entities.PaymentResult), args.Error(1)
}
