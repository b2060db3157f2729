// Package mocks provides testify doubles for the handler-facing
// interfaces.
package mocks

import (
	"context"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/gallery"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/service"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockCartStore struct {
	mock.Mock
}

func NewMockCartStore(t testingT) *MockCartStore {
	m := &MockCartStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCartStore) AddItem(product entities.Product) []entities.CartItem {
	items, _ := m.Called(product).Get(0).([]entities.CartItem)
	return items
}

func (m *MockCartStore) UpdateQuantity(productID string, quantity int) []entities.CartItem {
	items, _ := m.Called(productID, quantity).Get(0).([]entities.CartItem)
	return items
}

func (m *MockCartStore) RemoveItem(productID string) []entities.CartItem {
	items, _ := m.Called(productID).Get(0).([]entities.CartItem)
	return items
}

func (m *MockCartStore) Items() []entities.CartItem {
	items, _ := m.Called().Get(0).([]entities.CartItem)
	return items
}

func (m *MockCartStore) Total() float64 {
	return m.Called().Get(0).(float64)
}

func (m *MockCartStore) ItemCount() int {
	return m.Called().Int(0)
}

type MockCheckoutFlow struct {
	mock.Mock
}

func NewMockCheckoutFlow(t testingT) *MockCheckoutFlow {
	m := &MockCheckoutFlow{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCheckoutFlow) Start(ctx context.Context) (service.Session, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *MockCheckoutFlow) GetSession(ctx context.Context, sessionID string) (service.Session, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *MockCheckoutFlow) SubmitShipping(ctx context.Context, sessionID string, shipping entities.ShippingInfo) (service.Session, error) {
	args := m.Called(ctx, sessionID, shipping)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *MockCheckoutFlow) SelectMethod(ctx context.Context, sessionID string, method entities.PaymentMethod, data entities.PaymentMethodData) (service.Session, error) {
	args := m.Called(ctx, sessionID, method, data)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *MockCheckoutFlow) Confirm(ctx context.Context, sessionID string) (service.ConfirmResult, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(service.ConfirmResult), args.Error(1)
}

func (m *MockCheckoutFlow) Back(ctx context.Context, sessionID string) (service.Session, bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(service.Session), args.Bool(1), args.Error(2)
}

func (m *MockCheckoutFlow) Abandon(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockOrderGetter struct {
	mock.Mock
}

func NewMockOrderGetter(t testingT) *MockOrderGetter {
	m := &MockOrderGetter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderGetter) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockOrderGetter) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	args := m.Called(ctx, count)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

type MockGalleryStore struct {
	mock.Mock
}

func NewMockGalleryStore(t testingT) *MockGalleryStore {
	m := &MockGalleryStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGalleryStore) Add(url string, kind gallery.Kind, title string) (gallery.Item, error) {
	args := m.Called(url, kind, title)
	return args.Get(0).(gallery.Item), args.Error(1)
}

func (m *MockGalleryStore) List() ([]gallery.Item, error) {
	args := m.Called()
	items, _ := args.Get(0).([]gallery.Item)
	return items, args.Error(1)
}

func (m *MockGalleryStore) Remove(id string) error {
	return m.Called(id).Error(0)
}
