// Package mocks provides a test double for the transaction manager.
package mocks

import (
	"context"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/trm"
)

// MockManager runs callbacks without a real transaction. By default Do
// is a passthrough; set DoFunc to simulate begin failures.
type MockManager struct {
	DoFunc      func(ctx context.Context, callback func(ctx context.Context) error) error
	BeginTxFunc func(ctx context.Context) (context.Context, trm.Transaction, error)
}

func NewMockManager() *MockManager {
	return &MockManager{}
}

func (m *MockManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	if m.BeginTxFunc != nil {
		return m.BeginTxFunc(ctx)
	}
	return ctx, nil, nil
}

func (m *MockManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	if m.DoFunc != nil {
		return m.DoFunc(ctx, callback)
	}
	return callback(ctx)
}
