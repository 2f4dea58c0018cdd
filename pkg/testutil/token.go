package testutil

import (
	"github.com/PrjctQ/qcore/pkg/token"
)

// MockTokenManager is a mock implementation of token.Manager for testing
type MockTokenManager struct {
	GenerateFunc func(subject, email string) (string, error)
	ValidateFunc func(tokenString string) (*token.Claims, error)
}

func (m *MockTokenManager) Generate(subject, email string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(subject, email)
	}
	return "mock-token", nil
}

func (m *MockTokenManager) Validate(tokenString string) (*token.Claims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(tokenString)
	}
	return &token.Claims{}, nil
}

// Ensure MockTokenManager implements token.Manager
var _ token.Manager = (*MockTokenManager)(nil)

// NewMockTokenManager creates a new mock token manager with default behavior
func NewMockTokenManager() *MockTokenManager {
	return &MockTokenManager{}
}
