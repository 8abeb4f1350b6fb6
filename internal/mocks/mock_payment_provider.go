package mocks

import (
	"github.com/erencelik/ticketline/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	trackingID string,
	actorID int,
	description string,
	amount decimal.Decimal) (*domain.CheckoutSession, error) {

	args := m.Called(trackingID, actorID, description, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}
