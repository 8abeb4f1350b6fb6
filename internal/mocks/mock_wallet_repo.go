package mocks

import (
	"context"

	"github.com/erencelik/ticketline/internal/domain"
)

type MockWalletRepo struct {
	GetByActorIDFunc func(ctx context.Context, actorID int) (*domain.Wallet, error)
}

func (m *MockWalletRepo) GetByActorID(ctx context.Context, actorID int) (*domain.Wallet, error) {
	return m.GetByActorIDFunc(ctx, actorID)
}
