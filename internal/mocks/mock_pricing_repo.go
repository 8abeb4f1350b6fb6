package mocks

import (
	"context"

	"github.com/erencelik/ticketline/internal/domain"
)

type MockPricingRepo struct {
	GetActiveRulesFunc  func(ctx context.Context, showtimeID int) ([]domain.PricingRule, error)
	GetCouponByCodeFunc func(ctx context.Context, code string, actorID int) (*domain.Coupon, error)
}

func (m *MockPricingRepo) GetActiveRules(ctx context.Context, showtimeID int) ([]domain.PricingRule, error) {
	return m.GetActiveRulesFunc(ctx, showtimeID)
}

func (m *MockPricingRepo) GetCouponByCode(ctx context.Context, code string, actorID int) (*domain.Coupon, error) {
	return m.GetCouponByCodeFunc(ctx, code, actorID)
}

type MockActorRepo struct {
	GetMembershipTierFunc func(ctx context.Context, actorID int) (domain.MembershipTier, error)
}

func (m *MockActorRepo) GetMembershipTier(ctx context.Context, actorID int) (domain.MembershipTier, error) {
	return m.GetMembershipTierFunc(ctx, actorID)
}
