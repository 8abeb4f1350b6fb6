package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	rulesCacheKey = "pricing_rules:active"
	rulesCacheTTL = 60 * time.Second
)

// PostgresPricingRepository serves pricing rules through a short redis cache
// and coupons straight from the database. Coupon usage counts gate real
// money, so they are read fresh on every call.
type PostgresPricingRepository struct {
	db    *pgxpool.Pool
	cache redis.UniversalClient
}

func NewPostgresPricingRepository(db *pgxpool.Pool, cache redis.UniversalClient) *PostgresPricingRepository {
	return &PostgresPricingRepository{
		db:    db,
		cache: cache,
	}
}

// ruleRow is the cacheable shape of a pricing rule; the condition payload
// stays raw JSON until decoded into its typed variant.
type ruleRow struct {
	ID           int              `json:"id"`
	Type         domain.RuleType  `json:"type"`
	Priority     int              `json:"priority"`
	IsActive     bool             `json:"is_active"`
	ValidFrom    *time.Time       `json:"valid_from,omitempty"`
	ValidUntil   *time.Time       `json:"valid_until,omitempty"`
	Multiplier   *decimal.Decimal `json:"multiplier,omitempty"`
	FlatDiscount *decimal.Decimal `json:"flat_discount,omitempty"`
	Condition    json.RawMessage  `json:"condition"`
}

func (p *PostgresPricingRepository) GetActiveRules(ctx context.Context, _ int) ([]domain.PricingRule, error) {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, rulesCacheKey).Bytes()
		if err == nil {
			var rows []ruleRow
			if err := json.Unmarshal(cached, &rows); err == nil {
				return decodeRuleRows(rows)
			}
		}
	}

	rows, err := p.queryActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if encoded, err := json.Marshal(rows); err == nil {
			// Cache misses are tolerable; a failed SET only costs a re-read.
			p.cache.Set(ctx, rulesCacheKey, encoded, rulesCacheTTL)
		}
	}

	return decodeRuleRows(rows)
}

func (p *PostgresPricingRepository) queryActiveRules(ctx context.Context) ([]ruleRow, error) {
	query := `
		SELECT id, rule_type, priority, is_active, valid_from, valid_until, multiplier, flat_discount, condition
		FROM pricing_rules
		WHERE is_active = TRUE
		ORDER BY priority ASC, id ASC
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ruleRows := make([]ruleRow, 0)

	for rows.Next() {
		var row ruleRow

		err = rows.Scan(
			&row.ID,
			&row.Type,
			&row.Priority,
			&row.IsActive,
			&row.ValidFrom,
			&row.ValidUntil,
			&row.Multiplier,
			&row.FlatDiscount,
			&row.Condition,
		)
		if err != nil {
			return nil, err
		}

		ruleRows = append(ruleRows, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ruleRows, nil
}

func decodeRuleRows(rows []ruleRow) ([]domain.PricingRule, error) {
	rules := make([]domain.PricingRule, 0, len(rows))

	for _, row := range rows {
		condition, err := domain.DecodeRuleCondition(row.Type, row.Condition)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", row.ID, err)
		}

		rules = append(rules, domain.PricingRule{
			ID:           row.ID,
			Type:         row.Type,
			Priority:     row.Priority,
			IsActive:     row.IsActive,
			ValidFrom:    row.ValidFrom,
			ValidUntil:   row.ValidUntil,
			Multiplier:   row.Multiplier,
			FlatDiscount: row.FlatDiscount,
			Condition:    condition,
		})
	}

	return rules, nil
}

func (p *PostgresPricingRepository) GetCouponByCode(ctx context.Context, code string, actorID int) (*domain.Coupon, error) {
	query := `
		SELECT
			c.id,
			c.code,
			c.discount_type,
			c.discount_value,
			c.min_order_value,
			c.max_uses,
			c.max_uses_per_user,
			c.valid_from,
			c.valid_until,
			c.is_active,
			c.movie_id,
			c.showtime_id,
			c.seat_category,
			c.payment_method,
			c.used_count,
			(SELECT COUNT(*) FROM coupon_redemptions r WHERE r.coupon_id = c.id AND r.actor_id = $2)
		FROM coupons c
		WHERE c.code = $1
	`

	var coupon domain.Coupon

	err := p.db.QueryRow(ctx, query, code, actorID).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.DiscountType,
		&coupon.DiscountValue,
		&coupon.MinOrderValue,
		&coupon.MaxUses,
		&coupon.MaxUsesPerUser,
		&coupon.ValidFrom,
		&coupon.ValidUntil,
		&coupon.IsActive,
		&coupon.MovieID,
		&coupon.ShowtimeID,
		&coupon.SeatCategory,
		&coupon.PaymentMethod,
		&coupon.UsedCount,
		&coupon.ActorUsedCount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &coupon, nil
}
