package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RuleType string

const (
	RuleTypeDayType      RuleType = "DAY_TYPE"
	RuleTypePopularity   RuleType = "POPULARITY"
	RuleTypeSeatCategory RuleType = "SEAT_CATEGORY"
	RuleTypeDemandSurge  RuleType = "DEMAND_SURGE"
	RuleTypeFlatDiscount RuleType = "FLAT_DISCOUNT"
)

// PricingRule is a tagged variant over the rule types. Exactly one of
// Multiplier and FlatDiscount is set. Rules are evaluated in ascending
// (Priority, ID) order; the order is caller-supplied data, never hardcoded
// per type.
type PricingRule struct {
	ID           int
	Type         RuleType
	Priority     int
	IsActive     bool
	ValidFrom    *time.Time
	ValidUntil   *time.Time
	Multiplier   *decimal.Decimal
	FlatDiscount *decimal.Decimal
	Condition    RuleCondition
}

// RuleCondition is a closed union keyed by RuleType. Condition payloads are
// decoded once at load time, not inspected ad hoc per evaluation.
type RuleCondition interface {
	ruleCondition()
}

type DayTypeCondition struct {
	Days []time.Weekday
}

type PopularityCondition struct {
	MinScore float64
}

type SeatCategoryCondition struct {
	Category string
}

// DemandSurgeCondition carries no fields: the activation threshold is
// configured per showtime.
type DemandSurgeCondition struct{}

type FlatDiscountCondition struct{}

func (DayTypeCondition) ruleCondition()      {}
func (PopularityCondition) ruleCondition()   {}
func (SeatCategoryCondition) ruleCondition() {}
func (DemandSurgeCondition) ruleCondition()  {}
func (FlatDiscountCondition) ruleCondition() {}

// DecodeRuleCondition parses the raw JSON condition payload stored with a
// rule into its typed variant.
func DecodeRuleCondition(ruleType RuleType, raw []byte) (RuleCondition, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	switch ruleType {
	case RuleTypeDayType:
		var payload struct {
			Days []string `json:"days"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode DAY_TYPE condition: %w", err)
		}

		cond := DayTypeCondition{}
		for _, day := range payload.Days {
			weekday, err := parseWeekday(day)
			if err != nil {
				return nil, err
			}
			cond.Days = append(cond.Days, weekday)
		}

		return cond, nil
	case RuleTypePopularity:
		var payload struct {
			MinScore float64 `json:"min_score"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode POPULARITY condition: %w", err)
		}

		return PopularityCondition{MinScore: payload.MinScore}, nil
	case RuleTypeSeatCategory:
		var payload struct {
			Category string `json:"category"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode SEAT_CATEGORY condition: %w", err)
		}

		return SeatCategoryCondition{Category: payload.Category}, nil
	case RuleTypeDemandSurge:
		return DemandSurgeCondition{}, nil
	case RuleTypeFlatDiscount:
		return FlatDiscountCondition{}, nil
	default:
		return nil, fmt.Errorf("unknown rule type: %s", ruleType)
	}
}

func parseWeekday(day string) (time.Weekday, error) {
	switch strings.ToUpper(day) {
	case "SUNDAY", "SUN":
		return time.Sunday, nil
	case "MONDAY", "MON":
		return time.Monday, nil
	case "TUESDAY", "TUE":
		return time.Tuesday, nil
	case "WEDNESDAY", "WED":
		return time.Wednesday, nil
	case "THURSDAY", "THU":
		return time.Thursday, nil
	case "FRIDAY", "FRI":
		return time.Friday, nil
	case "SATURDAY", "SAT":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("unknown weekday: %s", day)
	}
}

type MembershipTier string

const (
	MembershipTierNone     MembershipTier = "NONE"
	MembershipTierSilver   MembershipTier = "SILVER"
	MembershipTierGold     MembershipTier = "GOLD"
	MembershipTierPlatinum MembershipTier = "PLATINUM"
)

// DiscountPercent returns the fixed membership discount applied after rule
// evaluation.
func (t MembershipTier) DiscountPercent() decimal.Decimal {
	switch t {
	case MembershipTierSilver:
		return decimal.NewFromInt(5)
	case MembershipTierGold:
		return decimal.NewFromInt(10)
	case MembershipTierPlatinum:
		return decimal.NewFromInt(15)
	default:
		return decimal.Zero
	}
}

type AppliedRule struct {
	RuleID     int             `json:"rule_id"`
	Type       RuleType        `json:"type"`
	PriceAfter decimal.Decimal `json:"price_after"`
}

type SeatBreakdown struct {
	SeatID          int             `json:"seat_id"`
	Category        string          `json:"category"`
	BasePrice       decimal.Decimal `json:"base_price"`
	AppliedRules    []AppliedRule   `json:"applied_rules,omitempty"`
	AfterRules      decimal.Decimal `json:"after_rules"`
	AfterMembership decimal.Decimal `json:"after_membership"`
	Final           decimal.Decimal `json:"final"`
}

type OrderBreakdown struct {
	Seats    []SeatBreakdown `json:"seats"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Coupon   *CouponOutcome  `json:"coupon,omitempty"`
	Total    decimal.Decimal `json:"total"`
}

type PricingRepository interface {
	// GetActiveRules may serve a cached rule set up to 60 seconds old.
	GetActiveRules(ctx context.Context, showtimeID int) ([]PricingRule, error)
	// GetCouponByCode reads the coupon together with fresh usage counts;
	// usage is never cached.
	GetCouponByCode(ctx context.Context, code string, actorID int) (*Coupon, error)
}

type ActorRepository interface {
	GetMembershipTier(ctx context.Context, actorID int) (MembershipTier, error)
}
