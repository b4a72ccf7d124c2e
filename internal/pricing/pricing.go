package pricing

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"jobdeck-api/internal/config"
	"jobdeck-api/pkg/utils"
)

// Tier is a paid visibility level for a job posting.
type Tier string

const (
	TierTop     Tier = "top"
	TierVIP     Tier = "vip"
	TierPremium Tier = "premium"
)

// Daily rates in minor currency units (cents).
var dailyRates = map[Tier]int64{
	TierTop:     500,
	TierVIP:     900,
	TierPremium: 1500,
}

// CouponKind selects how a coupon's amount is interpreted.
type CouponKind string

const (
	CouponPercent CouponKind = "percent"
	CouponFixed   CouponKind = "fixed"
)

// Coupon is a discount code with a validity window.
type Coupon struct {
	Code       string     `json:"code"`
	Kind       CouponKind `json:"kind"`
	// Amount is a percentage for percent coupons, cents for fixed ones.
	Amount     int64     `json:"amount"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
}

// Quote is a priced visibility purchase.
type Quote struct {
	Tier      Tier      `json:"tier"`
	Days      int       `json:"days"`
	Currency  string    `json:"currency"`
	BasePrice int64     `json:"base_price"`
	Discount  int64     `json:"discount"`
	Total     int64     `json:"total"`
	Coupon    string    `json:"coupon,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service computes quotes for visibility tiers and manages coupon codes.
type Service struct {
	mu      sync.RWMutex
	cfg     *config.Config
	coupons map[string]Coupon
	now     func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		coupons: make(map[string]Coupon),
		now:     time.Now,
	}
}

// RegisterCoupon adds or replaces a coupon code.
func (s *Service) RegisterCoupon(coupon Coupon) error {
	if coupon.Code == "" {
		return fmt.Errorf("coupon code cannot be empty")
	}
	switch coupon.Kind {
	case CouponPercent:
		if coupon.Amount < 0 || coupon.Amount > 100 {
			return fmt.Errorf("percent coupon amount must be 0-100, got %d", coupon.Amount)
		}
	case CouponFixed:
		if coupon.Amount < 0 {
			return fmt.Errorf("fixed coupon amount cannot be negative")
		}
	default:
		return fmt.Errorf("unknown coupon kind %q", coupon.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[strings.ToUpper(coupon.Code)] = coupon
	return nil
}

// Quote prices a tier purchase. The discount never pushes the total below
// zero, and the expiry date is the purchase time plus the number of days.
func (s *Service) Quote(tier Tier, days int, couponCode string) (*Quote, error) {
	rate, ok := dailyRates[tier]
	if !ok {
		return nil, utils.NewBadRequestError(fmt.Sprintf("unknown tier %q", tier))
	}
	if days < 1 {
		return nil, utils.NewBadRequestError("days must be at least 1")
	}

	now := s.now()
	quote := &Quote{
		Tier:      tier,
		Days:      days,
		Currency:  s.cfg.Pricing.Currency,
		BasePrice: rate * int64(days),
		ExpiresAt: now.AddDate(0, 0, days),
	}

	if couponCode != "" {
		coupon, err := s.lookupCoupon(couponCode, now)
		if err != nil {
			return nil, err
		}
		quote.Coupon = coupon.Code
		quote.Discount = discountFor(coupon, quote.BasePrice)
	}

	quote.Total = quote.BasePrice - quote.Discount
	if quote.Total < 0 {
		quote.Total = 0
	}
	return quote, nil
}

func (s *Service) lookupCoupon(code string, now time.Time) (Coupon, error) {
	s.mu.RLock()
	coupon, ok := s.coupons[strings.ToUpper(code)]
	s.mu.RUnlock()

	if !ok {
		return Coupon{}, utils.NewBadRequestError(fmt.Sprintf("unknown coupon code %q", code))
	}
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return Coupon{}, utils.NewBadRequestError(fmt.Sprintf("coupon %q is not valid at this time", coupon.Code))
	}
	return coupon, nil
}

func discountFor(coupon Coupon, basePrice int64) int64 {
	switch coupon.Kind {
	case CouponPercent:
		return basePrice * coupon.Amount / 100
	case CouponFixed:
		return coupon.Amount
	default:
		return 0
	}
}

// Tiers returns the supported tiers and their daily rates.
func (s *Service) Tiers() map[Tier]int64 {
	out := make(map[Tier]int64, len(dailyRates))
	for tier, rate := range dailyRates {
		out[tier] = rate
	}
	return out
}
