package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdeck-api/internal/config"
)

func newTestService() *Service {
	cfg := &config.Config{}
	cfg.Pricing.Currency = "USD"

	svc := NewService(cfg)
	svc.now = func() time.Time {
		return time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestQuoteBasePrices(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		tier Tier
		days int
		want int64
	}{
		{TierTop, 7, 3500},
		{TierVIP, 7, 6300},
		{TierPremium, 30, 45000},
		{TierTop, 1, 500},
	}

	for _, tt := range tests {
		quote, err := svc.Quote(tt.tier, tt.days, "")
		require.NoError(t, err)
		assert.Equal(t, tt.want, quote.BasePrice)
		assert.Equal(t, tt.want, quote.Total)
		assert.Equal(t, "USD", quote.Currency)
	}
}

func TestQuoteExpiryArithmetic(t *testing.T) {
	svc := newTestService()

	quote, err := svc.Quote(TierTop, 7, "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC), quote.ExpiresAt)
}

func TestQuoteRejectsInvalidInput(t *testing.T) {
	svc := newTestService()

	_, err := svc.Quote(Tier("gold"), 7, "")
	assert.Error(t, err)

	_, err = svc.Quote(TierTop, 0, "")
	assert.Error(t, err)
}

func TestPercentCoupon(t *testing.T) {
	svc := newTestService()
	require.NoError(t, svc.RegisterCoupon(Coupon{
		Code:       "SPRING20",
		Kind:       CouponPercent,
		Amount:     20,
		ValidFrom:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}))

	quote, err := svc.Quote(TierTop, 7, "spring20")
	require.NoError(t, err)
	assert.Equal(t, int64(3500), quote.BasePrice)
	assert.Equal(t, int64(700), quote.Discount)
	assert.Equal(t, int64(2800), quote.Total)
	assert.Equal(t, "SPRING20", quote.Coupon, "codes are case-insensitive")
}

func TestFixedCouponClampsAtZero(t *testing.T) {
	svc := newTestService()
	require.NoError(t, svc.RegisterCoupon(Coupon{
		Code:       "BIGOFF",
		Kind:       CouponFixed,
		Amount:     100000,
		ValidFrom:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}))

	quote, err := svc.Quote(TierTop, 1, "BIGOFF")
	require.NoError(t, err)
	assert.Equal(t, int64(500), quote.BasePrice)
	assert.Equal(t, int64(0), quote.Total, "discount never goes below zero")
}

func TestCouponValidityWindow(t *testing.T) {
	svc := newTestService()
	require.NoError(t, svc.RegisterCoupon(Coupon{
		Code:       "EXPIRED",
		Kind:       CouponPercent,
		Amount:     50,
		ValidFrom:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}))

	_, err := svc.Quote(TierTop, 7, "EXPIRED")
	assert.Error(t, err)

	_, err = svc.Quote(TierTop, 7, "NEVERISSUED")
	assert.Error(t, err)
}

func TestRegisterCouponValidation(t *testing.T) {
	svc := newTestService()

	assert.Error(t, svc.RegisterCoupon(Coupon{Code: "", Kind: CouponPercent, Amount: 10}))
	assert.Error(t, svc.RegisterCoupon(Coupon{Code: "X", Kind: CouponPercent, Amount: 150}))
	assert.Error(t, svc.RegisterCoupon(Coupon{Code: "X", Kind: CouponFixed, Amount: -5}))
	assert.Error(t, svc.RegisterCoupon(Coupon{Code: "X", Kind: CouponKind("bogus"), Amount: 5}))
}
