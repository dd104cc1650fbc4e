package domain_test

import (
	"testing"
	"time"

	"github.com/greenpoints/recycle_rewards_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEntryKind_SignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		kind   domain.EntryKind
		amount decimal.Decimal
		want   decimal.Decimal
	}{
		{
			name:   "earned entries count positive",
			kind:   domain.Earned,
			amount: decimal.NewFromInt(25),
			want:   decimal.NewFromInt(25),
		},
		{
			name:   "redeemed entries count negative",
			kind:   domain.Redeemed,
			amount: decimal.NewFromInt(25),
			want:   decimal.NewFromInt(-25),
		},
		{
			name:   "fractional amounts keep their scale",
			kind:   domain.Redeemed,
			amount: decimal.RequireFromString("12.5000"),
			want:   decimal.RequireFromString("-12.5000"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.kind.SignedAmount(tt.amount)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestEntryKind_SignedAmountsReconcile(t *testing.T) {
	// The signed sum over an account's entries must fold to its balance.
	entries := []domain.LedgerEntry{
		{Kind: domain.Earned, Amount: decimal.NewFromInt(100)},
		{Kind: domain.Earned, Amount: decimal.NewFromInt(40)},
		{Kind: domain.Redeemed, Amount: decimal.NewFromInt(60)},
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Kind.SignedAmount(e.Amount))
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(80)))
}

func TestRedemption_Claimed(t *testing.T) {
	unclaimed := domain.Redemption{RedemptionID: "red-1"}
	assert.False(t, unclaimed.Claimed())

	claimedAt := time.Now()
	claimed := domain.Redemption{RedemptionID: "red-1", ClaimedAt: &claimedAt}
	assert.True(t, claimed.Claimed())
}
