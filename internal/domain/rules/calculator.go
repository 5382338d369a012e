package rules

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeBudget = errors.New("media budget must not be negative")
	ErrNegativePrice  = errors.New("addon price must not be negative")
)

var (
	TierThreshold       = decimal.NewFromInt(100_000)
	LowTierRate         = decimal.RequireFromString("0.10")
	HighTierRate        = decimal.RequireFromString("0.06")
	SetupFeePerPlatform = decimal.NewFromInt(500)
	ManagementFee       = decimal.NewFromInt(1_000)
)

type AddonLine struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CostInput struct {
	MediaBudget decimal.Decimal `json:"media_budget"`
	Platforms   []string        `json:"platforms"`
	Addons      []AddonLine     `json:"addons"`
}

type CostEstimate struct {
	MediaBudget   decimal.Decimal `json:"media_budget"`
	VariableRate  decimal.Decimal `json:"variable_rate"`
	VariableFee   decimal.Decimal `json:"variable_fee"`
	PlatformCount int             `json:"platform_count"`
	SetupFee      decimal.Decimal `json:"setup_fee"`
	ManagementFee decimal.Decimal `json:"management_fee"`
	AddonsTotal   decimal.Decimal `json:"addons_total"`
	FeesTotal     decimal.Decimal `json:"fees_total"`
	Total         decimal.Decimal `json:"total"`
}

// VariableRate picks the tier: 10% below 100k of media spend, 6% at or above.
func VariableRate(media decimal.Decimal) decimal.Decimal {
	if media.LessThan(TierThreshold) {
		return LowTierRate
	}
	return HighTierRate
}

func EstimateCost(in CostInput) (CostEstimate, error) {
	if in.MediaBudget.IsNegative() {
		return CostEstimate{}, ErrNegativeBudget
	}

	media := in.MediaBudget.Round(2)
	rate := VariableRate(media)
	variable := media.Mul(rate).Round(2)

	platforms := distinctCount(in.Platforms)
	setup := SetupFeePerPlatform.Mul(decimal.NewFromInt(int64(platforms)))

	addons := decimal.Zero
	for _, a := range in.Addons {
		if a.Price.IsNegative() {
			return CostEstimate{}, ErrNegativePrice
		}
		addons = addons.Add(a.Price)
	}
	addons = addons.Round(2)

	fees := variable.Add(setup).Add(ManagementFee).Add(addons)

	return CostEstimate{
		MediaBudget:   media,
		VariableRate:  rate,
		VariableFee:   variable,
		PlatformCount: platforms,
		SetupFee:      setup,
		ManagementFee: ManagementFee,
		AddonsTotal:   addons,
		FeesTotal:     fees,
		Total:         media.Add(fees),
	}, nil
}

func distinctCount(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}
