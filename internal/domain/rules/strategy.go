package rules

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownReleaseSize = errors.New("unknown release size")

const (
	SizeLimited = "limited"
	SizeMedium  = "medium"
	SizeWide    = "wide"
)

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformGoogle    = "google_ads"
	PlatformSnapchat  = "snapchat"
)

type budgetRange struct {
	min, max decimal.Decimal
}

var budgetRanges = map[string]budgetRange{
	SizeLimited: {decimal.NewFromInt(15_000), decimal.NewFromInt(50_000)},
	SizeMedium:  {decimal.NewFromInt(50_000), decimal.NewFromInt(150_000)},
	SizeWide:    {decimal.NewFromInt(150_000), decimal.NewFromInt(500_000)},
}

// weights per genre, each row sums to 1
var genreWeights = map[string]map[string]float64{
	"action": {
		PlatformYouTube: 0.35, PlatformFacebook: 0.20, PlatformInstagram: 0.20, PlatformTikTok: 0.15, PlatformGoogle: 0.10,
	},
	"horror": {
		PlatformTikTok: 0.35, PlatformInstagram: 0.25, PlatformYouTube: 0.20, PlatformSnapchat: 0.20,
	},
	"comedy": {
		PlatformTikTok: 0.30, PlatformInstagram: 0.30, PlatformFacebook: 0.20, PlatformYouTube: 0.20,
	},
	"drama": {
		PlatformFacebook: 0.35, PlatformInstagram: 0.25, PlatformYouTube: 0.25, PlatformGoogle: 0.15,
	},
	"family": {
		PlatformFacebook: 0.40, PlatformYouTube: 0.35, PlatformGoogle: 0.25,
	},
	"documentary": {
		PlatformFacebook: 0.40, PlatformGoogle: 0.30, PlatformYouTube: 0.30,
	},
	"default": {
		PlatformFacebook: 0.30, PlatformInstagram: 0.25, PlatformYouTube: 0.25, PlatformTikTok: 0.20,
	},
}

type PlatformWeight struct {
	Platform string  `json:"platform"`
	Weight   float64 `json:"weight"`
}

type PlatformAllocation struct {
	Platform string          `json:"platform"`
	Amount   decimal.Decimal `json:"amount"`
}

type Strategy struct {
	ReleaseSize     string           `json:"release_size"`
	Genre           string           `json:"genre"`
	Platforms       []PlatformWeight `json:"platforms"`
	BudgetMin       decimal.Decimal  `json:"budget_min"`
	BudgetMax       decimal.Decimal  `json:"budget_max"`
	SuggestedBudget decimal.Decimal  `json:"suggested_budget"`
}

// Recommend looks up the preset for a release size and genre. Unknown genres
// fall back to the default mix.
func Recommend(releaseSize, genre string) (Strategy, error) {
	size := strings.ToLower(strings.TrimSpace(releaseSize))
	br, ok := budgetRanges[size]
	if !ok {
		return Strategy{}, ErrUnknownReleaseSize
	}

	g := strings.ToLower(strings.TrimSpace(genre))
	weights, ok := genreWeights[g]
	if !ok {
		g = "default"
		weights = genreWeights[g]
	}

	platforms := make([]PlatformWeight, 0, len(weights))
	for p, w := range weights {
		platforms = append(platforms, PlatformWeight{Platform: p, Weight: w})
	}
	sort.Slice(platforms, func(i, j int) bool {
		if platforms[i].Weight != platforms[j].Weight {
			return platforms[i].Weight > platforms[j].Weight
		}
		return platforms[i].Platform < platforms[j].Platform
	})

	return Strategy{
		ReleaseSize:     size,
		Genre:           g,
		Platforms:       platforms,
		BudgetMin:       br.min,
		BudgetMax:       br.max,
		SuggestedBudget: br.min.Add(br.max).Div(decimal.NewFromInt(2)).Round(2),
	}, nil
}

// Allocate splits budget across the strategy's platforms by weight. Rounding
// leftovers go to the heaviest platform so the parts always add up.
func (s Strategy) Allocate(budget decimal.Decimal) []PlatformAllocation {
	if len(s.Platforms) == 0 {
		return nil
	}

	budget = budget.Round(2)
	out := make([]PlatformAllocation, len(s.Platforms))
	sum := decimal.Zero

	for i, p := range s.Platforms {
		amount := budget.Mul(decimal.NewFromFloat(p.Weight)).Round(2)
		out[i] = PlatformAllocation{Platform: p.Platform, Amount: amount}
		sum = sum.Add(amount)
	}

	out[0].Amount = out[0].Amount.Add(budget.Sub(sum))
	return out
}
