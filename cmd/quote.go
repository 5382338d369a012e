package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Vovarama1992/cinecampaign/internal/domain/rules"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	quoteBudget    string
	quotePlatforms string
	quoteAddons    []string
	quoteSize      string
	quoteGenre     string
)

// quote works offline: it needs neither config nor a database.
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print a cost estimate, and optionally a strategy, as JSON",
	Example: `  cinecampaign quote --budget 80000 --platforms tiktok,youtube --addon cutdowns=1500
  cinecampaign quote --budget 200000 --size wide --genre horror`,
	RunE: func(cmd *cobra.Command, args []string) error {
		budget, err := decimal.NewFromString(quoteBudget)
		if err != nil {
			return fmt.Errorf("--budget: %w", err)
		}

		in := rules.CostInput{MediaBudget: budget}
		for _, p := range strings.Split(quotePlatforms, ",") {
			if p = strings.TrimSpace(p); p != "" {
				in.Platforms = append(in.Platforms, p)
			}
		}
		for _, raw := range quoteAddons {
			name, price, ok := strings.Cut(raw, "=")
			if !ok {
				return fmt.Errorf("--addon %q: want name=price", raw)
			}
			amount, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("--addon %q: %w", raw, err)
			}
			in.Addons = append(in.Addons, rules.AddonLine{Name: name, Price: amount})
		}

		est, err := rules.EstimateCost(in)
		if err != nil {
			return err
		}

		out := map[string]any{"estimate": est}
		if quoteSize != "" {
			s, err := rules.Recommend(quoteSize, quoteGenre)
			if err != nil {
				return err
			}
			out["strategy"] = s
			out["allocation"] = s.Allocate(budget)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteBudget, "budget", "0", "media budget")
	quoteCmd.Flags().StringVar(&quotePlatforms, "platforms", "", "comma separated platforms")
	quoteCmd.Flags().StringArrayVar(&quoteAddons, "addon", nil, "addon as name=price, repeatable")
	quoteCmd.Flags().StringVar(&quoteSize, "size", "", "release size for a strategy: limited, medium or wide")
	quoteCmd.Flags().StringVar(&quoteGenre, "genre", "", "genre for the strategy")
}
