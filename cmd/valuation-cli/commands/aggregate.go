package commands

import (
	"fmt"
	"strings"
	"valuation-service/service/meta"
	"valuation-service/service/valuation"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

type aggregateOutput struct {
	Result  valuation.Result       `json:"result"`
	Tags    []string               `json:"tags"`
	Summary []valuation.SummaryRow `json:"summary"`
}

func newAggregateCmd() *cobra.Command {
	var (
		stars            map[string]int
		rawWeights       map[string]string
		applyWeights     bool
		suppressZeroTags bool
		minStars         int
		asJSON           bool
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "按维度星级（可选权重）计算估值得分",
		Example: `  valuation-cli aggregate --star Economic=5 --star "Policy Alignment=3"
  valuation-cli aggregate --star Economic=4 --star Social=2 --weighted --weight Economic=1 --weight Social=0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			weights := make(map[string]float64, len(rawWeights))
			for dim, v := range rawWeights {
				w, err := cast.ToFloat64E(v)
				if err != nil {
					return fmt.Errorf("%w: %s=%q", valuation.ErrWeightOutOfRange, dim, v)
				}
				weights[dim] = w
			}
			if err := valuation.ValidateStars(stars, minStars); err != nil {
				return err
			}
			if err := valuation.ValidateWeights(weights); err != nil {
				return err
			}

			result := valuation.Aggregate(stars, weights, applyWeights)
			out := aggregateOutput{
				Result:  result,
				Tags:    valuation.DisplayPolicy{SuppressZeroTags: suppressZeroTags}.Tags(result),
				Summary: valuation.BuildSummary(stars, weights, applyWeights),
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			for _, row := range out.Summary {
				line := fmt.Sprintf("%-18s %s", row.Dimension, row.StarString)
				if row.WeightedScore != nil {
					line += fmt.Sprintf("  weight=%.2f score=%.2f", *row.Weight, *row.WeightedScore)
				}
				fmt.Fprintln(w, line)
			}
			fmt.Fprintf(w, "Final score: %.2f%%\n", result.FinalScorePercent)
			if len(out.Tags) > 0 {
				fmt.Fprintf(w, "Top dimensions: %s\n", strings.Join(out.Tags, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringToIntVar(&stars, "star", map[string]int{}, "维度星级，如 Economic=4，可重复")
	cmd.Flags().StringToStringVar(&rawWeights, "weight", map[string]string{}, "维度权重 0-1，如 Social=0.8，可重复")
	cmd.Flags().BoolVar(&applyWeights, "weighted", false, fmt.Sprintf("按权重计算，未给出的维度权重为 %.1f", meta.DefaultWeight))
	cmd.Flags().BoolVar(&suppressZeroTags, "suppress-zero-tags", true, "最高分为0时不输出维度标签")
	cmd.Flags().IntVar(&minStars, "min-stars", meta.DefaultMinStars, "星级下限 (0 或 1)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "以JSON输出")
	return cmd
}
