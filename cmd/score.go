package cmd

import (
	"github.com/MaxwellM34/primerPlus/config"
	"github.com/MaxwellM34/primerPlus/internal/primerplus"
	"github.com/spf13/cobra"
)

// scoreCmd scores a persisted batch of trios
var scoreCmd = &cobra.Command{
	Use:                        "score",
	Short:                      "Score a designed trio batch with quantile-based suitability",
	SuggestionsMinimumDistance: 2,
	Long: `Score every trio in a design output JSON by its closeness to the ideal
metric targets. Deltas are binned against batch-local quantiles, so the
resulting 0-100 percentages are only comparable within the same batch.`,
	Run: runScore,
}

func runScore(cmd *cobra.Command, args []string) {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	topN, _ := cmd.Flags().GetInt("top")

	conf := config.New()

	payload, err := primerplus.LoadAndScore(in, out, conf)
	if err != nil {
		stderr.Fatal(err)
	}

	stderr.Printf("Computed quantile scores for %d trios.", len(payload.Trios))
	for i, trio := range payload.Trios {
		if i >= topN {
			break
		}
		stderr.Printf("%d: suitability=%.2f/100", trio.Index, trio.QuantilePercent)
	}
	stderr.Printf("Wrote %s", out)
}

func init() {
	scoreCmd.Flags().StringP("in", "i", "allTrios.json", "design output JSON to score")
	scoreCmd.Flags().StringP("out", "o", "scoredTrios.json", "where to write the scored JSON")
	scoreCmd.Flags().IntP("top", "n", 5, "how many top trios to print")

	rootCmd.AddCommand(scoreCmd)
}
