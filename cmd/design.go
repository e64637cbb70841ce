package cmd

import (
	"github.com/MaxwellM34/primerPlus/config"
	"github.com/MaxwellM34/primerPlus/internal/primerplus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// designCmd runs the iterative primer3 search
var designCmd = &cobra.Command{
	Use:                        "design",
	Short:                      "Design primer/probe trios for a template sequence",
	SuggestionsMinimumDistance: 2,
	Long: `Run an iterative primer3 search against a template sequence. Each failed
attempt relaxes one design constraint, low-importance constraints first,
until primer3 produces a trio that passes the Kraken spacing and probe
rules or every constraint is fully relaxed.

All passing trios are written to the output JSON along with the attempt
count and the final constraint levels.`,
	Run: runDesign,
}

func runDesign(cmd *cobra.Command, args []string) {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	seqID, _ := cmd.Flags().GetString("id")
	quiet, _ := cmd.Flags().GetBool("quiet")

	conf := config.New()

	template, err := primerplus.ReadFasta(in)
	if err != nil {
		stderr.Fatal(err)
	}

	designer := primerplus.NewDesigner(conf, primerplus.NewPrimer3(conf))
	designer.PrintBestEntries = !quiet

	output, err := designer.Run(seqID, template)
	if err != nil {
		stderr.Fatal(err)
	}

	if err := primerplus.WriteJSON(out, output); err != nil {
		stderr.Fatal(err)
	}

	stderr.Printf("Wrote %s", out)
	stderr.Println("Final level map:")
	for _, line := range output.LevelSummary {
		stderr.Println(line)
	}
	stderr.Printf("Total attempts: %d", output.TotalAttempts)
}

func init() {
	designCmd.Flags().StringP("in", "i", "assets/templateSequence.fasta", "input FASTA with the template sequence")
	designCmd.Flags().StringP("out", "o", "allTrios.json", "output JSON path")
	designCmd.Flags().String("id", "MH1000", "sequence identifier passed to primer3")
	designCmd.Flags().BoolP("quiet", "q", false, "skip the printout of the best left/right/internal/pair entries")
	designCmd.Flags().Int64("seed", 0, "seed for the relaxation scheduler")
	viper.BindPFlag("scheduler.seed", designCmd.Flags().Lookup("seed"))

	rootCmd.AddCommand(designCmd)
}
