// Package cmd is for command line interactions with the primerplus application
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// stderr is for logging to Stderr (without an annoying timestamp)
var stderr = log.New(os.Stderr, "", 0)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "primerplus",
	Short: `Design qPCR primer/probe trios with iterative constraint relaxation.
Run primer3 against a template sequence, score the candidates, and build gBlocks`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	// settings is an optional parameter for a settings file that overrides the built-in defaults
	rootCmd.PersistentFlags().StringP("settings", "s", "", "path to a YAML settings file")
	viper.BindPFlag("settings", rootCmd.PersistentFlags().Lookup("settings"))
}
