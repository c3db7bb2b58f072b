package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "esgbridge",
	Short: "ESG rating, compliance and ISO 20022 bridge service",
	Long: `esgbridge computes weighted ESG ratings, validates them against
regulatory compliance rules and bridges the result into ISO 20022
SETR messages. It also runs the score oracle: a provider registry,
a per-entity score ledger and a score-gated token issuance gate.

Examples:
  esgbridge api
  esgbridge classify --environmental 85 --social 78 --governance 92
  esgbridge version`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
