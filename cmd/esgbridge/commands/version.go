package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the esgbridge version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("esgbridge", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
