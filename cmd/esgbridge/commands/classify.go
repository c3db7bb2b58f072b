package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdana-labs/esgbridge/internal/esg"
	"github.com/verdana-labs/esgbridge/internal/iso20022"
	"github.com/verdana-labs/esgbridge/pkg/config"
)

// classifyCmd runs the classification pipeline once and prints the result.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify an ESG score and print the SETR message",
	Long: `Run the scoring, rating and regulatory bridge pipeline for one set of
sub-scores and print the classification plus the ISO 20022 SETR message.

Example:
  esgbridge classify -e 85 -s 78 -g 92 \
    --isin US0000000001 --lei 5493001KJTIIGC8Y1R12 --name "Green Bond 2030"`,
	RunE: runClassify,
}

var (
	classifyEnvironmental float64
	classifySocial        float64
	classifyGovernance    float64
	classifyISIN          string
	classifyLEI           string
	classifyName          string
)

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().Float64VarP(&classifyEnvironmental, "environmental", "e", 0, "environmental sub-score (0-100)")
	classifyCmd.Flags().Float64VarP(&classifySocial, "social", "s", 0, "social sub-score (0-100)")
	classifyCmd.Flags().Float64VarP(&classifyGovernance, "governance", "g", 0, "governance sub-score (0-100)")
	classifyCmd.Flags().StringVar(&classifyISIN, "isin", "", "instrument ISIN (12 characters)")
	classifyCmd.Flags().StringVar(&classifyLEI, "lei", "", "instrument LEI (20 characters)")
	classifyCmd.Flags().StringVar(&classifyName, "name", "", "instrument name")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	calculator, err := esg.NewCalculator(
		cfg.Scoring.EnvironmentalWeight,
		cfg.Scoring.SocialWeight,
		cfg.Scoring.GovernanceWeight,
	)
	if err != nil {
		return fmt.Errorf("build calculator: %w", err)
	}

	score := calculator.Calculate(classifyEnvironmental, classifySocial, classifyGovernance)
	classification := iso20022.Classify(score, cfg.Scoring.WithCarbonIntensity)

	summary, err := json.MarshalIndent(map[string]interface{}{
		"score":            score,
		"investment_grade": score.IsInvestmentGrade(),
		"classification":   classification,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	fmt.Println(string(summary))

	if classifyISIN != "" || classifyLEI != "" || classifyName != "" {
		instrument := iso20022.Instrument{
			ISIN: classifyISIN,
			LEI:  classifyLEI,
			Name: classifyName,
		}
		fmt.Println()
		fmt.Println(iso20022.BuildMessage(instrument, classification))
	}

	return nil
}
