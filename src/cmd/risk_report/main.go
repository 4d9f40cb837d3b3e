package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/options-edge/src/logger"
	"github.com/jiaming2012/options-edge/src/models"
	"github.com/jiaming2012/options-edge/src/risk"
)

type RunArgs struct {
	AccountValue float64
	Premium      float64
	Contracts    int
	OptionType   string
	ConfigDir    string
}

var rootCmd = &cobra.Command{
	Use:   "risk_report",
	Short: "Print the risk breakdown for a proposed long option trade.",
	Run: func(cmd *cobra.Command, args []string) {
		runArgs := RunArgs{}

		var err error
		if runArgs.AccountValue, err = cmd.Flags().GetFloat64("account-value"); err != nil {
			log.Fatalf("error getting account-value: %v", err)
		}
		if runArgs.Premium, err = cmd.Flags().GetFloat64("premium"); err != nil {
			log.Fatalf("error getting premium: %v", err)
		}
		if runArgs.Contracts, err = cmd.Flags().GetInt("contracts"); err != nil {
			log.Fatalf("error getting contracts: %v", err)
		}
		if runArgs.OptionType, err = cmd.Flags().GetString("option-type"); err != nil {
			log.Fatalf("error getting option-type: %v", err)
		}
		if runArgs.ConfigDir, err = cmd.Flags().GetString("config"); err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		if err := run(runArgs); err != nil {
			log.Fatalf("error running risk report: %v", err)
		}
	},
}

func main() {
	logger.Init()

	rootCmd.PersistentFlags().Float64("account-value", 0, "Total account value in dollars.")
	rootCmd.PersistentFlags().Float64("premium", 0, "Premium per share, e.g. 1.50.")
	rootCmd.PersistentFlags().Int("contracts", 1, "Number of contracts.")
	rootCmd.PersistentFlags().String("option-type", "call", "Option type: 'call' or 'put'.")
	rootCmd.PersistentFlags().String("config", "", "Optional path to a YAML config file.")

	rootCmd.MarkPersistentFlagRequired("account-value")
	rootCmd.MarkPersistentFlagRequired("premium")

	cobra.CheckErr(rootCmd.Execute())
}

func run(args RunArgs) error {
	riskConfig := models.NewDefaultRiskConfig()
	if args.ConfigDir != "" {
		data, err := os.ReadFile(args.ConfigDir)
		if err != nil {
			return fmt.Errorf("error reading config file: %v", err)
		}

		if _, riskConfig, err = models.ParseConfigYAML(data); err != nil {
			return fmt.Errorf("error parsing config file: %v", err)
		}
	}

	optionType, err := models.NewOptionType(args.OptionType)
	if err != nil {
		return fmt.Errorf("invalid option type: %v", err)
	}

	calc, err := risk.NewCalculator(args.AccountValue, riskConfig)
	if err != nil {
		return fmt.Errorf("failed to create risk calculator: %w", err)
	}

	fmt.Println(calc.RiskReport(risk.ProposedTrade{
		OptionType: optionType,
		Premium:    args.Premium,
		Contracts:  args.Contracts,
	}))

	return nil
}
