package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/options-edge/src/logger"
	"github.com/jiaming2012/options-edge/src/models"
	"github.com/jiaming2012/options-edge/src/scanner"
	"github.com/jiaming2012/options-edge/src/scoring"
	"github.com/jiaming2012/options-edge/src/strategy"
	"github.com/jiaming2012/options-edge/src/utils"
)

// csvFetcher serves chain and history data from local CSV exports; the quote
// comes from flags since a CSV snapshot of it would be stale anyway.
type csvFetcher struct {
	chainDir   string
	historyDir string
	quote      models.Quote
}

func (f *csvFetcher) GetOptionsChain(symbol models.StockSymbol) ([]*models.RawContractRowDTO, error) {
	return utils.LoadChainRows(f.chainDir)
}

func (f *csvFetcher) GetHistoricalCandles(symbol models.StockSymbol) ([]models.Candle, error) {
	return utils.LoadCandles(f.historyDir)
}

func (f *csvFetcher) GetQuote(symbol models.StockSymbol) (*models.Quote, error) {
	quote := f.quote
	quote.Symbol = symbol
	return &quote, nil
}

type RunArgs struct {
	Symbol     string
	ChainDir   string
	HistoryDir string
	ConfigDir  string
	CurrentIV  float64
	Price      float64
	ChangePct  float64
	OptionType string
}

var rootCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan an exported option chain for buyable opportunities.",
	Run: func(cmd *cobra.Command, args []string) {
		runArgs := RunArgs{}

		var err error
		if runArgs.Symbol, err = cmd.Flags().GetString("symbol"); err != nil {
			log.Fatalf("error getting symbol: %v", err)
		}
		if runArgs.ChainDir, err = cmd.Flags().GetString("chain"); err != nil {
			log.Fatalf("error getting chain: %v", err)
		}
		if runArgs.HistoryDir, err = cmd.Flags().GetString("history"); err != nil {
			log.Fatalf("error getting history: %v", err)
		}
		if runArgs.ConfigDir, err = cmd.Flags().GetString("config"); err != nil {
			log.Fatalf("error getting config: %v", err)
		}
		if runArgs.CurrentIV, err = cmd.Flags().GetFloat64("current-iv"); err != nil {
			log.Fatalf("error getting current-iv: %v", err)
		}
		if runArgs.Price, err = cmd.Flags().GetFloat64("price"); err != nil {
			log.Fatalf("error getting price: %v", err)
		}
		if runArgs.ChangePct, err = cmd.Flags().GetFloat64("change-pct"); err != nil {
			log.Fatalf("error getting change-pct: %v", err)
		}
		if runArgs.OptionType, err = cmd.Flags().GetString("option-type"); err != nil {
			log.Fatalf("error getting option-type: %v", err)
		}

		if err := run(runArgs); err != nil {
			log.Fatalf("error running scan: %v", err)
		}
	},
}

func main() {
	logger.Init()

	rootCmd.PersistentFlags().String("symbol", "", "Underlying stock symbol.")
	rootCmd.PersistentFlags().String("chain", "", "Path to the exported option chain CSV.")
	rootCmd.PersistentFlags().String("history", "", "Path to the daily price history CSV.")
	rootCmd.PersistentFlags().String("config", "", "Optional path to a YAML config file.")
	rootCmd.PersistentFlags().Float64("current-iv", 0, "Current implied volatility of the underlying, in percent.")
	rootCmd.PersistentFlags().Float64("price", 0, "Current underlying price.")
	rootCmd.PersistentFlags().Float64("change-pct", 0, "Today's percent change of the underlying.")
	rootCmd.PersistentFlags().String("option-type", "", "Restrict the scan to 'call' or 'put'.")

	rootCmd.MarkPersistentFlagRequired("symbol")
	rootCmd.MarkPersistentFlagRequired("chain")
	rootCmd.MarkPersistentFlagRequired("history")
	rootCmd.MarkPersistentFlagRequired("price")

	cobra.CheckErr(rootCmd.Execute())
}

func run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables("."); err != nil {
		return fmt.Errorf("error initializing environment variables: %v", err)
	}

	scanConfig := models.NewDefaultScanConfig()
	if args.ConfigDir != "" {
		data, err := os.ReadFile(args.ConfigDir)
		if err != nil {
			return fmt.Errorf("error reading config file: %v", err)
		}

		if scanConfig, _, err = models.ParseConfigYAML(data); err != nil {
			return fmt.Errorf("error parsing config file: %v", err)
		}
	}

	symbol := models.StockSymbol(args.Symbol)

	fetcher := &csvFetcher{
		chainDir:   args.ChainDir,
		historyDir: args.HistoryDir,
		quote: models.Quote{
			Price:     args.Price,
			ChangePct: args.ChangePct,
		},
	}

	scan := scanner.NewScanner(fetcher, scanConfig)

	params := scanner.ScanParams{}
	if args.OptionType != "" {
		optionType, err := models.NewOptionType(args.OptionType)
		if err != nil {
			return fmt.Errorf("invalid option type: %v", err)
		}

		params.OptionType = &optionType
	}

	chain, err := scan.ScanSymbol(symbol, params)
	if err != nil {
		return fmt.Errorf("scan failed: %v", err)
	}

	var currentIV *float64
	if args.CurrentIV > 0 {
		currentIV = &args.CurrentIV
	}

	snapshot := scan.MarketSnapshot(symbol, currentIV)

	chain = scan.IVRankGate(chain, snapshot)

	scored := scoring.NewScorer().ScoreChain(chain, snapshot)
	if len(scored) == 0 {
		log.Info("no opportunities found")
		return nil
	}

	fmt.Println(scored)

	singleLeg := strategy.NewSingleLegStrategy()
	if signal := singleLeg.EvaluateEntry(scored, snapshot); signal != nil {
		fmt.Println(signal.Rationale)
	} else {
		log.Info("no entry signal generated")
	}

	return nil
}
