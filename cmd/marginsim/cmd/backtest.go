package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/marginsim/chart"
	"github.com/rustyeddy/marginsim/config"
	"github.com/rustyeddy/marginsim/journal"
	"github.com/rustyeddy/marginsim/market"
	"github.com/rustyeddy/marginsim/pkg/id"
	"github.com/rustyeddy/marginsim/sim"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the levered and unlevered portfolio simulation",
	Long: `Backtest replays the core/satellite rotation strategy over aligned
daily history and reports both variants side by side.

Example:
  marginsim backtest --tickers SCHD,JEPI,VYM --range 2y --apr 0.065
  marginsim backtest --config portfolio.yaml --chart equity.png`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btTickers    []string
	btSource     string
	btDataDir    string
	btRange      string

	btInitial     float64
	btDeposit     float64
	btLookback    int
	btCore        float64
	btMaintenance float64
	btBuffer      float64
	btRotation    bool
	btAPR         float64

	btJournalType string
	btJournalDir  string
	btDBPath      string
	btChartPath   string
	btOrgPath     string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to YAML or JSON config file")
	backtestCmd.Flags().StringSliceVarP(&btTickers, "tickers", "t", nil, "tickers to simulate (e.g. SCHD,JEPI,VYM)")
	backtestCmd.Flags().StringVar(&btSource, "source", "yahoo", "data source (yahoo, csv)")
	backtestCmd.Flags().StringVar(&btDataDir, "dir", "", "bar archive directory for csv source")
	backtestCmd.Flags().StringVar(&btRange, "range", "2y", "yahoo history range (1y, 2y, 5y, max)")

	backtestCmd.Flags().Float64Var(&btInitial, "initial", 6000, "initial capital")
	backtestCmd.Flags().Float64Var(&btDeposit, "deposit", 2000, "monthly deposit")
	backtestCmd.Flags().IntVar(&btLookback, "lookback", 30, "ranking lookback window in calendar days")
	backtestCmd.Flags().Float64Var(&btCore, "core", 0.40, "core bucket fraction of target NMV")
	backtestCmd.Flags().Float64Var(&btMaintenance, "maintenance", 0.25, "maintenance margin requirement")
	backtestCmd.Flags().Float64Var(&btBuffer, "buffer", 0.05, "buffer points above maintenance")
	backtestCmd.Flags().BoolVar(&btRotation, "rotation", false, "enable donor rotation caps on the satellite tilt")
	backtestCmd.Flags().Float64Var(&btAPR, "apr", 0, "loan interest APR (0 disables interest)")

	backtestCmd.Flags().StringVar(&btJournalType, "journal", "none", "journal backend (csv, sqlite, none)")
	backtestCmd.Flags().StringVar(&btJournalDir, "journal-dir", "./journal", "directory for csv journal files")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "./marginsim.sqlite", "path to SQLite journal DB")
	backtestCmd.Flags().StringVar(&btChartPath, "chart", "", "write equity curve PNG to this path")
	backtestCmd.Flags().StringVar(&btOrgPath, "org", "", "write an Org-mode run report to this path")
}

// resolveConfig loads the config file when given and lets explicitly
// set flags override it.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if btConfigPath != "" {
		loaded, err := config.LoadFromFile(btConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	flags := cmd.Flags()
	if flags.Changed("tickers") || len(cfg.Data.Tickers) == 0 {
		cfg.Data.Tickers = btTickers
	}
	if flags.Changed("source") {
		cfg.Data.Source = btSource
	}
	if flags.Changed("dir") {
		cfg.Data.Dir = btDataDir
	}
	if flags.Changed("range") {
		cfg.Data.Range = btRange
	}
	if flags.Changed("initial") {
		cfg.Strategy.InitialCapital = btInitial
	}
	if flags.Changed("deposit") {
		cfg.Strategy.MonthlyDeposit = btDeposit
	}
	if flags.Changed("lookback") {
		cfg.Strategy.LookbackDays = btLookback
	}
	if flags.Changed("core") {
		cfg.Strategy.CoreFraction = btCore
	}
	if flags.Changed("maintenance") {
		cfg.Strategy.MaintenanceReq = btMaintenance
	}
	if flags.Changed("buffer") {
		cfg.Strategy.BufferPoints = btBuffer
	}
	if flags.Changed("rotation") {
		cfg.Strategy.RotationEnabled = btRotation
	}
	if flags.Changed("apr") {
		cfg.Policy.InterestAPR = btAPR
	}
	if flags.Changed("journal") {
		cfg.Journal.Type = btJournalType
	}
	if flags.Changed("journal-dir") {
		cfg.Journal.Dir = btJournalDir
	}
	if flags.Changed("db") {
		cfg.Journal.DBPath = btDBPath
	}
	if flags.Changed("chart") {
		cfg.Chart.Output = btChartPath
	}

	if cfg.Journal.Type == "csv" && cfg.Journal.Dir == "" {
		cfg.Journal.Dir = btJournalDir
	}
	if cfg.Journal.Type == "sqlite" && cfg.Journal.DBPath == "" {
		cfg.Journal.DBPath = btDBPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	grid, err := loadGrid(ctx, cfg)
	if err != nil {
		return err
	}

	bt, err := sim.Run(grid, cfg.Params(), cfg.SimPolicy())
	if err != nil {
		return err
	}

	runID := id.NewRunID()
	log.Info().Str("run_id", runID).Msg("simulation complete")

	rec := buildRunRecord(runID, cfg, grid, bt)

	if err := journalRun(cfg, rec, bt); err != nil {
		return err
	}

	if cfg.Chart.Output != "" {
		if err := chart.WriteEquityPNG(cfg.Chart.Output, bt.Levered.Equity, bt.Unlevered.Equity); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		log.Info().Str("path", cfg.Chart.Output).Msg("wrote equity chart")
	}

	if btOrgPath != "" {
		report, err := journal.FormatRunOrg(rec)
		if err != nil {
			return fmt.Errorf("format report: %w", err)
		}
		if err := os.WriteFile(btOrgPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info().Str("path", btOrgPath).Msg("wrote run report")
	}

	printSummary(runID, grid, bt)
	return nil
}

func buildRunRecord(runID string, cfg *config.Config, grid market.Grid, bt *sim.Backtest) journal.RunRecord {
	params, _ := json.Marshal(cfg.Strategy)
	breaches := 0
	for _, ev := range bt.Levered.MarginEvents {
		if ev.Kind == sim.MaintenanceBreach {
			breaches++
		}
	}
	return journal.RunRecord{
		RunID:           runID,
		Created:         time.Now().UTC(),
		Tickers:         cfg.Data.Tickers,
		Start:           grid.Dates[0],
		End:             grid.Dates[grid.Len()-1],
		Params:          params,
		TotalReturn:     bt.Levered.Metrics.TotalReturn,
		CAGR:            bt.Levered.Metrics.CAGR,
		VolAnn:          bt.Levered.Metrics.VolAnn,
		Sharpe:          bt.Levered.Metrics.Sharpe,
		Sortino:         bt.Levered.Metrics.Sortino,
		MaxDrawdown:     bt.Levered.Metrics.MaxDrawdown,
		HitRate:         bt.Levered.Metrics.HitRate,
		UnleveredReturn: bt.Unlevered.Metrics.TotalReturn,
		MarginBreaches:  breaches,
	}
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.Dir)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return nil, nil
	}
}

func journalRun(cfg *config.Config, rec journal.RunRecord, bt *sim.Backtest) error {
	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j == nil {
		return nil
	}
	defer j.Close()

	if err := j.RecordRun(rec); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	for _, row := range bt.Audit {
		err := j.RecordDaily(journal.DailyRecord{
			RunID:          rec.RunID,
			Date:           row.Date,
			Equity:         row.Equity,
			NMV:            row.NMV,
			Loan:           row.Loan,
			MarginRatio:    row.MarginRatio,
			CoreValue:      row.CoreValue,
			SatelliteValue: row.SatelliteValue,
			Dividend:       row.Dividend,
			DividendMTD:    row.DividendMTD,
			DividendYTD:    row.DividendYTD,
			Interest:       row.Interest,
			InterestMTD:    row.InterestMTD,
			InterestYTD:    row.InterestYTD,
			Deposit:        row.Deposit,
		})
		if err != nil {
			return fmt.Errorf("record daily: %w", err)
		}
	}
	for _, ev := range bt.Levered.MarginEvents {
		err := j.RecordMarginEvent(journal.MarginEventRecord{
			RunID:      rec.RunID,
			Date:       ev.Date,
			Kind:       string(ev.Kind),
			Ratio:      ev.Ratio,
			CashNeeded: ev.CashNeeded,
			SellNeeded: ev.SellNeeded,
		})
		if err != nil {
			return fmt.Errorf("record margin event: %w", err)
		}
	}
	for _, pick := range bt.Picks {
		err := j.RecordPick(journal.PickRecord{
			RunID:  rec.RunID,
			Date:   pick.Date,
			Ticker: pick.Selected,
		})
		if err != nil {
			return fmt.Errorf("record pick: %w", err)
		}
	}
	return nil
}

func printSummary(runID string, grid market.Grid, bt *sim.Backtest) {
	fmt.Printf("\nBacktest Complete!  (run %s)\n", runID)
	fmt.Printf("  Period: %s -> %s (%d trading days)\n",
		grid.Dates[0].Format("2006-01-02"),
		grid.Dates[grid.Len()-1].Format("2006-01-02"),
		grid.Len())

	printVariant("Levered", bt.Levered)
	printVariant("Unlevered", bt.Unlevered)

	last := bt.Levered.Equity[len(bt.Levered.Equity)-1]
	fmt.Printf("\n  Final levered equity:   $%.2f\n", last.Value)
	fmt.Printf("  Final unlevered equity: $%.2f\n", bt.Unlevered.Equity[len(bt.Unlevered.Equity)-1].Value)
	fmt.Printf("  Margin events: %d  Rebalances: %d\n", len(bt.Levered.MarginEvents), len(bt.Picks))
}

func printVariant(name string, s sim.Series) {
	m := s.Metrics
	fmt.Printf("\n  %s:\n", name)
	fmt.Printf("    Total Return: %8.2f%%   CAGR: %7.2f%%\n", m.TotalReturn*100, m.CAGR*100)
	fmt.Printf("    Volatility:   %8.2f%%   Sharpe: %5.2f   Sortino: %5.2f\n", m.VolAnn*100, m.Sharpe, m.Sortino)
	fmt.Printf("    Max Drawdown: %8.2f%%   Hit Rate: %5.2f%%\n", m.MaxDrawdown*100, m.HitRate*100)
}
