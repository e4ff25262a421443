package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tradewind-lab/tradewind/internal/config"
	"github.com/tradewind-lab/tradewind/internal/engine"
	"github.com/tradewind-lab/tradewind/internal/ledger"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/marketdata"
	"github.com/tradewind-lab/tradewind/internal/ranker"
	"github.com/tradewind-lab/tradewind/internal/risk"
	"github.com/tradewind-lab/tradewind/internal/store"
	"github.com/tradewind-lab/tradewind/internal/strategy"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// runAction wires the engine from the configuration and runs it until
// interrupted (or for exactly one cycle with --once).
func runAction(ctx context.Context, cmd *cli.Command) error {
	logInstance, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logInstance.Sync()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry, err := strategy.NewDefaultRegistry(logInstance)
	if err != nil {
		return fmt.Errorf("failed to build strategy registry: %w", err)
	}

	signalRanker, err := ranker.New(cfg.Weights, cfg.TopSignals, logInstance)
	if err != nil {
		return fmt.Errorf("failed to build ranker: %w", err)
	}

	var tradeStore store.TradeStore

	var tradeLedger *ledger.Ledger

	if cfg.StorePath != "" {
		duckStore, err := store.NewDuckDBStore(cfg.StorePath, logInstance)
		if err != nil {
			return fmt.Errorf("failed to open trade store: %w", err)
		}
		defer duckStore.Close()

		persisted, err := duckStore.LoadAll()
		if err != nil {
			return fmt.Errorf("failed to load persisted trades: %w", err)
		}

		tradeLedger, err = ledger.NewFromTrades(logInstance, persisted)
		if err != nil {
			return fmt.Errorf("failed to seed ledger: %w", err)
		}

		tradeStore = duckStore
	} else {
		tradeLedger = ledger.New(logInstance)
	}

	riskManager, err := risk.NewManager(risk.Limits{
		MaxPositionSize: cfg.MaxPositionSize,
		DuplicateWindow: cfg.DuplicateWindow.Std(),
	}, tradeLedger, logInstance)
	if err != nil {
		return fmt.Errorf("failed to build risk manager: %w", err)
	}

	eng, err := engine.New(engine.Options{
		Config:   cfg,
		Provider: marketdata.NewBinanceProvider(logInstance),
		Registry: registry,
		Ranker:   signalRanker,
		Risk:     riskManager,
		Ledger:   tradeLedger,
		Store:    tradeStore,
		Logger:   logInstance,
	})
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	if cmd.Bool("once") {
		result, err := eng.RunOnce(ctx)
		if err != nil {
			return fmt.Errorf("cycle failed: %w", err)
		}

		logInstance.Info("Single cycle finished",
			zap.Int("ranked_signals", len(result.Signals)),
			zap.Int("admitted_trades", len(result.Admitted)),
			zap.Float64("total_profit", result.Performance.TotalProfit),
		)

		return nil
	}

	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logInstance.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	eng.Stop()

	return nil
}

// buildConfig loads the YAML config when given and applies flag overrides.
func buildConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if symbols := cmd.StringSlice("symbols"); len(symbols) > 0 {
		cfg.Symbols = symbols
	}

	if storePath := cmd.String("store"); storePath != "" {
		cfg.StorePath = storePath
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "tradewind",
		Usage: "Periodic strategy and risk engine turning market quotes into ranked, risk-bounded trade signals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
			},
			&cli.StringSliceFlag{
				Name:    "symbols",
				Aliases: []string{"s"},
				Usage:   "Trading symbols to track (overrides the config file)",
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Run a single trading cycle and exit",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Path to the DuckDB trade store (enables persistence)",
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
