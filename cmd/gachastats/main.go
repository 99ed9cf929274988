package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bytedance/sonic"
	corecfg "github.com/gachalog/gachastats/internal/core/config"
	"github.com/gachalog/gachastats/internal/marker"
	"github.com/gachalog/gachastats/internal/stats"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once config is loaded.
type app struct {
	cfg     *corecfg.Config
	matcher *marker.Matcher
	agg     *stats.Aggregator
	out     io.Writer
}

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var configPath string
	a := &app{out: out}

	root := &cobra.Command{
		Use:          "gachastats",
		Short:        "Aggregate gacha pull logs into spending and drop-rate statistics",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	root.AddCommand(newReportCommand(a))
	root.AddCommand(newClassifyCommand(a))
	root.AddCommand(newBucketsCommand(a))
	return root
}

func (a *app) init(configPath string) error {
	cfg, err := corecfg.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)
	slog.Debug("Loaded config", "config", cfg.Stats, "extra_locales", len(cfg.ExtraSynonyms))

	a.cfg = cfg
	a.matcher = marker.New(cfg.ExtraSynonyms)
	a.agg = stats.New(
		stats.WithMatcher(a.matcher),
		stats.WithSystemOtherLabel(cfg.Stats.SystemOtherLabel),
		stats.WithCountOptions(marker.CountOptions{
			Scope:  marker.Scope(cfg.Stats.MarkerScope),
			Locale: cfg.Stats.DefaultLocale,
		}),
	)
	return nil
}

func (a *app) writeJSON(v interface{}) error {
	var (
		data []byte
		err  error
	)
	if a.cfg != nil && a.cfg.Output.Indent {
		data, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
	} else {
		data, err = sonic.ConfigStd.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}
