package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kosarica/catalog-service/config"
	"github.com/kosarica/catalog-service/internal/app"
	"github.com/kosarica/catalog-service/internal/database"
	"github.com/kosarica/catalog-service/internal/engine"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catalog-service",
	Short: "Catalog Service CLI - price resolution and storefront export tool",
	Long: `A CLI tool for inspecting the catalog: resolves current prices of price
pools, exports products for a storefront, writes price reports and applies
database migrations.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional for some commands, don't fail here
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	needsConfig := cmd.Name() == "export" || cmd.Name() == "report" || cmd.Name() == "migrate"
	if needsConfig && cfg == nil {
		return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
	}

	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Logs go to stderr so that command output can be piped
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

// openEngine builds the engine on the configured storage. Facts stashed by
// the CLI are kept in memory only.
func openEngine(ctx context.Context) (*engine.Engine, func(), error) {
	store, err := app.OpenStorage(ctx, cfg, *logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	cliCfg := *cfg
	cliCfg.Recovery.Backend = "memory"
	rec, err := app.OpenRecovery(ctx, &cliCfg, *logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open recovery cache: %w", err)
	}

	e, err := app.NewEngine(cfg, store, rec.Cache, *logger)
	if err != nil {
		return nil, nil, err
	}
	return e, func() {
		_ = rec.Close()
		database.Close()
	}, nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
