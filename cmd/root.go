package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/impianti/app"
	"github.com/kilianp07/impianti/config"
	coremon "github.com/kilianp07/impianti/core/monitoring"
	"github.com/kilianp07/impianti/infra/logger"
	"github.com/kilianp07/impianti/infra/monitoring"
)

var (
	cfgPath     string
	datasetPath string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:               "impianti",
	Short:             "Facility consumption averages and optimal visit schedules",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { teardown() },
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&datasetPath, "dataset", "d", "", "facility dataset (yaml, json or csv) overriding store.dataset")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func setup(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if datasetPath != "" {
		c.Store.Dataset = datasetPath
		if c.Store.Backend == "memory" {
			c.Store.Backend = "file"
		}
	}
	closer, err := logger.Configure(c.Logging)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(c.Sentry)
	if err != nil {
		logger.New("main").Warnf("sentry disabled: %v", err)
	} else {
		coremon.Init(mon)
	}
	cfg, logCloser = c, closer
	return nil
}

// loadConfig falls back to defaults when the default config file is absent.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

func teardown() {
	coremon.Flush(2 * time.Second)
	if logCloser != nil {
		_ = logCloser.Close()
	}
}

func openService(ctx context.Context) (*app.Service, error) {
	svc, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := svc.Load(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

func closeService(cmd *cobra.Command, svc *app.Service) {
	if err := svc.Close(); err != nil {
		if _, ferr := fmt.Fprintf(cmd.ErrOrStderr(), "error while closing service: %v\n", err); ferr != nil {
			fmt.Println("failed to write to stderr:", ferr)
		}
	}
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "csv":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or csv)", format)
	}
}
