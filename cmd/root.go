// Package cmd contains all CLI commands for imgvariant
package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgvariant/internal/config"
	"github.com/AnyUserName/imgvariant/internal/logging"
)

var (
	cfgFile   string
	verbose   bool
	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
	version   = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "imgvariant",
	Short: "Image variant resolution and production",
	Long: `imgvariant stores uploaded images together with the variants their
image type asks for, and resolves the best stored variant for a display size.

Example usage:
  imgvariant catalog import catalog.yaml
  imgvariant types
  imgvariant produce photos/ --type avatar --manifest out.json
  imgvariant picture <image-id> --width 320 --height 240`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .imgvariant.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgvariant {{.Version}} (%s/%s, %s)\n",
		runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// initConfig loads the configuration and builds the logger.
func initConfig() error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser, err = logging.New(cfg.Logging, verbose)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	logger.Debug().
		Str("catalog", cfg.Catalog.Driver).
		Str("store", cfg.Store.Driver).
		Str("storage", cfg.Storage.Driver).
		Msg("configuration loaded")
	return nil
}
