package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vaibhaw-/custetl/internal/custetl/config"
	"github.com/vaibhaw-/custetl/internal/custetl/logger"
	"github.com/vaibhaw-/custetl/internal/custetl/pipeline"
	"github.com/vaibhaw-/custetl/internal/custetl/store"
)

var (
	cfgFile string
	Version = "v0.1"
	build   = "dev"
	rootCmd = &cobra.Command{
		Use:   "custetl <db-user> <db-password>",
		Short: "custetl - customer extract ETL",
		Long: "custetl reads the pipe-delimited customer extract, derives age and days since\n" +
			"last consultation, keeps the latest row per customer, writes an xlsx export\n" +
			"and replaces one table per country in the target database.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		// Only the ETL run needs the ETL config; subcommands must not fail on it.
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Warning: could not read .env (%v).\n", err)
			}

			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
			} else {
				// default: ./config.yaml
				viper.SetConfigFile("config.yaml")
			}
			if err := viper.ReadInConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not read config (%v). Using defaults and environment.\n", err)
			}
			config.BindEnv(viper.GetViper())
			if err := config.Load(viper.GetViper()); err != nil {
				return err
			}

			if err := logger.InitLogger(config.Get().Logging.Level); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		RunE: runETL,
	}
)

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
}

func runETL(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	r, err := pipeline.New(config.Get())
	if err != nil {
		return err
	}
	_, err = r.Run(cmd.Context(), store.Credentials{User: args[0], Password: args[1]})
	return err
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
