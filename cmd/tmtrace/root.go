package main

import (
	"fmt"
	"os"

	"github.com/irobinett3/traceTM-iansntm/internal/cli"
	"github.com/irobinett3/traceTM-iansntm/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "tmtrace",
	Short: "tmtrace traces non-deterministic Turing machines",
	Long: `tmtrace explores every computation branch of a Turing machine breadth-first,
recording each configuration per depth until the input is accepted, every branch
halts, or the depth bound is reached.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	addConfigFlags(rootCmd.PersistentFlags())
}

// addConfigFlags registers the flags that override tmtrace.yaml.
func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	flags.String("dir", "", "Directory containing machine definitions")
	flags.Bool("loam", false, "Read the machines directory as a Loam catalog")
	flags.Int("max-depth", 0, "Depth bound for every run (0 uses the default)")
	flags.Int("max-frontier", 0, "Abort runs whose frontier exceeds this size (0 disables)")
	flags.String("store", "", "Result store: none, memory, file, sqlite or redis")
	flags.String("store-path", "", "Results directory (file) or database (sqlite)")
	flags.String("redis-addr", "", "Redis address for the redis store")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-file", "", "Mirror logs as JSON lines into this file")
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Machines, _ = flags.GetString("dir")
	}
	if flags.Changed("loam") {
		cfg.Loam, _ = flags.GetBool("loam")
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("max-frontier") {
		cfg.MaxFrontier, _ = flags.GetInt("max-frontier")
	}
	if flags.Changed("store") {
		cfg.Store.Backend, _ = flags.GetString("store")
	}
	if flags.Changed("store-path") {
		cfg.Store.Path, _ = flags.GetString("store-path")
	}
	if flags.Changed("redis-addr") {
		cfg.Store.RedisAddr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openApp(cmd *cobra.Command) (*cli.App, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}
	app, err := cli.NewApp(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return app, cfg, nil
}
