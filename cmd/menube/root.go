package main

import (
	"fmt"
	"os"

	"github.com/aretw0/menube/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "menube",
	Short: "menube is a hierarchical menu launcher for the terminal",
	Long: `menube loads a menu tree from YAML, JSON or TOML and lets you navigate it
with the keyboard. Items run shell commands, publish events or build
submenus from the output of a discovery command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringP("menu", "m", "menu.yaml", "Menu file (.yaml, .yml, .json or .toml)")
	f.String("log-level", "warn", "Log level: debug, info, warn or error")
	f.String("log-file", "", "Also write JSON logs to this file")
	f.String("store", cli.StoreFile, "Session store: file, memory or redis")
	f.String("session-dir", "", "Directory of the file session store (default .menube/sessions)")
	f.String("redis-addr", "", "Redis address for the redis store and --redis-events")
	f.Bool("redis-events", false, "Publish every event to Redis")
	f.Bool("pending-guard", false, "Refuse to re-activate an item whose command is still running")
	f.String("runner-config", "runner.yaml", "Runner configuration file (shell, dir, env, timeout)")
	f.Bool("lenient", false, "Load menus that fail validation, logging the problems")
}

// backendOptions reads the persistent flags.
func backendOptions(cmd *cobra.Command) cli.BackendOptions {
	f := cmd.Flags()
	opts := cli.BackendOptions{}
	opts.MenuPath, _ = f.GetString("menu")
	if !f.Changed("menu") && len(cmd.Flags().Args()) > 0 {
		opts.MenuPath = cmd.Flags().Arg(0)
	}
	opts.LogLevel, _ = f.GetString("log-level")
	opts.LogFile, _ = f.GetString("log-file")
	opts.Store, _ = f.GetString("store")
	opts.SessionDir, _ = f.GetString("session-dir")
	opts.RedisAddr, _ = f.GetString("redis-addr")
	opts.RedisEvents, _ = f.GetBool("redis-events")
	opts.PendingGuard, _ = f.GetBool("pending-guard")
	opts.RunnerConfig, _ = f.GetString("runner-config")
	opts.Lenient, _ = f.GetBool("lenient")
	return opts
}
