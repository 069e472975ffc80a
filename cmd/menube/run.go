package main

import (
	"github.com/aretw0/menube/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [menu-file]",
	Short: "Navigate the menu interactively",
	Long: `Opens the menu in the terminal. Use the arrow keys (or h/j/k/l) to move,
enter to activate and q to quit. With --session the selection is saved on
every move and restored on the next run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{BackendOptions: backendOptions(cmd)}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.NoBanner, _ = cmd.Flags().GetBool("no-banner")
		opts.QuitEvents, _ = cmd.Flags().GetStringSlice("quit-on")
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to resume and save")
	runCmd.Flags().Bool("fresh", false, "Discard the saved selection before starting")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	runCmd.Flags().StringSlice("quit-on", cli.DefaultQuitEvents, "Events that end the session")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Args = runCmd.Args
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
