package main

import (
	"fmt"

	"github.com/aretw0/menube/internal/validator"
	"github.com/aretw0/menube/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [menu-file]",
	Short: "Check the menu for mistakes",
	Long:  `Loads the menu, following included files, and reports items that cannot work: missing labels, commands or events.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		menuPath := backendOptions(cmd).MenuPath
		nodes, err := file.NewLoader(menuPath).Load(cmd.Context())
		if err != nil {
			return err
		}
		problems := validator.Check(nodes)
		for _, p := range problems {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", p)
		}
		if len(problems) > 0 {
			return fmt.Errorf("validation failed: %d problems in %s", len(problems), menuPath)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Menu is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
