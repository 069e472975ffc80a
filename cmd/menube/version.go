package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/menube"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of menube",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "menube version %s\n", strings.TrimSpace(menube.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
