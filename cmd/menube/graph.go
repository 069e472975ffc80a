package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/menube/internal/presentation/graph"
	"github.com/aretw0/menube/pkg/adapters/file"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:     "graph [menu-file]",
	Aliases: []string{"tree"},
	Short:   "Print the menu tree",
	Long:    `Loads the menu and prints it as an indented tree, a Mermaid diagram (graph TD) or JSON.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		nodes, err := file.NewLoader(backendOptions(cmd).MenuPath).Load(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "text":
			printTree(out, nodes, 0)
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(nodes, nil))
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(nodes)
		default:
			return fmt.Errorf("unknown format %q (want text, mermaid or json)", format)
		}
		return nil
	},
}

func printTree(out io.Writer, nodes []*domain.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		detail := ""
		switch n.Kind {
		case domain.KindCommand:
			detail = "$ " + n.Command
		case domain.KindNotify:
			detail = "! " + n.Event
		case domain.KindOptions:
			detail = "… " + n.DiscoveryCommand
		}
		if detail != "" {
			fmt.Fprintf(out, "%s%s  (%s)\n", indent, n.Label, detail)
		} else {
			fmt.Fprintf(out, "%s%s\n", indent, n.Label)
		}
		printTree(out, n.Children, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "text", "Output format: text, mermaid or json")
}
