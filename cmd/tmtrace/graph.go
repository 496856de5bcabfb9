package main

import (
	"github.com/irobinett3/traceTM-iansntm/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <machine>",
	Short: "Export the state diagram of a machine",
	Long:  `Outputs a Mermaid flowchart (graph LR) of the transition table, optionally highlighting the states a stored result visited.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		resultID, _ := cmd.Flags().GetString("result")
		return cli.Graph(cmd.Context(), app.Engine, args[0], resultID, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("result", "", "Stored result ID to overlay")
}
