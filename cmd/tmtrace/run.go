package main

import (
	"os"

	"github.com/irobinett3/traceTM-iansntm/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <machine> [input...]",
	Short: "Trace input strings on a machine",
	Long: `Runs each input string on the named machine and prints the per-depth trace.
With no input arguments, inputs are read from stdin, one per line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		inputs := args[1:]
		if len(inputs) == 0 {
			inputs, err = cli.ReadInputs(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}

		out, _ := cmd.Flags().GetString("out")
		jsonMode, _ := cmd.Flags().GetBool("json")
		pretty, _ := cmd.Flags().GetBool("pretty")
		depth, _ := cmd.Flags().GetInt("depth")

		return cli.Trace(cmd.Context(), app.Engine, cli.RunOptions{
			Machine:  args[0],
			Inputs:   inputs,
			MaxDepth: depth,
			Out:      out,
			Format:   cli.ResolveFormat(jsonMode, pretty, os.Stdout),
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("out", "o", "", "Also write the text report to this file")
	runCmd.Flags().Bool("json", false, "Print one JSON result per line")
	runCmd.Flags().Bool("pretty", true, "Render Markdown reports on interactive terminals")
	runCmd.Flags().IntP("depth", "d", 0, "Depth bound for this run (overrides --max-depth)")
}
