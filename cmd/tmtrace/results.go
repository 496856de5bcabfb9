package main

import (
	"github.com/irobinett3/traceTM-iansntm/internal/cli"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect stored trace results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		jsonMode, _ := cmd.Flags().GetBool("json")
		return cli.ListResults(cmd.Context(), app.Engine, cmd.OutOrStdout(), jsonMode)
	},
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		jsonMode, _ := cmd.Flags().GetBool("json")
		return cli.ShowResult(cmd.Context(), app.Engine, args[0], cmd.OutOrStdout(), jsonMode)
	},
}

var resultsDeleteCmd = &cobra.Command{
	Use:   "delete <id...>",
	Short: "Delete stored results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.DeleteResults(cmd.Context(), app.Engine, args)
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsListCmd, resultsShowCmd, resultsDeleteCmd)

	resultsListCmd.Flags().Bool("json", false, "Print summaries as JSON")
	resultsShowCmd.Flags().Bool("json", false, "Print the result as JSON")
}
