package main

import (
	"github.com/irobinett3/traceTM-iansntm/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [machine...]",
	Short: "Check machine definitions for consistency",
	Long:  `Loads each machine (all of them by default), reports definition errors and warns about states unreachable from the start state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.Validate(cmd.Context(), app.Engine, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
