package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imaitland/llrt/internal/runtime"
)

func newEvalCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <code>",
		Short: "Evaluate inline code and print the settled result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			rt, err := runtime.New(runtime.ConfigFrom(e.cfg.Runtime), e.runtimeOptions()...)
			if err != nil {
				return fmt.Errorf("failed to create runtime: %w", err)
			}
			defer rt.Close()

			res, err := rt.Execute(cmd.Context(), "[eval]", args[0])
			if res != nil {
				printConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), res.Console)
			}
			if err != nil {
				return err
			}

			switch v := res.Value.(type) {
			case nil:
				fmt.Fprintln(cmd.OutOrStdout(), "undefined")
			case string:
				fmt.Fprintln(cmd.OutOrStdout(), v)
			default:
				return printJSON(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}
