package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imaitland/llrt/internal/fs"
	"github.com/imaitland/llrt/internal/runtime"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "run <script.js>...",
		Short: "Run one or more scripts",
		Long: `Run scripts concurrently on a pool of runtimes. Each script runs until
its event loop is idle. Console output is printed once the script finishes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			pool, err := runtime.NewPool(runtime.ConfigFrom(e.cfg.Runtime), e.cfg.Runtime.PoolSize, e.runtimeOptions()...)
			if err != nil {
				return fmt.Errorf("failed to create runtime pool: %w", err)
			}
			defer pool.Close()

			ctx := cmd.Context()
			results := make([]*runtime.Result, len(args))
			errs := make([]error, len(args))

			var wg sync.WaitGroup
			for i, path := range args {
				wg.Add(1)
				go func() {
					defer wg.Done()
					src, err := e.engine.ReadFileString(ctx, path, fs.ReadFileOptions{})
					if err != nil {
						errs[i] = err
						return
					}
					results[i], errs[i] = pool.Execute(ctx, path, src)
				}()
			}
			wg.Wait()

			failed := 0
			for i, path := range args {
				if results[i] != nil {
					printConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), results[i].Console)
				}
				if errs[i] != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, errs[i])
					e.log.Debug("script failed", zap.String("script", path), zap.Error(errs[i]))
				}
			}

			if stats {
				if err := printJSON(cmd.OutOrStdout(), e.metrics.Snapshot()); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scripts failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "print filesystem operation metrics as JSON")
	return cmd
}
