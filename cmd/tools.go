package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/combine/internal/adapters/console"
	mcpserver "github.com/okian/combine/internal/adapters/mcp"
	"github.com/okian/combine/internal/domain/types"
	"github.com/okian/combine/pkg/logger"
)

// newMCPCmd serves the MCP tools over stdio. Logs go to stderr so stdout
// carries only protocol frames.
func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analytics tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, svc, err := bootstrap(ctx, os.Stderr)
			if err != nil {
				return err
			}
			defer svc.Stop()

			logger.Get().Info(ctx, "serving MCP over stdio")
			return mcpserver.NewServer(svc).Run(ctx)
		},
	}
}

type topOptions struct {
	metric   string
	position string
	n        int
	from     int
	to       int
	allTime  bool
}

func newTopCmd() *cobra.Command {
	var opts topOptions

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the top performers on one drill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, svc, err := bootstrap(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer svc.Stop()

			q := types.Query{YearMin: opts.from, YearMax: opts.to, Position: opts.position, Metric: opts.metric, N: opts.n}
			rank := svc.Top
			if opts.allTime {
				rank = svc.AllTime
			}
			ranking, err := rank(ctx, q)
			if err != nil {
				return err
			}
			console.Ranking(cmd.OutOrStdout(), ranking)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.metric, "metric", "forty", "Drill: forty, vertical, bench, broad_jump, threecone, shuttle")
	cmd.Flags().StringVar(&opts.position, "position", "All", "Position code or All")
	cmd.Flags().IntVarP(&opts.n, "n", "n", 0, "Number of players (0 = configured default)")
	cmd.Flags().IntVar(&opts.from, "from", 0, "First year (0 = dataset start)")
	cmd.Flags().IntVar(&opts.to, "to", 0, "Last year (0 = dataset end)")
	cmd.Flags().BoolVar(&opts.allTime, "all-time", false, "Rank across every year, ignoring --from and --to")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.from > 0 && opts.to > 0 && opts.from > opts.to {
			return fmt.Errorf("invalid year range: --from %d is after --to %d", opts.from, opts.to)
		}
		return nil
	}
	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <player-a> <player-b>",
		Short: "Print the percentile comparison of two players",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, svc, err := bootstrap(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer svc.Stop()

			cmp, err := svc.Compare(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			console.Comparison(cmd.OutOrStdout(), cmp)
			return nil
		},
	}
}
