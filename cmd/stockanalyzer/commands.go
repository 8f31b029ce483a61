package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const commandTimeout = 2 * time.Minute

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find ticker symbols for a company name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			query := strings.Join(args, " ")
			candidates, err := a.analyzer.Search(ctx, query)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCandidates(query, candidates))
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <ticker>",
		Short: "Show recent price bars and summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			view, err := a.analyzer.History(ctx, args[0], period, interval)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderHistory(view, rows))
			return nil
		},
	}
	addWindowFlags(cmd)
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "Number of most recent bars to print")
	return cmd
}

func priceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <ticker>",
		Short: "Show the latest close",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			quote, err := a.analyzer.Price(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPrice(quote))
			return nil
		},
	}
}

func moversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "movers",
		Short: "Show today's top gainers and losers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			gainers, losers, err := a.analyzer.Movers(ctx)
			if err != nil {
				a.logger.Warn("movers unavailable", zap.Error(err))
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("⚠️  Could not load market movers."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderMovers(gainers, losers))
			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <ticker>",
		Short: "Generate an AI summary of recent prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(true, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			ticker := args[0]
			quote, err := a.analyzer.Price(ctx, ticker)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPrice(quote))

			report, err := a.analyzer.Insight(ctx, ticker, period, interval)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderReport(report))
			return nil
		},
	}
	addWindowFlags(cmd)
	return cmd
}
