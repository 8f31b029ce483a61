// stockanalyzer - stock lookup dashboard with AI-generated price summaries
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	configPath string
	period     string
	interval   string
	rows       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stockanalyzer",
		Short: "Stock lookup dashboard with AI price summaries",
		Long: `stockanalyzer resolves company names to ticker symbols, charts their
recent price history and asks a language model for a plain-English summary.
Without a subcommand it serves the web dashboard.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "Path to YAML config file")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(priceCmd())
	rootCmd.AddCommand(moversCmd())
	rootCmd.AddCommand(analyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stockanalyzer version %s\n", version)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard, scheduled jobs and Telegram bot",
		RunE:  runServe,
	}
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&period, "period", "p", "", "History window (1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max); default 6mo")
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "Bar interval (1d 1wk 1mo ...); default 1d")
}
