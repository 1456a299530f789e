// Command dbcore is a one-shot runner for the query engine: it parses
// and executes a single statement of the accepted dialect against a
// sqlitekv-backed database directory and prints the result, then
// exits. It is not an interactive, session-holding REPL.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SamsonMokaya/pesapal-challenge/config"
	"github.com/SamsonMokaya/pesapal-challenge/engine"
	"github.com/SamsonMokaya/pesapal-challenge/enginelog"
	"github.com/SamsonMokaya/pesapal-challenge/storage/sqlitekv"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dbcore:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "dbcore",
		Short: "Run a single statement against a dbcore database",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "dbcore.toml", "path to a dbcore TOML config file")

	root.AddCommand(execCmd(&configPath))
	return root
}

func execCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <statement>",
		Short: "Parse and execute one statement, printing its result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(*configPath, args[0])
		},
	}
}

func runExec(configPath, statement string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %q: %w", cfg.Storage.DataDir, err)
	}

	store, err := sqlitekv.Open(filepath.Join(cfg.Storage.DataDir, "dbcore.sqlite"))
	if err != nil {
		return err
	}
	defer store.Close()

	eng := engine.New(store, cfg, enginelog.NewDefault())

	result, err := eng.Execute(context.Background(), statement)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if result.Rows != nil {
		return enc.Encode(result.Rows)
	}
	return enc.Encode(map[string]int{"affected": result.Affected})
}
