package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scai-digital/cascade/internal/config"
	"github.com/scai-digital/cascade/internal/store"
	"github.com/scai-digital/cascade/internal/types"
)

var (
	rowsTable      string
	rowsJSONOutput bool
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "List the rows of a table without running the server",
	Args:  cobra.NoArgs,
	RunE:  runRows,
}

func init() {
	rowsCmd.Flags().StringVar(&rowsTable, "table", "goals", "Table to inspect (goals or kpi)")
	rowsCmd.Flags().BoolVar(&rowsJSONOutput, "json", false, "Output in JSON format")
}

// openStore opens the SQLite store from configuration without requiring the
// server-side settings (API keys) to be present.
func openStore() (*store.SQLiteStore, error) {
	cfg, err := config.LoadForTooling()
	if err != nil {
		return nil, err
	}
	return store.NewSQLiteStore(cfg.Database.Path)
}

func resolveSpec(raw string) (types.TableSpec, error) {
	spec, ok := types.Spec(types.TableID(raw))
	if !ok {
		return types.TableSpec{}, fmt.Errorf("unknown table %q", raw)
	}
	return spec, nil
}

func runRows(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spec, err := resolveSpec(rowsTable)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	state, err := db.LoadTable(ctx, spec.ID)
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}

	if rowsJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"table": spec.ID,
			"rows":  state.Rows,
			"total": len(state.Rows),
		})
	}

	if len(state.Rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No rows.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tФИО\tЦЕЛЬ\tГОД")
	for i, row := range state.Rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			i+1,
			orDash(row.LastName),
			orDash(truncate(row.Goal, 60)),
			orDash(row.Year),
		)
	}
	w.Flush()

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
