package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scai-digital/cascade/internal/config"
	"github.com/scai-digital/cascade/internal/export"
	"github.com/scai-digital/cascade/internal/store"
)

var (
	exportTable  string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a table to a file without running the server",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTable, "table", "goals", "Table to export (goals or kpi)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, xlsx, pdf, docx, html)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path (default: <prefix>.<format>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spec, err := resolveSpec(exportTable)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	cfg, err := config.LoadForTooling()
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	state, err := db.LoadTable(ctx, spec.ID)
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}

	outPath := exportOut
	if outPath == "" {
		outPath = export.Filename(spec.ExportPrefix, format)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}

	exporter := export.New(cfg.Export.FontSources)
	if err := exporter.Export(ctx, f, spec.ExportPrefix, state.Rows, format); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(state.Rows), outPath)
	return nil
}
