package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/scai-digital/cascade/internal/types"
)

// writeXLSX emits a workbook with a single sheet named after the table's
// filename prefix: header row first, then one row per record.
func writeXLSX(w io.Writer, sheet string, rows []types.GoalRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(types.ExportColumns))
	for _, h := range headers() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, 0, len(types.ExportColumns))
		for _, cell := range row.Cells() {
			cells = append(cells, cell)
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("anchor row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheet, anchor, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
