// Render the summary table into the two-sheet workbook: everything on
// one sheet for transparency, the significant windows sorted by
// primary-cluster score on the other.

package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yumyai/davidscan/pkg/model"
)

// WriteWorkbook writes the xlsx summary for a finished run.
func WriteWorkbook(table *model.SummaryTable, pvalThreshold float64, maxClusters int, path string) error {

	f := excelize.NewFile()
	defer f.Close()

	allSheet := "All Results"
	filteredSheet := fmt.Sprintf("Filtered (P<%g)", pvalThreshold)

	if _, err := f.NewSheet(allSheet); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	if _, err := f.NewSheet(filteredSheet); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}

	if err := writeAllResults(f, allSheet, table.Rows(), maxClusters); err != nil {
		return err
	}
	if err := writeFiltered(f, filteredSheet, table.Filtered(), maxClusters); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}

	return nil
}

// writeAllResults lays columns out per window slot: Enrich, Pval,
// Terms, Size for each cluster in turn.
func writeAllResults(f *excelize.File, sheet string, rows []model.WindowSummary, maxClusters int) error {

	header := []interface{}{"Window"}
	for i := 1; i <= maxClusters; i++ {
		header = append(header,
			fmt.Sprintf("Enrich%d", i),
			fmt.Sprintf("Pval%d", i),
			fmt.Sprintf("Cluster %d Terms", i),
			fmt.Sprintf("Size%d", i))
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	for r, row := range rows {
		cells := []interface{}{row.Window}
		for _, slot := range row.Slots {
			cells = append(cells, cellValue(slot.Score), cellValue(slot.Pvalue),
				slot.Terms, cellValue(slot.Size))
		}
		if err := writeRow(f, sheet, r+2, cells); err != nil {
			return err
		}
	}

	return nil
}

// writeFiltered groups the columns by kind (all scores, all terms, all
// sizes), the layout used for eyeballing the ranked windows.
func writeFiltered(f *excelize.File, sheet string, rows []model.WindowSummary, maxClusters int) error {

	header := []interface{}{"Window"}
	for i := 1; i <= maxClusters; i++ {
		header = append(header, fmt.Sprintf("Enrich%d", i))
	}
	for i := 1; i <= maxClusters; i++ {
		header = append(header, fmt.Sprintf("Cluster %d Terms", i))
	}
	for i := 1; i <= maxClusters; i++ {
		header = append(header, fmt.Sprintf("Size%d", i))
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	for r, row := range rows {
		cells := []interface{}{row.Window}
		for _, slot := range row.Slots {
			cells = append(cells, cellValue(slot.Score))
		}
		for _, slot := range row.Slots {
			cells = append(cells, slot.Terms)
		}
		for _, slot := range row.Slots {
			cells = append(cells, cellValue(slot.Size))
		}
		if err := writeRow(f, sheet, r+2, cells); err != nil {
			return err
		}
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, v := range cells {
		if v == nil {
			continue
		}
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return err
		}
	}
	return nil
}

// cellValue unwraps nullable fields; nil stays an empty cell.
func cellValue(v interface{}) interface{} {
	switch p := v.(type) {
	case *float64:
		if p == nil {
			return nil
		}
		return *p
	case *int:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}
