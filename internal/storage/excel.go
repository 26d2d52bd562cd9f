package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

const estimatesSheet = "Estimates"

var estimateHeaders = []string{
	"ID", "Chat ID", "Catalog", "Product", "Kind",
	"Net Area (m²)", "Target Area (m²)", "Reserve (%)",
	"Packs", "Pack Size", "Surfaces", "Openings",
	"Total Cost (₽)", "Created At", "Priced At",
}

// ExportEstimatesToExcel writes every estimate to dir and returns the file path.
func (s *PostgresStorage) ExportEstimatesToExcel(ctx context.Context, dir string, now time.Time) (string, error) {
	const operation = "storage.ExportEstimatesToExcel"

	estimates, err := s.ListEstimates(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("estimates_%s.xlsx", now.Format("20060102_150405")))
	if err := WriteEstimatesWorkbook(estimates, path); err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}
	return path, nil
}

// WriteEstimatesWorkbook renders estimates as a single-sheet workbook at path.
func WriteEstimatesWorkbook(estimates []Estimate, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(estimatesSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range estimateHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(estimatesSheet, cell, header)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(estimateHeaders), 1)
		f.SetCellStyle(estimatesSheet, "A1", last, style)
	}

	for row, e := range estimates {
		var cost any
		if e.TotalCost != nil {
			cost = *e.TotalCost
		}
		var pricedAt string
		if e.PricedAt != nil {
			pricedAt = e.PricedAt.Format("2006-01-02 15:04")
		}

		data := []any{
			e.ID,
			e.ChatID,
			e.CatalogRevision,
			e.Title,
			e.Kind,
			e.NetArea,
			e.TargetArea,
			e.Reserve * 100,
			e.PackCount,
			e.PackLabel,
			e.Surfaces,
			e.Openings,
			cost,
			e.CreatedAt.Format("2006-01-02 15:04"),
			pricedAt,
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(estimatesSheet, cell, value)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
