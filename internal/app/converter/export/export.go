package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"whisper-offline/internal/app/model"
)

const sheetName = "Runs"

var header = []string{
	"ID", "Run ID", "Finished At", "Stage", "Failed Stage", "Duration (s)",
	"Input", "Model", "Transcriber", "Status", "Output", "Transcript",
}

// ToExcel writes runs to a single-sheet workbook at outputFilePath.
func ToExcel(runs []model.RunRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}

	for _, r := range runs {
		row := sheet.AddRow()
		row.AddCell().SetInt64(r.ID)
		row.AddCell().Value = r.RunID
		row.AddCell().Value = r.FinishedAt.Format(time.RFC3339)
		row.AddCell().Value = string(r.Stage)
		row.AddCell().Value = string(r.FailedStage)
		row.AddCell().Value = fmt.Sprintf("%.2f", r.FinishedAt.Sub(r.StartedAt).Seconds())
		row.AddCell().Value = r.InputPath
		row.AddCell().Value = r.ModelPath
		row.AddCell().Value = r.TranscriberPath
		row.AddCell().Value = r.Status
		row.AddCell().Value = r.OutputPath
		row.AddCell().Value = r.Transcript
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
