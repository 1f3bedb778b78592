package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/xuri/excelize/v2"
)

// Question sheet columns
const (
	colLabel = iota
	colDescription
	colAnswer
)

// RowError describes a sheet row that could not be turned into a question.
type RowError struct {
	Sheet  string
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Sheet, e.Row, e.Reason)
}

// ReadQuestions reads every sheet of an .xlsx workbook. The first row of a
// sheet is a header; each other row is label, description, answer. Rows
// that are empty are ignored and malformed rows are returned as RowErrors.
func ReadQuestions(r io.Reader) ([]models.Question, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var (
		questions []models.Question
		rowErrors []RowError
	)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		for i, row := range rows {
			if i == 0 || isBlankRow(row) {
				continue
			}

			label := cell(row, colLabel)
			answer := cell(row, colAnswer)
			switch {
			case label == "":
				rowErrors = append(rowErrors, RowError{Sheet: sheet, Row: i + 1, Reason: "missing label"})
				continue
			case answer == "":
				rowErrors = append(rowErrors, RowError{Sheet: sheet, Row: i + 1, Reason: "missing answer"})
				continue
			}

			questions = append(questions, models.Question{
				Label:       label,
				Description: cell(row, colDescription),
				Answer:      answer,
			})
		}
	}

	return questions, rowErrors, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
