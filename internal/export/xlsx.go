// Package export writes generated quizzes to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/quizgen/internal/quiz"
)

// SheetName is the worksheet holding the questions.
const SheetName = "Quiz"

var headers = []string{
	"#", "Question", "Option A", "Option B", "Option C", "Option D",
	"Correct Answer", "Explanation", "Verified", "Validation Notes", "Sources",
}

// XLSX renders questions as a workbook with one row per question. The
// objective, when set, is stored as the workbook title.
func XLSX(objective string, qs []quiz.Question) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if objective != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: objective}); err != nil {
			return nil, fmt.Errorf("failed to set workbook title: %w", err)
		}
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIndex, q := range qs {
		for colIndex, value := range questionRow(rowIndex+1, q) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 60); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "H", "H", 60); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX writes the workbook produced by XLSX to w.
func WriteXLSX(w io.Writer, objective string, qs []quiz.Question) error {
	data, err := XLSX(objective, qs)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func questionRow(n int, q quiz.Question) []any {
	verified, notes, sources := "", "", ""
	if q.Validation != nil {
		verified = q.Validation.Verdict()
		notes = q.Validation.Explanation
		sources = strings.Join(q.Validation.Sources, "\n")
	}
	return []any{
		n,
		q.Question,
		q.OptionA,
		q.OptionB,
		q.OptionC,
		q.OptionD,
		strings.ToUpper(q.CorrectAnswer),
		q.Explanation,
		verified,
		notes,
		sources,
	}
}
