package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/quizgen/internal/quiz"
)

func TestXLSX(t *testing.T) {
	q1, err := quiz.NewQuestion("What is H2O?", "Salt", "Water", "Air", "Gold", "b", "H2O is water.")
	require.NoError(t, err)
	q2, err := quiz.NewQuestion("2+2?", "3", "4", "5", "6", "b", "Arithmetic.")
	require.NoError(t, err)

	yes := true
	validated := q2.WithValidation(quiz.NewValidationResult(&yes, "Confirmed.", []string{
		"https://example.com/a", "https://example.com/b",
	}))

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Basic chemistry", []quiz.Question{*q1, validated}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "What is H2O?", rows[1][1])
	assert.Equal(t, "B", rows[1][6])
	assert.Equal(t, "true", rows[2][8])
	assert.Equal(t, "Confirmed.", rows[2][9])
	assert.Equal(t, "https://example.com/a\nhttps://example.com/b", rows[2][10])

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Basic chemistry", props.Title)
}

func TestXLSXEmpty(t *testing.T) {
	data, err := XLSX("", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
