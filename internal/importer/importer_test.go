package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, writeRows(f, sheet, rows))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadQuestions(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Label", "Description", "Answer"},
		{"Question 1", "2 + 2", "4"},
		{"", "", ""},
		{"Question 2", "Largest planet", " Jupiter "},
		{"Question 3", "No answer here"},
		{"", "orphan description", "x"},
	})

	questions, rowErrors, err := ReadQuestions(buf)
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, "Question 1", questions[0].Label)
	assert.Equal(t, "2 + 2", questions[0].Description)
	assert.Equal(t, "Jupiter", questions[1].Answer)

	require.Len(t, rowErrors, 2)
	assert.Equal(t, 5, rowErrors[0].Row)
	assert.Equal(t, "missing answer", rowErrors[0].Reason)
	assert.Equal(t, "missing label", rowErrors[1].Reason)
}

func TestReadQuestions_NotAWorkbook(t *testing.T) {
	_, _, err := ReadQuestions(bytes.NewBufferString("label,answer\nQuestion 1,4\n"))
	assert.Error(t, err)
}

func TestWriteLeaderboard(t *testing.T) {
	finished := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	f, err := WriteLeaderboard(
		[]LeaderboardRow{{Rank: 1, TeamName: "Autobots", Completed: 15, SolvedAt: finished, Members: []string{"E1", "E2"}}},
		[]ProgressRow{{TeamName: "Dinobots", Completed: 14, Remaining: 1, Percentage: 93, LastSolved: "Question 14"}},
	)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(leaderboardSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "Autobots", "15", "2025-03-01T12:30:00Z", "E1, E2"}, rows[1])

	rows, err = f.GetRows(progressSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "93", rows[1][3])
}
