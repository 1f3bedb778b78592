package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// LeaderboardRow is one finisher in the exported workbook
type LeaderboardRow struct {
	Rank      int
	TeamName  string
	Completed int
	SolvedAt  time.Time
	Members   []string
}

// ProgressRow is one unfinished team in the exported workbook
type ProgressRow struct {
	TeamName   string
	Completed  int
	Remaining  int
	Percentage int
	LastSolved string
	Members    []string
}

const (
	leaderboardSheet = "Leaderboard"
	progressSheet    = "In Progress"
)

// WriteLeaderboard builds a workbook with a finishers sheet and an
// unfinished-teams sheet. The caller must close the returned file.
func WriteLeaderboard(finishers []LeaderboardRow, unfinished []ProgressRow) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), leaderboardSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(progressSheet); err != nil {
		f.Close()
		return nil, err
	}

	rows := [][]interface{}{{"Rank", "Team", "Completed", "Finished At (UTC)", "Members"}}
	for _, r := range finishers {
		rows = append(rows, []interface{}{
			r.Rank, r.TeamName, r.Completed, r.SolvedAt.UTC().Format(time.RFC3339), strings.Join(r.Members, ", "),
		})
	}
	if err := writeRows(f, leaderboardSheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]interface{}{{"Team", "Completed", "Remaining", "Progress %", "Last Solved", "Members"}}
	for _, r := range unfinished {
		rows = append(rows, []interface{}{
			r.TeamName, r.Completed, r.Remaining, r.Percentage, r.LastSolved, strings.Join(r.Members, ", "),
		})
	}
	if err := writeRows(f, progressSheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
