package services

import (
	"bytes"
	"fmt"
	"time"

	"contesthub/models"

	"github.com/xuri/excelize/v2"
)

// SubmissionsSheet is the worksheet holding exported submissions
const SubmissionsSheet = "Sheet1"

var submissionHeaders = []string{"Participant", "Email", "Submitted task", "Submitted at", "Winner"}

// SubmissionsWorkbook renders a contest's submissions as an xlsx workbook
func SubmissionsWorkbook(contest *models.Contest, submissions []models.Participant) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{Title: contest.Name + " submissions"}); err != nil {
		return nil, err
	}

	for col, header := range submissionHeaders {
		if err := setCell(f, col+1, 1, header); err != nil {
			return nil, err
		}
	}
	for i, p := range submissions {
		row := i + 2
		submittedAt := ""
		if p.SubmittedAt != nil {
			submittedAt = p.SubmittedAt.UTC().Format(time.RFC3339)
		}
		winner := "no"
		if p.IsWinner {
			winner = "yes"
		}
		values := []string{p.UserName, p.UserEmail, deref(p.SubmittedTask), submittedAt, winner}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SubmissionsSheet, cell, value)
}
