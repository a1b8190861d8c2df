package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
	"github.com/xuri/excelize/v2"
)

const balanceSheet = "الأرصدة"

var balanceHeaders = []any{"الطالب", "النوع", "المرحلة", "الفصل", "الرصيد"}

// ReportService builds downloadable reports.
type ReportService struct {
	store repository.Queries
}

// NewReportService creates a new ReportService.
func NewReportService(store repository.Queries) *ReportService {
	return &ReportService{store: store}
}

// Balances returns the recomputed balance of every active student,
// optionally limited to one class.
func (s *ReportService) Balances(ctx context.Context, classID *uuid.UUID) ([]model.BalanceRow, error) {
	if classID != nil {
		if _, err := s.store.GetClass(ctx, *classID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrClassNotFound
			}
			return nil, err
		}
	}
	return s.store.ListBalances(ctx, classID)
}

// WriteBalancesXLSX renders rows as a right-to-left Excel workbook.
func (s *ReportService) WriteBalancesXLSX(w io.Writer, rows []model.BalanceRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", balanceSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rtl := true
	if err := f.SetSheetView(balanceSheet, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("set sheet view: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(balanceSheet, "A1", &balanceHeaders); err != nil {
		return err
	}
	if err := f.SetRowStyle(balanceSheet, 1, 1, header); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.StudentName, genderLabel(r.Gender), r.GradeName, r.ClassName, r.Balance}
		if err := f.SetSheetRow(balanceSheet, cell, &values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(balanceSheet, "A", "A", 32)
	_ = f.SetColWidth(balanceSheet, "B", "D", 16)
	_ = f.SetColWidth(balanceSheet, "E", "E", 10)
	if err := f.SetPanes(balanceSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(balanceHeaders), len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(balanceSheet, "A1:"+last, nil); err != nil {
		return err
	}

	return f.Write(w)
}

func genderLabel(g model.Gender) string {
	if g == model.GenderFemale {
		return "بنت"
	}
	return "ولد"
}
