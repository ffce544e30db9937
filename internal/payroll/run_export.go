package payroll

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// registerColumns is the export contract: column order and presence, one
// row per employee.
var registerColumns = []string{
	"Employee",
	"Department",
	"Title",
	"Annual CTC",
	"Gross Earnings",
	"Total Deductions",
	"LOP Days",
	"LOP Amount",
	"Working Days",
	"Paid Days",
	"Net Pay",
}

type registerRow struct {
	employeeName string
	department   string
	title        string
	annualCTC    int64
	gross        int64
	deductions   int64
	lopDays      int
	lopAmount    int64
	workingDays  int
	paidDays     int
	netPay       int64
}

func (s *service) ExportRunCSV(ctx context.Context, orgID, runID string) ([]byte, error) {
	rows, err := s.buildRegisterRows(ctx, orgID, runID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(registerColumns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.employeeName,
			row.department,
			row.title,
			formatAmount(row.annualCTC),
			formatAmount(row.gross),
			formatAmount(row.deductions),
			strconv.Itoa(row.lopDays),
			formatAmount(row.lopAmount),
			strconv.Itoa(row.workingDays),
			strconv.Itoa(row.paidDays),
			formatAmount(row.netPay),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *service) ExportRunXLSX(ctx context.Context, orgID, runID string) ([]byte, error) {
	rows, err := s.buildRegisterRows(ctx, orgID, runID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Register"
	f.SetSheetName("Sheet1", sheet)

	for col, name := range registerColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}
	for i, row := range rows {
		values := []any{
			row.employeeName,
			row.department,
			row.title,
			minorToMajor(row.annualCTC),
			minorToMajor(row.gross),
			minorToMajor(row.deductions),
			row.lopDays,
			minorToMajor(row.lopAmount),
			row.workingDays,
			row.paidDays,
			minorToMajor(row.netPay),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *service) buildRegisterRows(ctx context.Context, orgID, runID string) ([]registerRow, error) {
	if _, err := s.repo.FindRunByIDAndOrg(ctx, orgID, runID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrRunNotFound
		}
		return nil, err
	}
	entries, err := s.repo.FindActiveEntriesByRun(ctx, orgID, runID)
	if err != nil {
		return nil, err
	}

	employeeIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		employeeIDs = append(employeeIDs, entry.EmployeeID.String())
	}
	directory, err := s.employees.FindByIDs(ctx, orgID, employeeIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]registerRow, 0, len(entries))
	for _, entry := range entries {
		row := registerRow{
			employeeName: entry.EmployeeID.String(),
			annualCTC:    entry.AnnualCTC,
			gross:        entry.GrossEarnings,
			deductions:   entry.TotalDeductions,
			lopDays:      entry.LwpDays,
			lopAmount:    entry.AbsenceDeduction,
			workingDays:  entry.WorkingDays,
			paidDays:     entry.PaidDays,
			netPay:       entry.NetPay,
		}
		if emp, ok := directory[entry.EmployeeID.String()]; ok {
			row.employeeName = emp.FullName
			row.department = emp.Department
			row.title = emp.Title
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func minorToMajor(minor int64) float64 {
	return float64(minor) / 100
}
