// Package report renders invoice statements and medical histories as XLSX workbooks.
package report

import (
	"bytes"
	"fmt"
	"time"

	"hospital-workflow-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	InvoiceSheet = "Invoice"
	HistorySheet = "Medical History"

	dateLayout = "2006-01-02 15:04"
	// built-in number format "#,##0.00"
	moneyNumFmt = 4
)

// MedicalHistoryHeader is the first row of the history sheet
var MedicalHistoryHeader = []string{
	"Recorded At",
	"Doctor",
	"Diagnosis",
	"Treatment",
	"Prescription",
	"Appointment",
}

// InvoiceFilename names the download of one statement
func InvoiceFilename(s service.InvoiceStatement) string {
	return fmt.Sprintf("invoice-%s.xlsx", s.Bill.BillNumber)
}

// MedicalHistoryFilename names the download of one patient's history
func MedicalHistoryFilename(h service.MedicalHistory) string {
	return fmt.Sprintf("medical-history-%s.xlsx", h.PatientNumber)
}

// InvoiceStatement writes the bill as a two-column label/value sheet
func InvoiceStatement(s service.InvoiceStatement) ([]byte, error) {
	f, err := newWorkbook(InvoiceSheet)
	if err != nil {
		return nil, err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create label style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	bill := s.Bill
	paidAt := ""
	if bill.PaidAt != nil {
		paidAt = bill.PaidAt.Format(dateLayout)
	}
	rows := []struct {
		label string
		value any
		money bool
	}{
		{"Invoice Number", bill.BillNumber, false},
		{"Issued", bill.CreatedAt.Format(dateLayout), false},
		{"Patient Number", s.PatientNumber, false},
		{"Patient Name", s.PatientName, false},
		{"Room", s.RoomAssignment, false},
		{"Insurance", s.Insurance, false},
		{"Description", bill.Description, false},
		{"Days of Stay", bill.DaysOfStay, false},
		{"Room Charge", money(bill.RoomCharge), true},
		{"Doctor Charge", money(bill.DoctorCharge), true},
		{"Medicine Charge", money(bill.MedicineCharge), true},
		{"Other Charges", money(bill.OtherCharges), true},
		{"Total", money(bill.Amount), true},
		{"Status", string(bill.Status), false},
		{"Payment Method", bill.PaymentMethod, false},
		{"Paid At", paidAt, false},
		{"Balance Due", money(s.Balance()), true},
	}

	for i, r := range rows {
		row := i + 1
		if err := setCell(f, InvoiceSheet, 1, row, r.label); err != nil {
			f.Close()
			return nil, err
		}
		if err := setCell(f, InvoiceSheet, 2, row, r.value); err != nil {
			f.Close()
			return nil, err
		}
		if err := styleCell(f, InvoiceSheet, 1, row, labelStyle); err != nil {
			f.Close()
			return nil, err
		}
		if r.money {
			if err := styleCell(f, InvoiceSheet, 2, row, moneyStyle); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	if err := setWidths(f, InvoiceSheet, []float64{20, 40}); err != nil {
		f.Close()
		return nil, err
	}
	return write(f)
}

// MedicalHistory writes one row per record under a frozen header
func MedicalHistory(h service.MedicalHistory) ([]byte, error) {
	f, err := newWorkbook(HistorySheet)
	if err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range MedicalHistoryHeader {
		if err := setCell(f, HistorySheet, col+1, 1, header); err != nil {
			f.Close()
			return nil, err
		}
		if err := styleCell(f, HistorySheet, col+1, 1, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, entry := range h.Entries {
		row := i + 2
		record := entry.Record
		appointment := ""
		if record.AppointmentID != nil {
			appointment = fmt.Sprintf("%d", *record.AppointmentID)
		}
		values := []any{
			record.RecordedAt.Format(dateLayout),
			entry.DoctorName,
			record.Diagnosis,
			record.Treatment,
			record.Prescription,
			appointment,
		}
		for col, v := range values {
			if v == "" {
				continue
			}
			if err := setCell(f, HistorySheet, col+1, row, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write record row %d: %w", row, err)
			}
		}
	}

	if err := setWidths(f, HistorySheet, []float64{18, 24, 36, 36, 30, 12}); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetPanes(HistorySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Medical history %s %s", h.PatientNumber, h.PatientName),
		Created: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}
	return write(f)
}

// newWorkbook creates a file whose only sheet is name
func newWorkbook(name string) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(name)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	return f, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("failed to style cell %s: %w", cell, err)
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

// write serializes and closes f; the file must stay open until WriteTo returns
func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
