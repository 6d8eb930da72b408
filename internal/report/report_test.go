package report

import (
	"bytes"
	"testing"
	"time"

	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, name string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestInvoiceStatement(t *testing.T) {
	statement := service.InvoiceStatement{
		Bill: models.Bill{
			BillNumber:     "B-00007",
			Description:    "Discharge",
			DaysOfStay:     4,
			RoomCharge:     decimal.NewFromInt(2200),
			DoctorCharge:   decimal.NewFromInt(500),
			MedicineCharge: decimal.NewFromInt(300),
			OtherCharges:   decimal.NewFromInt(100),
			Amount:         decimal.NewFromInt(3100),
			Status:         models.BillStatusUnpaid,
			CreatedAt:      time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
		},
		PatientNumber:  "P-00001",
		PatientName:    "Pat One",
		RoomAssignment: "Room 301 - ICU",
		Insurance:      "Acme (POL-1)",
	}

	data, err := InvoiceStatement(statement)
	require.NoError(t, err)
	f := open(t, data)

	assert.Equal(t, []string{InvoiceSheet}, f.GetSheetList())
	assert.Equal(t, "Invoice Number", cell(t, f, InvoiceSheet, "A1"))
	assert.Equal(t, "B-00007", cell(t, f, InvoiceSheet, "B1"))
	assert.Equal(t, "Pat One", cell(t, f, InvoiceSheet, "B4"))
	assert.Equal(t, "Room 301 - ICU", cell(t, f, InvoiceSheet, "B5"))
	assert.Equal(t, "4", cell(t, f, InvoiceSheet, "B8"))
	assert.Equal(t, "2200", cell(t, f, InvoiceSheet, "B9"))
	assert.Equal(t, "3100", cell(t, f, InvoiceSheet, "B13"))
	assert.Equal(t, "Unpaid", cell(t, f, InvoiceSheet, "B14"))
	assert.Equal(t, "3100", cell(t, f, InvoiceSheet, "B17"))
	assert.Equal(t, "invoice-B-00007.xlsx", InvoiceFilename(statement))
}

func TestMedicalHistory(t *testing.T) {
	appointmentID := uint(3)
	history := service.MedicalHistory{
		PatientNumber: "P-00002",
		PatientName:   "Pat Two",
		Entries: []service.MedicalHistoryEntry{
			{
				Record: models.MedicalRecord{
					Diagnosis:     "Influenza",
					Prescription:  "Rest",
					AppointmentID: &appointmentID,
					RecordedAt:    time.Date(2024, 3, 11, 10, 30, 0, 0, time.UTC),
				},
				DoctorName: "Gregory House",
			},
			{Record: models.MedicalRecord{Diagnosis: "Sprain", RecordedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)}},
		},
	}

	data, err := MedicalHistory(history)
	require.NoError(t, err)
	f := open(t, data)

	rows, err := f.GetRows(HistorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, MedicalHistoryHeader, rows[0])
	assert.Equal(t, "2024-03-11 10:30", rows[1][0])
	assert.Equal(t, "Gregory House", rows[1][1])
	assert.Equal(t, "3", rows[1][5])
	assert.Equal(t, "Sprain", rows[2][2])
	assert.Equal(t, "medical-history-P-00002.xlsx", MedicalHistoryFilename(history))
}

func TestMedicalHistory_Empty(t *testing.T) {
	data, err := MedicalHistory(service.MedicalHistory{PatientNumber: "P-00003"})
	require.NoError(t, err)
	rows, err := open(t, data).GetRows(HistorySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
