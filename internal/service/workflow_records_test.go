package service

import (
	"testing"
	"time"

	"hospital-workflow-backend/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMedicalRecord(t *testing.T) {
	env := setupWorkflow(t, true)
	_, profile := env.admit(t, "Pat", "One", "")

	_, err := env.svc.AddMedicalRecord(MedicalRecordRequest{PatientID: profile.PatientID, DoctorID: 1, Diagnosis: "   "}, 0)
	assert.ErrorIs(t, err, ErrValidation)

	record, err := env.svc.AddMedicalRecord(MedicalRecordRequest{
		PatientID:    profile.PatientID,
		DoctorID:     1,
		Diagnosis:    " Influenza ",
		Prescription: "Rest",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Influenza", record.Diagnosis)
	assert.True(t, record.RecordedAt.Equal(testClock))
	assert.Contains(t, env.topics(), events.TopicMedicalRecords)

	_, err = env.svc.AddMedicalRecord(MedicalRecordRequest{PatientID: 999, DoctorID: 1, Diagnosis: "Flu"}, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddMedicalRecord_AppointmentOfAnotherPatient(t *testing.T) {
	env := setupWorkflow(t, true)
	_, first := env.admit(t, "Pat", "One", "")
	_, second := env.admit(t, "Pat", "Two", "")

	appointment, err := env.svc.ScheduleAppointment(ScheduleAppointmentRequest{
		PatientID: first.PatientID, DoctorID: 1, ScheduledFor: testClock,
	}, 0)
	require.NoError(t, err)

	_, err = env.svc.AddMedicalRecord(MedicalRecordRequest{
		PatientID:     second.PatientID,
		DoctorID:      1,
		AppointmentID: &appointment.ID,
		Diagnosis:     "Flu",
	}, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetMedicalHistory(t *testing.T) {
	env := setupWorkflow(t, true)
	_, profile := env.admit(t, "Pat", "One", "")

	_, err := env.svc.AddMedicalRecord(MedicalRecordRequest{PatientID: profile.PatientID, DoctorID: 1, Diagnosis: "Older"}, 0)
	require.NoError(t, err)
	env.svc.now = func() time.Time { return testClock.Add(time.Hour) }
	_, err = env.svc.AddMedicalRecord(MedicalRecordRequest{PatientID: profile.PatientID, DoctorID: 1, Diagnosis: "Newer"}, 0)
	require.NoError(t, err)

	history, err := env.svc.GetMedicalHistory(profile.PatientID)
	require.NoError(t, err)
	require.NotNil(t, history)
	assert.Equal(t, "Pat One", history.PatientName)
	require.Len(t, history.Entries, 2)
	assert.Equal(t, "Newer", history.Entries[0].Record.Diagnosis)
	assert.NotEmpty(t, history.Entries[0].DoctorName)

	missing, err := env.svc.GetMedicalHistory(404)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
