package service

import (
	"testing"

	"hospital-workflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnRecordID_FollowsLoginOnly(t *testing.T) {
	env := setupWorkflow(t, true)
	// one staff login first so a patient's user id collides with the next patient's id
	_, err := env.svc.CreateStaffAccount(StaffAccountRequest{Person: person("Sam", "Staff")}, 0)
	require.NoError(t, err)
	first, firstProfile := env.admit(t, "Pat", "One", "")
	_, secondProfile := env.admit(t, "Pat", "Two", "")
	require.Equal(t, secondProfile.PatientID, first.Account.UserID)

	own, found, err := env.svc.OwnRecordID(first.Account.UserID, models.RolePatient)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, firstProfile.PatientID, own)

	// path ids resolve role id first, as the workflow operations do
	resolved, found, err := env.svc.ResolveRecordID(models.RolePatient, first.Account.UserID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, secondProfile.PatientID, resolved)

	_, found, err = env.svc.OwnRecordID(first.Account.UserID, models.RoleDoctor)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = env.svc.OwnRecordID(9999, models.RolePatient)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAppointmentParties(t *testing.T) {
	env := setupWorkflow(t, true)
	appointment := scheduled(t, env)

	patientID, doctorID, found, err := env.svc.AppointmentParties(appointment.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, appointment.PatientID, patientID)
	assert.Equal(t, uint(1), doctorID)

	_, _, found, err = env.svc.AppointmentParties(9999)
	require.NoError(t, err)
	assert.False(t, found)
}
