package service

import (
	"testing"

	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkInvoicePaid_DefaultsMethodAndClearsUnpaidFlag(t *testing.T) {
	env := setupWorkflow(t, true)
	created, profile := env.admit(t, "Pat", "One", "")
	require.True(t, created.Account.HasUnpaidBills)
	require.NotNil(t, profile.CurrentBillID)

	bill, err := env.svc.MarkInvoicePaid(*profile.CurrentBillID, "  ", 0)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, bill.Status)
	assert.Equal(t, defaultPaymentMethod, bill.PaymentMethod)
	require.NotNil(t, bill.PaidAt)
	assert.True(t, bill.PaidAt.Equal(testClock))
	assert.Contains(t, env.topics(), events.TopicBilling)

	account, err := env.svc.GetAccountByUsername(created.Account.Username)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.False(t, account.HasUnpaidBills)

	again, err := env.svc.MarkInvoicePaid(bill.ID, "Cash", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultPaymentMethod, again.PaymentMethod, "paid bills are returned unchanged")
}

func TestMarkInvoicePaid_UnknownBill(t *testing.T) {
	env := setupWorkflow(t, true)
	_, err := env.svc.MarkInvoicePaid(404, "Cash", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetInvoice(t *testing.T) {
	env := setupWorkflow(t, true)
	_, profile := env.admit(t, "Pat", "One", "")

	bill, err := env.svc.GetInvoice(*profile.CurrentBillID)
	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Equal(t, "B-00001", bill.BillNumber)

	missing, err := env.svc.GetInvoice(404)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	bills, err := env.svc.ListInvoices(profile.PatientID)
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestGetInvoiceStatement(t *testing.T) {
	env := setupWorkflow(t, true)
	_, profile := env.admit(t, "Pat", "One", "101")
	_, err := env.svc.AddInsurance(profile.PatientID, InsuranceInput{Provider: "Acme", PolicyNumber: "POL-1"}, 0)
	require.NoError(t, err)

	result, err := env.svc.DischargePatient(profile.PatientID, true, 0)
	require.NoError(t, err)
	require.NotNil(t, result.Invoice)

	statement, err := env.svc.GetInvoiceStatement(result.Invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, statement)
	assert.Equal(t, profile.PatientNumber, statement.PatientNumber)
	assert.Equal(t, "Pat One", statement.PatientName)
	assert.Equal(t, "Room 101 - Ward", statement.RoomAssignment)
	assert.Equal(t, "Acme (POL-1)", statement.Insurance)
	assert.True(t, result.Invoice.Amount.Equal(statement.Balance()))

	_, err = env.svc.MarkInvoicePaid(result.Invoice.ID, "Card", 0)
	require.NoError(t, err)
	statement, err = env.svc.GetInvoiceStatement(result.Invoice.ID)
	require.NoError(t, err)
	assert.True(t, statement.Balance().IsZero())

	none, err := env.svc.GetInvoiceStatement(404)
	assert.NoError(t, err)
	assert.Nil(t, none)
}
