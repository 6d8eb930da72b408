package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-workflow-backend/internal/config"
	"hospital-workflow-backend/internal/database"
	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/metrics"
	"hospital-workflow-backend/internal/report"
	"hospital-workflow-backend/internal/repository"
	"hospital-workflow-backend/internal/service"
	"hospital-workflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func setupAPI(t *testing.T, seed bool) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetBcryptCost(bcrypt.MinCost)
	utils.InitJWT("handler-access", "handler-refresh", time.Minute, time.Hour)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: fmt.Sprintf("file:handler_%d?mode=memory&cache=shared", time.Now().UnixNano()),
		},
		Server: config.ServerConfig{GinMode: "release"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Log:    config.LogConfig{Service: "hospital-workflow-backend"},
		Billing: config.BillingConfig{
			ICUDailyRate:     decimal.NewFromInt(550),
			PrivateDailyRate: decimal.NewFromInt(400),
			DefaultDailyRate: decimal.NewFromInt(250),
			DoctorFee:        decimal.NewFromInt(500),
			MedicineFee:      decimal.NewFromInt(300),
			OtherCharges:     decimal.NewFromInt(100),
			ConsultationFee:  decimal.NewFromInt(150),
		},
	}
	db, err := database.Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	if seed {
		require.NoError(t, database.SeedReferenceData(db, zap.NewNop()))
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := repository.NewStore(db)
	reg := prometheus.NewRegistry()
	workflow := service.NewWorkflowService(store, cfg.Billing, events.NewBus(nil), metrics.NewWorkflowMetrics(reg), zap.NewNop())
	router := NewRouter(RouterDeps{
		Config:   cfg,
		Workflow: workflow,
		Rooms:    service.NewRoomService(store.Rooms, store.Departments, store.Audit),
		Auth:     service.NewAuthService(store.Users, store.Audit),
		Gatherer: reg,
	})
	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// loginAdmin provisions the first admin and keeps its access token
func (a *testAPI) loginAdmin() {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/setup/admin", gin.H{
		"person":   gin.H{"given_name": "Ada", "last_name": "Admin"},
		"username": "admin",
		"password": "initial-pass",
	})
	require.Equal(a.t, http.StatusCreated, w.Code)

	a.token = a.login("admin", "initial-pass")
}

// login returns an access token for the given credentials
func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	w, resp := a.do(http.MethodPost, "/auth/login", gin.H{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, resp.Error)
	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(resp.Data, &data))
	return data.AccessToken
}

// createdAccount is the part of a generated account the tests log in with
type createdAccount struct {
	Account struct {
		Username string `json:"username"`
		Profile  struct {
			DoctorID  uint `json:"doctor_id"`
			NurseID   uint `json:"nurse_id"`
			PatientID uint `json:"patient_id"`
		} `json:"profile"`
	} `json:"account"`
	TemporaryPassword string `json:"temporary_password"`
}

// create posts an account request and logs the new account in
func (a *testAPI) create(path, given, last string) (createdAccount, string) {
	a.t.Helper()
	w, resp := a.do(http.MethodPost, path, gin.H{"person": gin.H{"given_name": given, "last_name": last}})
	require.Equal(a.t, http.StatusCreated, w.Code, resp.Error)
	var created createdAccount
	require.NoError(a.t, json.Unmarshal(resp.Data, &created))
	return created, a.login(created.Account.Username, created.TemporaryPassword)
}

// as runs fn with token as the caller and restores the previous caller afterwards
func (a *testAPI) as(token string, fn func()) {
	previous := a.token
	a.token = token
	defer func() { a.token = previous }()
	fn()
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", service.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrInvalidTransition, http.StatusConflict},
		{service.ErrNotConfigured, http.StatusUnprocessableEntity},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	api := setupAPI(t, false)

	w, resp := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	w, _ = api.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := setupAPI(t, true)
	w, _ := api.do(http.MethodGet, "/api/rooms", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProvisionAdminOnlyOnce(t *testing.T) {
	api := setupAPI(t, true)
	api.loginAdmin()

	w, resp := api.do(http.MethodPost, "/setup/admin", gin.H{
		"person":   gin.H{"given_name": "Eve", "last_name": "Second"},
		"username": "eve",
		"password": "another-pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)
}

func TestAdmitWithoutRoomsIsNotConfigured(t *testing.T) {
	api := setupAPI(t, false)
	api.loginAdmin()

	w, _ := api.do(http.MethodPost, "/api/admissions", gin.H{
		"person": gin.H{"given_name": "Pat", "last_name": "One"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdmissionDischargeAndInvoiceExport(t *testing.T) {
	api := setupAPI(t, true)
	api.loginAdmin()

	w, resp := api.do(http.MethodPost, "/api/admissions", gin.H{
		"person": gin.H{"given_name": "Pat", "last_name": "One"},
		"room":   "Room 301 - ICU",
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)
	var raw struct {
		Account struct {
			Username string `json:"username"`
			Profile  struct {
				PatientID uint `json:"patient_id"`
			} `json:"profile"`
		} `json:"account"`
		TemporaryPassword string `json:"temporary_password"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &raw))
	assert.NotEmpty(t, raw.TemporaryPassword)
	patientID := raw.Account.Profile.PatientID
	require.NotZero(t, patientID)

	w, resp = api.do(http.MethodGet, "/api/admissions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"count":1`)

	w, resp = api.do(http.MethodPost, fmt.Sprintf("/api/patients/%d/discharge", patientID), gin.H{"generate_invoice": true})
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
	var discharge struct {
		Invoice struct {
			ID     uint   `json:"id"`
			Amount string `json:"amount"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &discharge))
	require.NotZero(t, discharge.Invoice.ID)

	w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/patients/%d/discharge", patientID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = api.do(http.MethodGet, fmt.Sprintf("/api/invoices/%d/export", discharge.Invoice.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	w, resp = api.do(http.MethodPost, fmt.Sprintf("/api/invoices/%d/pay", discharge.Invoice.ID), gin.H{"payment_method": "Card"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"status":"Paid"`)

	w, _ = api.do(http.MethodGet, "/api/invoices/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointmentLifecycleOverHTTP(t *testing.T) {
	api := setupAPI(t, true)
	api.loginAdmin()

	w, resp := api.do(http.MethodPost, "/api/admissions", gin.H{"person": gin.H{"given_name": "Pat", "last_name": "One"}})
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)

	w, resp = api.do(http.MethodPost, "/api/appointments", gin.H{
		"patient_id":    1,
		"doctor_id":     1,
		"scheduled_for": "2024-03-11T10:00:00Z",
		"purpose":       "Check-up",
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)
	var appointment struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &appointment))
	assert.Equal(t, "Pending", appointment.Status)

	w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/complete", appointment.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/accept", appointment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = api.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/complete", appointment.ID), gin.H{"diagnosis": "Healthy"})
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
	assert.Contains(t, string(resp.Data), `"diagnosis":"Healthy"`)

	w, resp = api.do(http.MethodGet, "/api/patients/1/records", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"count":1`)

	w, _ = api.do(http.MethodGet, "/api/patients/1/records/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
}

func TestAccountApprovalRoutes(t *testing.T) {
	api := setupAPI(t, true)
	api.loginAdmin()

	w, resp := api.do(http.MethodPost, "/api/doctors", gin.H{"person": gin.H{"given_name": "Ana", "last_name": "Cruz"}})
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)

	w, resp = api.do(http.MethodGet, "/api/doctors?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"count":1`)

	w, _ = api.do(http.MethodGet, "/api/doctors?status=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPost, "/api/doctors/2/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = api.do(http.MethodGet, "/api/doctors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"count":2`)

	w, resp = api.do(http.MethodPost, "/api/doctors/2/availability", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"status":"NotAvailable"`)

	w, _ = api.do(http.MethodPost, "/api/doctors/abc/approve", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/users/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = api.do(http.MethodGet, "/api/users/admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = api.do(http.MethodGet, "/api/audit?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"action":"doctor_approve"`)
}

func TestRoomRoutes(t *testing.T) {
	api := setupAPI(t, true)
	api.loginAdmin()

	w, resp := api.do(http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"display":"Room 301 - ICU"`)

	w, _ = api.do(http.MethodPost, "/api/rooms", gin.H{"number": 101, "type": "Ward", "capacity": 4})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = api.do(http.MethodPost, "/api/departments", gin.H{"name": "Cardiology"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAppointmentOwnership(t *testing.T) {
	api := setupAPI(t, true)
	api.loginAdmin()

	alice, aliceToken := api.create("/api/admissions", "Alice", "Reyes")
	bob, bobToken := api.create("/api/admissions", "Bob", "Santos")
	alicePatient := alice.Account.Profile.PatientID
	bobPatient := bob.Account.Profile.PatientID
	require.NotZero(t, alicePatient)
	require.NotEqual(t, alicePatient, bobPatient)

	w, resp := api.do(http.MethodPost, "/api/appointments", gin.H{
		"patient_id":    alicePatient,
		"doctor_id":     1,
		"scheduled_for": "2024-03-11T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Error)
	var aliceVisit struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &aliceVisit))

	api.as(bobToken, func() {
		w, resp := api.do(http.MethodGet, "/api/appointments", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(resp.Data), `"count":0`)

		w, resp = api.do(http.MethodGet, fmt.Sprintf("/api/appointments?patient_id=%d", alicePatient), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(resp.Data), `"count":0`, "patient filter is forced to the caller")

		w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", aliceVisit.ID), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, _ = api.do(http.MethodPost, "/api/appointments/9999/cancel", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, _ = api.do(http.MethodPost, "/api/appointments", gin.H{
			"patient_id":    alicePatient,
			"doctor_id":     1,
			"scheduled_for": "2024-03-12T10:00:00Z",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, resp = api.do(http.MethodPost, "/api/appointments", gin.H{
			"doctor_id":     1,
			"scheduled_for": "2024-03-12T10:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code, resp.Error)
		var own struct {
			ID        uint `json:"id"`
			PatientID uint `json:"patient_id"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &own))
		assert.Equal(t, bobPatient, own.PatientID)

		w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/accept", own.ID), nil)
		assert.Equal(t, http.StatusForbidden, w.Code, "patients cannot accept")

		w, resp = api.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", own.ID), nil)
		require.Equal(t, http.StatusOK, w.Code, resp.Error)
		assert.Contains(t, string(resp.Data), `"notes":"cancelled"`)
	})

	api.as(aliceToken, func() {
		w, resp := api.do(http.MethodGet, "/api/appointments", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(resp.Data), `"count":1`)
	})

	// A second doctor only sees and acts on their own appointments
	_, anaToken := api.create("/api/doctors", "Ana", "Cruz")
	api.as(anaToken, func() {
		w, resp := api.do(http.MethodGet, "/api/appointments", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(resp.Data), `"count":0`)

		w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/accept", aliceVisit.ID), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	w, resp = api.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/accept", aliceVisit.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, resp.Error)
}

func TestAvailabilityOnlyForOwnRecord(t *testing.T) {
	api := setupAPI(t, true)
	api.loginAdmin()

	ana, anaToken := api.create("/api/doctors", "Ana", "Cruz")
	nina, ninaToken := api.create("/api/nurses", "Nina", "Lopez")
	require.NotEqual(t, uint(1), ana.Account.Profile.DoctorID)
	require.NotEqual(t, uint(1), nina.Account.Profile.NurseID)

	api.as(anaToken, func() {
		w, _ := api.do(http.MethodPost, "/api/doctors/1/availability", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, resp := api.do(http.MethodPost, fmt.Sprintf("/api/doctors/%d/availability", ana.Account.Profile.DoctorID), nil)
		assert.Equal(t, http.StatusOK, w.Code, resp.Error)

		w, _ = api.do(http.MethodPost, "/api/nurses/1/availability", nil)
		assert.Equal(t, http.StatusForbidden, w.Code, "doctors cannot reach nurse routes")
	})

	api.as(ninaToken, func() {
		w, _ := api.do(http.MethodPost, "/api/nurses/1/availability", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, resp := api.do(http.MethodPost, fmt.Sprintf("/api/nurses/%d/availability", nina.Account.Profile.NurseID), nil)
		assert.Equal(t, http.StatusOK, w.Code, resp.Error)
	})

	// staff and admin may toggle anyone
	w, _ := api.do(http.MethodPost, "/api/doctors/1/availability", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
