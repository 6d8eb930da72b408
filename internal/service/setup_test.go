package service

import (
	"fmt"
	"testing"
	"time"

	"hospital-workflow-backend/internal/config"
	"hospital-workflow-backend/internal/database"
	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"
	"hospital-workflow-backend/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testClock = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func testBilling() config.BillingConfig {
	return config.BillingConfig{
		ICUDailyRate:     decimal.NewFromInt(550),
		PrivateDailyRate: decimal.NewFromInt(400),
		DefaultDailyRate: decimal.NewFromInt(250),
		DoctorFee:        decimal.NewFromInt(500),
		MedicineFee:      decimal.NewFromInt(300),
		OtherCharges:     decimal.NewFromInt(100),
		ConsultationFee:  decimal.NewFromInt(150),
	}
}

type testEnv struct {
	svc    *WorkflowService
	store  *repository.Store
	bus    *events.Bus
	events []events.Event
}

// setupWorkflow opens a migrated in-memory database; seed adds the reference data
func setupWorkflow(t *testing.T, seed bool) *testEnv {
	t.Helper()
	utils.SetBcryptCost(bcrypt.MinCost)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: fmt.Sprintf("file:workflow_%d?mode=memory&cache=shared", time.Now().UnixNano()),
		},
		Server: config.ServerConfig{GinMode: "release"},
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

	env := &testEnv{store: repository.NewStore(db), bus: events.NewBus(zap.NewNop())}
	env.bus.SubscribeAll(func(e events.Event) { env.events = append(env.events, e) })
	env.svc = NewWorkflowService(env.store, testBilling(), env.bus, nil, zap.NewNop())
	env.svc.now = func() time.Time { return testClock }
	return env
}

func (e *testEnv) topics() []events.Topic {
	topics := make([]events.Topic, 0, len(e.events))
	for _, ev := range e.events {
		topics = append(topics, ev.Topic)
	}
	return topics
}

func person(given, last string) PersonInput {
	return PersonInput{GivenName: given, LastName: last}
}

// admit registers an approved, admitted patient and returns the created account
func (e *testEnv) admit(t *testing.T, given, last, room string) (*CreatedAccount, PatientProfile) {
	t.Helper()
	created, err := e.svc.AdmitNewPatient(PatientAccountRequest{Person: person(given, last), Room: room}, 0)
	require.NoError(t, err)
	profile, ok := created.Account.Profile.(PatientProfile)
	require.True(t, ok)
	return created, profile
}

func (e *testEnv) patient(t *testing.T, id uint) *models.Patient {
	t.Helper()
	p, err := e.store.Patients.GetPatientByID(id)
	require.NoError(t, err)
	return p
}
