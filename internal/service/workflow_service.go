package service

import (
	"fmt"
	"strings"
	"time"

	"hospital-workflow-backend/internal/config"
	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/metrics"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/repository"

	"go.uber.org/zap"
)

// WorkflowService coordinates accounts, admissions, appointments and billing.
// Every mutating call runs in one transaction and publishes its change event after commit.
type WorkflowService struct {
	store   *repository.Store
	billing config.BillingConfig
	bus     *events.Bus
	metrics *metrics.WorkflowMetrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewWorkflowService(
	store *repository.Store,
	billing config.BillingConfig,
	bus *events.Bus,
	workflowMetrics *metrics.WorkflowMetrics,
	logger *zap.Logger,
) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bus != nil && workflowMetrics != nil {
		bus.SubscribeAll(func(e events.Event) { workflowMetrics.ObserveEvent(string(e.Topic)) })
	}
	return &WorkflowService{
		store:   store,
		billing: billing,
		bus:     bus,
		metrics: workflowMetrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// PersonInput carries the identity fields shared by every account kind
type PersonInput struct {
	GivenName        string     `json:"given_name" binding:"required"`
	MiddleName       string     `json:"middle_name"`
	LastName         string     `json:"last_name" binding:"required"`
	Suffix           string     `json:"suffix"`
	BirthDate        *time.Time `json:"birth_date"`
	Sex              string     `json:"sex"`
	ContactNumber    string     `json:"contact_number"`
	Address          string     `json:"address"`
	EmergencyContact string     `json:"emergency_contact"`
	EmergencyNumber  string     `json:"emergency_number"`
	Nationality      string     `json:"nationality"`
}

func (in PersonInput) validate() error {
	if strings.TrimSpace(in.GivenName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: given name and last name are required", ErrValidation)
	}
	return nil
}

func (in PersonInput) toModel() *models.Person {
	return &models.Person{
		GivenName:        strings.TrimSpace(in.GivenName),
		MiddleName:       strings.TrimSpace(in.MiddleName),
		LastName:         strings.TrimSpace(in.LastName),
		Suffix:           strings.TrimSpace(in.Suffix),
		BirthDate:        in.BirthDate,
		Sex:              in.Sex,
		ContactNumber:    in.ContactNumber,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		EmergencyNumber:  in.EmergencyNumber,
		Nationality:      in.Nationality,
	}
}

// finish records the outcome, logs failures and publishes the event on success
func (s *WorkflowService) finish(operation string, err error, topic events.Topic, entityID uint) {
	s.metrics.ObserveOperation(operation, err)
	if err != nil {
		s.logger.Warn("workflow operation failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("workflow operation completed",
		zap.String("operation", operation),
		zap.Uint("entity_id", entityID),
	)
	s.bus.Publish(topic, operation, entityID)
}

// audit writes an audit row inside the transaction; a zero actor is recorded as the system
func audit(tx *repository.Store, actorID uint, action, details string) error {
	var actor *uint
	if actorID != 0 {
		actor = &actorID
	}
	if err := tx.Audit.CreateAuditLog(actor, action, details); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
