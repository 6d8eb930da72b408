package handler

import (
	"net/http"

	"hospital-workflow-backend/internal/report"
	"hospital-workflow-backend/internal/service"
	"hospital-workflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PatientHandler serves registration, admission and medical records
type PatientHandler struct {
	workflow *service.WorkflowService
	logger   *zap.Logger
}

func NewPatientHandler(workflow *service.WorkflowService, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{
		workflow: workflow,
		logger:   logger,
	}
}

type DischargeRequest struct {
	GenerateInvoice bool `json:"generate_invoice"`
}

// Register creates a patient without admitting or approving unless the body asks for it
func (h *PatientHandler) Register(c *gin.Context) {
	var req service.PatientAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	created, err := h.workflow.CreatePatientAccount(req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, created)
}

// Admit registers an approved, currently admitted patient
func (h *PatientHandler) Admit(c *gin.Context) {
	var req service.PatientAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	created, err := h.workflow.AdmitNewPatient(req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, created)
}

func (h *PatientHandler) Discharge(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req DischargeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	result, err := h.workflow.DischargePatient(id, req.GenerateInvoice, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

func (h *PatientHandler) Reactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.workflow.ReactivatePatient(id, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

func (h *PatientHandler) AddInsurance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.InsuranceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	policy, err := h.workflow.AddInsurance(id, req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, policy)
}

// Admissions handles GET /admissions?state=current|discharged
func (h *PatientHandler) Admissions(c *gin.Context) {
	fetch := h.workflow.GetCurrentAdmissions
	switch c.DefaultQuery("state", "current") {
	case "current":
	case "discharged":
		fetch = h.workflow.GetDeactivatedPatients
	default:
		utils.ErrorResponse(c, http.StatusBadRequest, "state must be current or discharged")
		return
	}

	patients, err := fetch()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}

func (h *PatientHandler) AddMedicalRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.MedicalRecordRequest
	req.PatientID = id
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.PatientID = id

	record, err := h.workflow.AddMedicalRecord(req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, record)
}

func (h *PatientHandler) ListMedicalRecords(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	records, err := h.workflow.ListMedicalRecords(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"records": records,
		"count":   len(records),
	})
}

// ExportMedicalHistory downloads the patient's records as a workbook
func (h *PatientHandler) ExportMedicalHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	history, err := h.workflow.GetMedicalHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if history == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Patient not found")
		return
	}

	data, err := report.MedicalHistory(*history)
	if err != nil {
		h.logger.Error("failed to render medical history", zap.Uint("patient_id", id), zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate export")
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+report.MedicalHistoryFilename(*history))
	c.Data(http.StatusOK, report.ContentType, data)
}
