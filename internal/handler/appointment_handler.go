package handler

import (
	"net/http"

	"hospital-workflow-backend/internal/middleware"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/service"
	"hospital-workflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	workflow *service.WorkflowService
}

func NewAppointmentHandler(workflow *service.WorkflowService) *AppointmentHandler {
	return &AppointmentHandler{
		workflow: workflow,
	}
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason"`
}

func (h *AppointmentHandler) Schedule(c *gin.Context) {
	var req service.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Patients book only for themselves
	if role, _ := middleware.GetRole(c); role == models.RolePatient {
		own, _ := middleware.GetRecordID(c)
		if req.PatientID != 0 && req.PatientID != own && req.PatientID != actorID(c) {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied: patients can only book for themselves")
			return
		}
		req.PatientID = own
	}

	appointment, err := h.workflow.ScheduleAppointment(req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, appointment)
}

// List handles GET /appointments?patient_id=&doctor_id=.
// Patients and doctors only ever see their own appointments.
func (h *AppointmentHandler) List(c *gin.Context) {
	patientID, ok := queryID(c, "patient_id")
	if !ok {
		return
	}
	doctorID, ok := queryID(c, "doctor_id")
	if !ok {
		return
	}

	if own, scoped := middleware.GetRecordID(c); scoped {
		switch role, _ := middleware.GetRole(c); role {
		case models.RolePatient:
			patientID = own
		case models.RoleDoctor:
			doctorID = own
		}
	}

	appointments, err := h.workflow.ListAppointments(patientID, doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

func (h *AppointmentHandler) Accept(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	appointment, err := h.workflow.AcceptAppointment(id, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, appointment)
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RejectAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	appointment, err := h.workflow.RejectAppointment(id, req.Reason, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, appointment)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	appointment, err := h.workflow.CancelAppointment(id, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, appointment)
}

// Complete closes an accepted appointment, recording the diagnosis and raising the consultation invoice
func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.CompleteAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	result, err := h.workflow.CompleteAppointment(id, req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}
