package handler

import (
	"net/http"
	"strconv"

	"hospital-workflow-backend/internal/service"
	"hospital-workflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves account provisioning, approval and the role lists
type AccountHandler struct {
	workflow *service.WorkflowService
}

func NewAccountHandler(workflow *service.WorkflowService) *AccountHandler {
	return &AccountHandler{
		workflow: workflow,
	}
}

// decision is an approve or reject call on one role record
type decision func(id, actorID uint) error

// listing returns the approved and pending views of one role
type listing struct {
	approved func() ([]service.AccountView, error)
	pending  func() ([]service.AccountView, error)
}

func (h *AccountHandler) approvals(kind string) (approve, reject decision, ok bool) {
	switch kind {
	case "doctors":
		return h.workflow.ApproveDoctor, h.workflow.RejectDoctor, true
	case "nurses":
		return h.workflow.ApproveNurse, h.workflow.RejectNurse, true
	case "staff":
		return h.workflow.ApproveStaff, h.workflow.RejectStaff, true
	case "patients":
		return h.workflow.ApprovePatient, h.workflow.RejectPatient, true
	}
	return nil, nil, false
}

func (h *AccountHandler) listings(kind string) (listing, bool) {
	switch kind {
	case "doctors":
		return listing{h.workflow.GetApprovedDoctors, h.workflow.GetPendingDoctors}, true
	case "nurses":
		return listing{h.workflow.GetApprovedNurses, h.workflow.GetPendingNurses}, true
	case "staff":
		return listing{h.workflow.GetApprovedStaff, h.workflow.GetPendingStaff}, true
	case "patients":
		return listing{h.workflow.GetApprovedPatients, h.workflow.GetPendingPatients}, true
	}
	return listing{}, false
}

// ProvisionAdmin creates the first administrator. It fails with 409 once one exists.
func (h *AccountHandler) ProvisionAdmin(c *gin.Context) {
	var req service.AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.workflow.ProvisionFirstAdmin(req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, account)
}

func (h *AccountHandler) CreateDoctor(c *gin.Context) {
	var req service.DoctorAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	created, err := h.workflow.CreateDoctorAccount(req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, created)
}

func (h *AccountHandler) CreateNurse(c *gin.Context) {
	var req service.NurseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	created, err := h.workflow.CreateNurseAccount(req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, created)
}

func (h *AccountHandler) CreateStaff(c *gin.Context) {
	var req service.StaffAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	created, err := h.workflow.CreateStaffAccount(req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, created)
}

// Approve handles POST /<kind>/:id/approve
func (h *AccountHandler) Approve(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.decide(c, kind, true)
	}
}

// Reject handles POST /<kind>/:id/reject
func (h *AccountHandler) Reject(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.decide(c, kind, false)
	}
}

func (h *AccountHandler) decide(c *gin.Context, kind string, approve bool) {
	approveFn, rejectFn, ok := h.approvals(kind)
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Unknown account kind")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	fn, message := rejectFn, "Rejected"
	if approve {
		fn, message = approveFn, "Approved"
	}
	if err := fn(id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, message)
}

// ToggleAvailability flips a doctor or nurse between Available and NotAvailable
func (h *AccountHandler) ToggleAvailability(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		toggle := h.workflow.ToggleDoctorAvailability
		switch kind {
		case "doctors":
		case "nurses":
			toggle = h.workflow.ToggleNurseAvailability
		default:
			utils.ErrorResponse(c, http.StatusNotFound, "Availability applies to doctors and nurses")
			return
		}

		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		status, err := toggle(id, actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"status": status})
	}
}

// List handles GET /<kind>?status=approved|pending
func (h *AccountHandler) List(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		l, ok := h.listings(kind)
		if !ok {
			utils.ErrorResponse(c, http.StatusNotFound, "Unknown account kind")
			return
		}

		fetch := l.approved
		switch c.DefaultQuery("status", "approved") {
		case "approved":
		case "pending":
			fetch = l.pending
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, "status must be approved or pending")
			return
		}

		accounts, err := fetch()
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{
			"accounts": accounts,
			"count":    len(accounts),
		})
	}
}

// ListAccounts returns every login account
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.workflow.GetAllAccounts()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.workflow.GetAccountByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if account == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Account not found")
		return
	}
	utils.SuccessResponse(c, account)
}

// RecentActivity handles GET /audit?limit=
func (h *AccountHandler) RecentActivity(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit")
		return
	}
	logs, err := h.workflow.RecentActivity(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}
