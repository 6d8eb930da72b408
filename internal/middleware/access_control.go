package middleware

import (
	"net/http"
	"strconv"

	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ContextRecordID holds the caller's own doctor/nurse/patient record id
const ContextRecordID = "recordID"

// OwnershipResolver looks up which role records a caller owns
type OwnershipResolver interface {
	OwnRecordID(userID uint, role models.Role) (uint, bool, error)
	ResolveRecordID(role models.Role, id uint) (uint, bool, error)
	AppointmentParties(appointmentID uint) (patientID, doctorID uint, found bool, err error)
}

// AccessControlMiddleware provides record-level access control on top of RequireRole
type AccessControlMiddleware struct {
	resolver OwnershipResolver
}

// NewAccessControlMiddleware creates a new access control middleware
func NewAccessControlMiddleware(resolver OwnershipResolver) *AccessControlMiddleware {
	return &AccessControlMiddleware{
		resolver: resolver,
	}
}

// ScopeToOwnRecord stores the caller's own record id under ContextRecordID when the
// caller holds one of roles. A caller in those roles without a record is refused.
func (m *AccessControlMiddleware) ScopeToOwnRecord(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := caller(c)
		if !ok {
			return
		}

		for _, scoped := range roles {
			if role != scoped {
				continue
			}
			own, ok := m.ownRecord(c, userID, role)
			if !ok {
				return
			}
			c.Set(ContextRecordID, own)
			break
		}

		c.Next()
	}
}

// CheckSelfAccess lets a caller holding role act on the :id record only when it is their own.
// Callers in other roles pass; RequireRole decides whether they may reach the route at all.
func (m *AccessControlMiddleware) CheckSelfAccess(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, callerRole, ok := caller(c)
		if !ok {
			return
		}
		if callerRole != role {
			c.Next()
			return
		}

		targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil || targetID == 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid id")
			c.Abort()
			return
		}

		own, ok := m.ownRecord(c, userID, role)
		if !ok {
			return
		}

		// Resolve the path the same way the operation will
		target, found, err := m.resolver.ResolveRecordID(role, uint(targetID))
		if err != nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify access")
			c.Abort()
			return
		}
		if !found || target != own {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied: you can only change your own record")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CheckAppointmentAccess admits admin and staff to every appointment in :id,
// patients and doctors only to appointments they are a party to.
func (m *AccessControlMiddleware) CheckAppointmentAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := caller(c)
		if !ok {
			return
		}

		// Admin and staff manage every appointment
		if role == models.RoleAdmin || role == models.RoleStaff {
			c.Next()
			return
		}
		if role != models.RolePatient && role != models.RoleDoctor {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient role for this action")
			c.Abort()
			return
		}

		appointmentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil || appointmentID == 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid id")
			c.Abort()
			return
		}

		patientID, doctorID, found, err := m.resolver.AppointmentParties(uint(appointmentID))
		if err != nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify access")
			c.Abort()
			return
		}
		if !found {
			utils.ErrorResponse(c, http.StatusNotFound, "Appointment not found")
			c.Abort()
			return
		}

		own, ok := m.ownRecord(c, userID, role)
		if !ok {
			return
		}

		party := patientID
		if role == models.RoleDoctor {
			party = doctorID
		}
		if party != own {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied: this appointment belongs to someone else")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ownRecord resolves the caller's record, aborting the request when there is none
func (m *AccessControlMiddleware) ownRecord(c *gin.Context, userID uint, role models.Role) (uint, bool) {
	own, found, err := m.resolver.OwnRecordID(userID, role)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify access")
		c.Abort()
		return 0, false
	}
	if !found {
		utils.ErrorResponse(c, http.StatusForbidden, "Access denied: no "+string(role)+" record is linked to this account")
		c.Abort()
		return 0, false
	}
	return own, true
}

// caller reads the authenticated user set by AuthMiddleware, aborting with 401 when absent
func caller(c *gin.Context) (uint, models.Role, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		c.Abort()
		return 0, "", false
	}
	role, ok := GetRole(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User role not found")
		c.Abort()
		return 0, "", false
	}
	return userID, role, true
}

// GetRecordID returns the id stored by ScopeToOwnRecord
func GetRecordID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextRecordID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
