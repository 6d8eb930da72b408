package handler

import (
	"hospital-workflow-backend/internal/config"
	"hospital-workflow-backend/internal/middleware"
	"hospital-workflow-backend/internal/models"
	"hospital-workflow-backend/internal/service"
	"hospital-workflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps is everything the HTTP surface calls into
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Workflow *service.WorkflowService
	Rooms    *service.RoomService
	Auth     *service.AuthService
	// Gatherer backs /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer
}

const (
	admin   = models.RoleAdmin
	doctor  = models.RoleDoctor
	nurse   = models.RoleNurse
	staff   = models.RoleStaff
	patient = models.RolePatient
)

// NewRouter wires every route onto a fresh engine
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(deps.Config.CORS))

	authHandler := NewAuthHandler(deps.Auth)
	accountHandler := NewAccountHandler(deps.Workflow)
	patientHandler := NewPatientHandler(deps.Workflow, logger)
	appointmentHandler := NewAppointmentHandler(deps.Workflow)
	billingHandler := NewBillingHandler(deps.Workflow, logger)
	roomHandler := NewRoomHandler(deps.Rooms)
	access := middleware.NewAccessControlMiddleware(deps.Workflow)

	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": deps.Config.Log.Service,
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// Succeeds only while no admin exists
	r.POST("/setup/admin", accountHandler.ProvisionAdmin)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())

	api.POST("/me/password", authHandler.ChangePassword)
	api.GET("/audit", middleware.RequireRole(admin), accountHandler.RecentActivity)

	users := api.Group("/users", middleware.RequireRole(admin, staff))
	{
		users.GET("", accountHandler.ListAccounts)
		users.GET("/:username", accountHandler.GetAccount)
	}

	doctors := api.Group("/doctors")
	{
		doctors.GET("", accountHandler.List("doctors"))
		doctors.POST("", middleware.RequireRole(admin, staff), accountHandler.CreateDoctor)
		doctors.POST("/:id/approve", middleware.RequireRole(admin), accountHandler.Approve("doctors"))
		doctors.POST("/:id/reject", middleware.RequireRole(admin), accountHandler.Reject("doctors"))
		doctors.POST("/:id/availability", middleware.RequireRole(admin, staff, doctor), access.CheckSelfAccess(doctor), accountHandler.ToggleAvailability("doctors"))
	}

	nurses := api.Group("/nurses")
	{
		nurses.GET("", accountHandler.List("nurses"))
		nurses.POST("", middleware.RequireRole(admin, staff), accountHandler.CreateNurse)
		nurses.POST("/:id/approve", middleware.RequireRole(admin), accountHandler.Approve("nurses"))
		nurses.POST("/:id/reject", middleware.RequireRole(admin), accountHandler.Reject("nurses"))
		nurses.POST("/:id/availability", middleware.RequireRole(admin, staff, nurse), access.CheckSelfAccess(nurse), accountHandler.ToggleAvailability("nurses"))
	}

	staffRoutes := api.Group("/staff", middleware.RequireRole(admin))
	{
		staffRoutes.GET("", accountHandler.List("staff"))
		staffRoutes.POST("", accountHandler.CreateStaff)
		staffRoutes.POST("/:id/approve", accountHandler.Approve("staff"))
		staffRoutes.POST("/:id/reject", accountHandler.Reject("staff"))
	}

	patients := api.Group("/patients")
	{
		patients.GET("", middleware.RequireRole(admin, staff, doctor, nurse), accountHandler.List("patients"))
		patients.POST("", middleware.RequireRole(admin, staff), patientHandler.Register)
		patients.POST("/:id/approve", middleware.RequireRole(admin, staff), accountHandler.Approve("patients"))
		patients.POST("/:id/reject", middleware.RequireRole(admin, staff), accountHandler.Reject("patients"))
		patients.POST("/:id/discharge", middleware.RequireRole(admin, staff, doctor), patientHandler.Discharge)
		patients.POST("/:id/reactivate", middleware.RequireRole(admin, staff), patientHandler.Reactivate)
		patients.POST("/:id/insurance", middleware.RequireRole(admin, staff), patientHandler.AddInsurance)
		patients.GET("/:id/records", middleware.RequireRole(admin, doctor, nurse), patientHandler.ListMedicalRecords)
		patients.POST("/:id/records", middleware.RequireRole(admin, doctor), patientHandler.AddMedicalRecord)
		patients.GET("/:id/records/export", middleware.RequireRole(admin, doctor, nurse), patientHandler.ExportMedicalHistory)
		patients.GET("/:id/invoices", middleware.RequireRole(admin, staff), billingHandler.ListPatientInvoices)
	}

	admissions := api.Group("/admissions", middleware.RequireRole(admin, staff, doctor, nurse))
	{
		admissions.GET("", patientHandler.Admissions)
		admissions.POST("", middleware.RequireRole(admin, staff), patientHandler.Admit)
	}

	appointments := api.Group("/appointments")
	{
		appointments.GET("", access.ScopeToOwnRecord(patient, doctor), appointmentHandler.List)
		appointments.POST("", middleware.RequireRole(admin, staff, patient), access.ScopeToOwnRecord(patient), appointmentHandler.Schedule)
		appointments.POST("/:id/accept", middleware.RequireRole(admin, staff, doctor), access.CheckAppointmentAccess(), appointmentHandler.Accept)
		appointments.POST("/:id/reject", middleware.RequireRole(admin, staff, doctor), access.CheckAppointmentAccess(), appointmentHandler.Reject)
		appointments.POST("/:id/complete", middleware.RequireRole(admin, doctor), access.CheckAppointmentAccess(), appointmentHandler.Complete)
		appointments.POST("/:id/cancel", middleware.RequireRole(admin, staff, patient), access.CheckAppointmentAccess(), appointmentHandler.Cancel)
	}

	invoices := api.Group("/invoices", middleware.RequireRole(admin, staff))
	{
		invoices.GET("/:id", billingHandler.GetInvoice)
		invoices.POST("/:id/pay", billingHandler.Pay)
		invoices.GET("/:id/export", billingHandler.ExportInvoice)
	}

	rooms := api.Group("/rooms")
	{
		rooms.GET("", roomHandler.ListRooms)
		rooms.POST("", middleware.RequireRole(admin), roomHandler.CreateRoom)
	}

	departments := api.Group("/departments")
	{
		departments.GET("", roomHandler.ListDepartments)
		departments.POST("", middleware.RequireRole(admin), roomHandler.CreateDepartment)
	}

	return r
}
