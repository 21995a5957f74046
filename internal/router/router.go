package router

import (
	"github.com/gin-gonic/gin"

	"github.com/harborview/backoffice-api/internal/handler"
	"github.com/harborview/backoffice-api/internal/middleware"
	"github.com/harborview/backoffice-api/internal/models"
	"github.com/harborview/backoffice-api/internal/repository"
	"github.com/harborview/backoffice-api/internal/service"
	"github.com/harborview/backoffice-api/pkg/config"
)

// Handlers groups every HTTP handler wired into the API surface.
type Handlers struct {
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Employees      *handler.EmployeeHandler
	Guests         *handler.GuestHandler
	Suppliers      *handler.SupplierHandler
	Inventory      *handler.InventoryHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	Invoices       *handler.InvoiceHandler
	Reservations   *handler.ReservationHandler
	Attendance     *handler.AttendanceHandler
	Dashboard      *handler.DashboardHandler
	Exports        *handler.ExportHandler
	Files          *handler.FilesHandler
}

// Register mounts all API routes under the configured prefix.
func Register(r *gin.Engine, cfg *config.Config, auth *service.AuthService, userRepo *repository.UserRepository, h Handlers) {
	adminOnly := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)
	anyStaff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleStaff)

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Me)
	authed.POST("/auth/change-password", h.Auth.ChangePassword)

	users := authed.Group("/users")
	{
		users.GET("", adminOnly, h.Users.List)
		users.GET("/:id", middleware.RBAC(string(models.RoleSuperAdmin), string(models.RoleAdmin), "SELF"), h.Users.Get)
		users.POST("", middleware.RequireRoles(models.RoleSuperAdmin), middleware.Audit(userRepo, models.AuditActionCreate, "users"), h.Users.Create)
		users.PUT("/:id", middleware.RequireRoles(models.RoleSuperAdmin), middleware.Audit(userRepo, models.AuditActionUpdate, "users"), h.Users.Update)
		users.POST("/:id/activate", middleware.RequireRoles(models.RoleSuperAdmin), middleware.Audit(userRepo, models.AuditActionStatus, "users"), h.Users.Activate)
		users.POST("/:id/deactivate", middleware.RequireRoles(models.RoleSuperAdmin), middleware.Audit(userRepo, models.AuditActionStatus, "users"), h.Users.Deactivate)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleSuperAdmin), middleware.Audit(userRepo, models.AuditActionDelete, "users"), h.Users.Delete)
	}

	employees := authed.Group("/employees")
	{
		employees.GET("", anyStaff, h.Employees.List)
		employees.GET("/:id", anyStaff, h.Employees.Get)
		employees.POST("", adminOnly, middleware.Audit(userRepo, models.AuditActionCreate, "employees"), h.Employees.Create)
		employees.PUT("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionUpdate, "employees"), h.Employees.Update)
		employees.POST("/:id/photo", adminOnly, middleware.Audit(userRepo, models.AuditActionUpdate, "employees"), h.Employees.UploadPhoto)
		employees.POST("/:id/activate", adminOnly, middleware.Audit(userRepo, models.AuditActionStatus, "employees"), h.Employees.Activate)
		employees.POST("/:id/deactivate", adminOnly, middleware.Audit(userRepo, models.AuditActionStatus, "employees"), h.Employees.Deactivate)
		employees.DELETE("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionDelete, "employees"), h.Employees.Delete)
	}

	guests := authed.Group("/guests")
	{
		guests.GET("", anyStaff, h.Guests.List)
		guests.GET("/:id", anyStaff, h.Guests.Get)
		guests.POST("", anyStaff, middleware.Audit(userRepo, models.AuditActionCreate, "guests"), h.Guests.Create)
		guests.PUT("/:id", anyStaff, middleware.Audit(userRepo, models.AuditActionUpdate, "guests"), h.Guests.Update)
		guests.POST("/:id/activate", adminOnly, middleware.Audit(userRepo, models.AuditActionStatus, "guests"), h.Guests.Activate)
		guests.POST("/:id/deactivate", adminOnly, middleware.Audit(userRepo, models.AuditActionStatus, "guests"), h.Guests.Deactivate)
		guests.DELETE("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionDelete, "guests"), h.Guests.Delete)
	}

	suppliers := authed.Group("/suppliers")
	{
		suppliers.GET("", anyStaff, h.Suppliers.List)
		suppliers.GET("/:id", anyStaff, h.Suppliers.Get)
		suppliers.POST("", adminOnly, middleware.Audit(userRepo, models.AuditActionCreate, "suppliers"), h.Suppliers.Create)
		suppliers.PUT("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionUpdate, "suppliers"), h.Suppliers.Update)
		suppliers.POST("/:id/activate", adminOnly, middleware.Audit(userRepo, models.AuditActionStatus, "suppliers"), h.Suppliers.Activate)
		suppliers.POST("/:id/deactivate", adminOnly, middleware.Audit(userRepo, models.AuditActionStatus, "suppliers"), h.Suppliers.Deactivate)
		suppliers.DELETE("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionDelete, "suppliers"), h.Suppliers.Delete)
	}

	inventory := authed.Group("/inventory")
	{
		inventory.GET("", anyStaff, h.Inventory.List)
		inventory.GET("/:id", anyStaff, h.Inventory.Get)
		inventory.POST("", adminOnly, middleware.Audit(userRepo, models.AuditActionCreate, "inventory"), h.Inventory.Create)
		inventory.PUT("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionUpdate, "inventory"), h.Inventory.Update)
		inventory.POST("/:id/status", anyStaff, middleware.Audit(userRepo, models.AuditActionStatus, "inventory"), h.Inventory.ChangeStatus)
		inventory.POST("/:id/image", adminOnly, middleware.Audit(userRepo, models.AuditActionUpdate, "inventory"), h.Inventory.UploadImage)
		inventory.DELETE("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionDelete, "inventory"), h.Inventory.Delete)
	}

	orders := authed.Group("/purchase-orders")
	{
		orders.GET("", anyStaff, h.PurchaseOrders.List)
		orders.GET("/:id", anyStaff, h.PurchaseOrders.Get)
		orders.POST("", adminOnly, middleware.Audit(userRepo, models.AuditActionCreate, "purchase-orders"), h.PurchaseOrders.Create)
		orders.PUT("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionUpdate, "purchase-orders"), h.PurchaseOrders.Update)
		orders.POST("/:id/status", adminOnly, middleware.Audit(userRepo, models.AuditActionStatus, "purchase-orders"), h.PurchaseOrders.ChangeStatus)
		orders.DELETE("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionDelete, "purchase-orders"), h.PurchaseOrders.Delete)
	}

	invoices := authed.Group("/invoices")
	{
		invoices.GET("", anyStaff, h.Invoices.List)
		invoices.GET("/:id", anyStaff, h.Invoices.Get)
		invoices.GET("/:id/pdf", anyStaff, h.Invoices.DownloadPDF)
		invoices.POST("", anyStaff, middleware.Audit(userRepo, models.AuditActionCreate, "invoices"), h.Invoices.Create)
		invoices.PUT("/:id", anyStaff, middleware.Audit(userRepo, models.AuditActionUpdate, "invoices"), h.Invoices.Update)
		invoices.POST("/:id/status", anyStaff, middleware.Audit(userRepo, models.AuditActionStatus, "invoices"), h.Invoices.ChangeStatus)
		invoices.DELETE("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionDelete, "invoices"), h.Invoices.Delete)
	}

	reservations := authed.Group("/reservations")
	{
		reservations.GET("", anyStaff, h.Reservations.List)
		reservations.GET("/:id", anyStaff, h.Reservations.Get)
		reservations.POST("", anyStaff, middleware.Audit(userRepo, models.AuditActionCreate, "reservations"), h.Reservations.Create)
		reservations.PUT("/:id", anyStaff, middleware.Audit(userRepo, models.AuditActionUpdate, "reservations"), h.Reservations.Update)
		reservations.POST("/:id/status", anyStaff, middleware.Audit(userRepo, models.AuditActionStatus, "reservations"), h.Reservations.ChangeStatus)
		reservations.DELETE("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionDelete, "reservations"), h.Reservations.Delete)
	}

	attendance := authed.Group("/attendance")
	{
		attendance.GET("", anyStaff, h.Attendance.List)
		attendance.GET("/:id", anyStaff, h.Attendance.Get)
		attendance.POST("", anyStaff, middleware.Audit(userRepo, models.AuditActionCreate, "attendance"), h.Attendance.Create)
		attendance.PUT("/:id", anyStaff, middleware.Audit(userRepo, models.AuditActionUpdate, "attendance"), h.Attendance.Update)
		attendance.POST("/:id/status", anyStaff, middleware.Audit(userRepo, models.AuditActionStatus, "attendance"), h.Attendance.ChangeStatus)
		attendance.DELETE("/:id", adminOnly, middleware.Audit(userRepo, models.AuditActionDelete, "attendance"), h.Attendance.Delete)
	}

	authed.GET("/dashboard/summary", anyStaff, h.Dashboard.Summary)

	if h.Exports != nil {
		exports := authed.Group("/exports")
		exports.POST("", adminOnly, h.Exports.Request)
		exports.GET("/:id", adminOnly, h.Exports.Get)
		exports.GET("/:id/download", adminOnly, h.Exports.Download)
	}

	// Signed token in the path carries authorization for file downloads.
	api.GET("/files/:token", h.Files.Serve)
}
