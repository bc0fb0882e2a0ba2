package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bistroboard/handlers"
	"bistroboard/middleware"
	"bistroboard/models"
	"bistroboard/token"
)

func Setup(r *gin.Engine, db *gorm.DB, tokens *token.Manager, h *handlers.Handler) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(db, tokens))
	{
		auth.GET("/auth/me", h.Me)

		auth.GET("/profiles/me", h.GetMyProfile)
		auth.PUT("/profiles/me", h.UpdateMyProfile)
		auth.GET("/profiles/vendors", h.ListVendors)

		auth.POST("/orders", h.CreateOrder)
		auth.GET("/orders", h.ListOrders)
		auth.GET("/orders/:id", h.GetOrder)
		auth.PUT("/orders/:id/status", h.UpdateOrderStatus)
		auth.PUT("/orders/:id/notes", h.UpdateOrderNotes)

		auth.GET("/marketplace/categories", h.MarketplaceCategories)
		auth.GET("/marketplace/vendors", h.SearchVendors)
		auth.GET("/marketplace/vendors/:id", h.GetVendor)

		auth.GET("/email/logs", h.MyEmailLogs)

		auth.POST("/impersonation/end", h.EndImpersonation)
	}

	// ── Vendor inventory routes ────────────────────────────────────
	inventory := r.Group("/api/inventory")
	inventory.Use(middleware.AuthRequired(db, tokens), middleware.RoleRequired(models.RoleVendor))
	{
		inventory.GET("/categories", h.ListCategories)
		inventory.POST("/categories", h.CreateCategory)
		inventory.PUT("/categories/:id", h.UpdateCategory)
		inventory.DELETE("/categories/:id", h.DeleteCategory)

		inventory.GET("/items", h.ListItems)
		inventory.POST("/items", h.CreateItem)
		inventory.GET("/items/:id", h.GetItem)
		inventory.PUT("/items/:id", h.UpdateItem)
		inventory.DELETE("/items/:id", h.DeleteItem)

		inventory.GET("/skus", h.ListSKUs)
		inventory.POST("/skus", h.CreateSKU)
		inventory.PUT("/skus/:id", h.UpdateSKU)
		inventory.DELETE("/skus/:id", h.DeleteSKU)
		inventory.POST("/skus/:id/stock", h.AdjustStock)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(db, tokens), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard-stats", h.DashboardStats)
		admin.GET("/action-queues", h.ActionQueues)
		admin.GET("/users", h.AdminListUsers)
		admin.POST("/users", h.AdminCreateUser)
		admin.PUT("/users/:id/status", h.UpdateUserStatus)
		admin.POST("/users/:id/impersonate", h.StartImpersonation)
		admin.GET("/audit-logs", h.AuditLogs)

		admin.POST("/email/send", h.SendEmail)
		admin.GET("/email/templates", h.ListEmailTemplates)
		admin.GET("/email/logs", h.AllEmailLogs)
	}
}
