package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bistroboard/mailer"
	"bistroboard/models"
	"bistroboard/token"
)

// Handler carries the shared dependencies for all HTTP handlers. The
// connection pool, logger and token manager are injected at startup.
type Handler struct {
	DB     *gorm.DB
	Log    *logrus.Logger
	Tokens *token.Manager
	Mailer *mailer.Mailer
}

func New(db *gorm.DB, log *logrus.Logger, tokens *token.Manager, m *mailer.Mailer) *Handler {
	return &Handler{DB: db, Log: log, Tokens: tokens, Mailer: m}
}

// audit appends one immutable admin audit row. Rows are never updated
// or deleted after this write.
func (h *Handler) audit(c *gin.Context, adminID uint, action string, targetUserID *uint, details map[string]any) {
	entry := models.AdminAuditLog{
		AdminID:      adminID,
		TargetUserID: targetUserID,
		Action:       action,
		Details:      datatypes.JSONMap(details),
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		h.Log.WithError(err).WithField("action", action).Error("failed to write audit log")
	}
}

// userEvent records a user-initiated event (login, profile update).
func (h *Handler) userEvent(c *gin.Context, userID uint, eventType string, details map[string]any) {
	entry := models.UserEventLog{
		UserID:    userID,
		EventType: eventType,
		Details:   datatypes.JSONMap(details),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		h.Log.WithError(err).WithField("event", eventType).Warn("failed to write user event log")
	}
}
