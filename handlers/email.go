package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bistroboard/middleware"
	"bistroboard/models"
)

type SendEmailRequest struct {
	ToEmail      string         `json:"to_email" binding:"required,email"`
	TemplateType string         `json:"template_type" binding:"required"`
	TemplateData map[string]any `json:"template_data"`
}

// SendEmail lets an admin dispatch a templated email directly
func (h *Handler) SendEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Mailer.Send(req.TemplateType, req.ToEmail, req.TemplateData, nil, nil); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email sent"})
}

// ListEmailTemplates returns the effective template set
func (h *Handler) ListEmailTemplates(c *gin.Context) {
	templates := h.Mailer.Templates()
	out := make([]gin.H, 0, len(templates))
	for name, tpl := range templates {
		out = append(out, gin.H{"template_type": name, "subject": tpl.Subject})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "templates": out})
}

// MyEmailLogs returns delivery logs addressed to the caller
func (h *Handler) MyEmailLogs(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var logs []models.EmailLog
	h.DB.Where("user_id = ?", user.ID).Order("created_at desc").Limit(100).Find(&logs)
	c.JSON(http.StatusOK, gin.H{"count": len(logs), "logs": logs})
}

// AllEmailLogs returns delivery logs across the platform (admin only)
func (h *Handler) AllEmailLogs(c *gin.Context) {
	query := h.DB.Model(&models.EmailLog{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if templateType := c.Query("template_type"); templateType != "" {
		query = query.Where("template_type = ?", templateType)
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	var logs []models.EmailLog
	query.Order("created_at desc").Limit(limit).Find(&logs)
	c.JSON(http.StatusOK, gin.H{"count": len(logs), "logs": logs})
}
