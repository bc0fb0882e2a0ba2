package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"bistroboard/mailer"
	"bistroboard/middleware"
	"bistroboard/models"
	"bistroboard/retryx"
)

type RegisterRequest struct {
	Username    string          `json:"username" binding:"required,min=3"`
	Password    string          `json:"password" binding:"required,min=6"`
	Role        models.UserRole `json:"role" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	Description string          `json:"description"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a restaurant or vendor account. Vendors start in
// pending_approval and show up in the admin approval queue.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role != models.RoleRestaurant && req.Role != models.RoleVendor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: restaurant or vendor"})
		return
	}

	var existing models.User
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	status := models.StatusActive
	if req.Role == models.RoleVendor {
		status = models.StatusPendingApproval
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Description:  req.Description,
		IsActive:     true,
		Status:       status,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	welcome := mailer.TemplateWelcomeRestaurant
	if user.Role == models.RoleVendor {
		welcome = mailer.TemplateWelcomeVendor
	}
	h.Mailer.SendAsync(welcome, user.Email, map[string]any{
		"user_name": user.Name,
	}, &user.ID, nil)

	tok, err := h.Tokens.Issue(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Account created successfully",
		"access_token": tok,
		"token_type":   "bearer",
		"user": gin.H{
			"user_id":  user.ID,
			"username": user.Username,
			"role":     user.Role,
			"name":     user.Name,
			"status":   user.Status,
		},
	})
}

// Login authenticates a user and returns a signed session token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
		return
	}

	if !user.IsActive && user.Role != models.RoleAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User account is deactivated"})
		return
	}

	h.stampLastLogin(user.ID)
	h.userEvent(c, user.ID, "login", nil)

	tok, err := h.Tokens.Issue(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": tok,
		"token_type":   "bearer",
		"user_id":      user.ID,
		"role":         user.Role,
		"name":         user.Name,
	})
}

// stampLastLogin updates the last-login time through the shared conflict
// retry. Losing the race after all attempts is harmless; the login proceeds.
func (h *Handler) stampLastLogin(userID uint) {
	err := retryx.Do(3, 50*time.Millisecond, func() error {
		var u models.User
		if err := h.DB.First(&u, userID).Error; err != nil {
			return err
		}
		now := time.Now()
		res := h.DB.Model(&models.User{}).
			Where("id = ? AND version = ?", u.ID, u.Version).
			Updates(map[string]any{"last_login_at": now, "version": u.Version + 1})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return retryx.ErrConflict
		}
		return nil
	})
	if err != nil {
		h.Log.WithError(err).WithField("user_id", userID).Warn("failed to stamp last login")
	}
}

// Me returns the authenticated user's account
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}
