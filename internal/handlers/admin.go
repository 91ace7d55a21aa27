package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SynilogicTeam/kundliGen/internal/auth"
	"github.com/SynilogicTeam/kundliGen/internal/credentials"
	"github.com/SynilogicTeam/kundliGen/internal/middleware"
	"github.com/SynilogicTeam/kundliGen/internal/models"
	"github.com/SynilogicTeam/kundliGen/internal/store"
)

type AdminHandler struct {
	Auth   *auth.Service
	Admins *store.Admins
}

func NewAdminHandler(svc *auth.Service, admins *store.Admins) *AdminHandler {
	return &AdminHandler{Auth: svc, Admins: admins}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type createAdminRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type updateAdminRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"isActive"`
}

func adminPayload(a *models.Admin) gin.H {
	return gin.H{
		"id":        a.ID,
		"username":  a.Username,
		"email":     a.Email,
		"isActive":  a.IsActive,
		"lastLogin": a.LastLogin,
		"createdAt": a.CreatedAt,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	admin, sessionToken, err := h.Auth.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err, "Invalid email or password")
		return
	}

	payload := adminPayload(admin)
	payload["token"] = sessionToken
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data":    payload,
	})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	if err := h.Auth.AdminLogout(c.Request.Context(), adminID); err != nil {
		fail(c, err, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
}

func (h *AdminHandler) Create(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	if _, err := h.Admins.FindByEmailOrUsername(req.Email, req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Admin with this email or username already exists",
		})
		return
	}

	hash, err := credentials.HashPassword(req.Password)
	if err != nil {
		fail(c, err, "Admin creation failed")
		return
	}

	admin := &models.Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := h.Admins.Create(admin); err != nil {
		fail(c, err, "Admin with this email or username already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin created successfully",
		"data":    adminPayload(admin),
	})
}

func (h *AdminHandler) GetSelf(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	admin, err := h.Admins.FindByID(adminID)
	if err != nil {
		fail(c, err, "Admin not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": adminPayload(admin)})
}

func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.Admins.List()
	if err != nil {
		fail(c, err, "Failed to list admins")
		return
	}

	payload := make([]gin.H, 0, len(admins))
	for i := range admins {
		payload = append(payload, adminPayload(&admins[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(payload), "data": payload})
}

func (h *AdminHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid admin id")
		return
	}

	var req updateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	admin, err := h.Admins.FindByID(id)
	if err != nil {
		fail(c, err, "Admin not found")
		return
	}

	fields := map[string]interface{}{}
	if req.Email != nil && *req.Email != admin.Email {
		if other, err := h.Admins.FindByEmail(*req.Email); err == nil && other.ID != admin.ID {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already exists"})
			return
		}
		fields["email"] = *req.Email
	}
	if req.Username != nil && *req.Username != admin.Username {
		if other, err := h.Admins.FindByEmailOrUsername("", *req.Username); err == nil && other.ID != admin.ID {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Username already exists"})
			return
		}
		fields["username"] = *req.Username
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := h.Admins.Update(admin.ID, fields); err != nil {
			fail(c, err, "Admin update failed")
			return
		}
	}

	admin, err = h.Admins.FindByID(id)
	if err != nil {
		fail(c, err, "Admin not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin updated successfully",
		"data":    adminPayload(admin),
	})
}

func (h *AdminHandler) Delete(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid admin id")
		return
	}
	if id == adminID {
		badRequest(c, "Cannot delete your own account")
		return
	}

	if _, err := h.Admins.FindByID(id); err != nil {
		fail(c, err, "Admin not found")
		return
	}

	if err := h.Admins.Delete(id); err != nil {
		fail(c, err, "Admin deletion failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin deleted successfully"})
}

func currentAdminID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.ContextAdminID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}
