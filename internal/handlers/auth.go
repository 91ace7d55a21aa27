package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SynilogicTeam/kundliGen/internal/auth"
	"github.com/SynilogicTeam/kundliGen/internal/middleware"
	"github.com/SynilogicTeam/kundliGen/internal/models"
	"github.com/SynilogicTeam/kundliGen/internal/store"
)

type AuthHandler struct {
	Auth  *auth.Service
	Users *store.Users
}

func NewAuthHandler(svc *auth.Service, users *store.Users) *AuthHandler {
	return &AuthHandler{Auth: svc, Users: users}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=4,numeric"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=4,numeric"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"name":            u.Name,
		"email":           u.Email,
		"phone":           u.Phone,
		"dateOfBirth":     u.DateOfBirth,
		"address":         u.Address,
		"isEmailVerified": u.IsVerified,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		switch statusFor(err) {
		case http.StatusConflict:
			fail(c, err, "User with this email or phone already exists")
		case http.StatusServiceUnavailable:
			fail(c, err, "Registration failed. Please try again.")
		default:
			fail(c, err, "Registration failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful! Please check your email for OTP verification.",
		"data":    userPayload(user),
	})
}

func (h *AuthHandler) VerifyRegistrationOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, sessionToken, err := h.Auth.VerifyRegistrationOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		fail(c, err, "Invalid or expired OTP")
		return
	}

	payload := userPayload(user)
	payload["token"] = sessionToken
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully! You can now login.",
		"data":    payload,
	})
}

func (h *AuthHandler) ResendRegistrationOTP(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	if err := h.Auth.ResendRegistrationOTP(c.Request.Context(), req.Email); err != nil {
		switch statusFor(err) {
		case http.StatusConflict:
			fail(c, err, "Email is already verified")
		case http.StatusTooManyRequests:
			fail(c, err, "Please wait before requesting another OTP")
		case http.StatusServiceUnavailable:
			fail(c, err, "Failed to send OTP")
		default:
			fail(c, err, "User not found")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "New OTP sent to your email successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, sessionToken, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err, "Invalid email or password")
		return
	}

	payload := userPayload(user)
	payload["token"] = sessionToken
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data":    payload,
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		switch statusFor(err) {
		case http.StatusNotFound:
			fail(c, err, "User not found")
		default:
			fail(c, err, "Failed to send OTP")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email successfully"})
}

func (h *AuthHandler) VerifyResetOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	if err := h.Auth.VerifyResetOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		fail(c, err, "Invalid or expired OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP verified successfully. You can now set your new password.",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	if len(req.NewPassword) < 6 {
		badRequest(c, "Password must be at least 6 characters long")
		return
	}

	if err := h.Auth.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		fail(c, err, "Invalid or expired OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

func (h *AuthHandler) ResendResetOTP(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	if err := h.Auth.ResendResetOTP(c.Request.Context(), req.Email); err != nil {
		switch statusFor(err) {
		case http.StatusTooManyRequests:
			fail(c, err, "Please wait before requesting another OTP")
		case http.StatusServiceUnavailable:
			fail(c, err, "Failed to send OTP")
		default:
			fail(c, err, "User not found")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "New OTP sent to your email successfully"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	if err := h.Auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch statusFor(err) {
		case http.StatusBadRequest:
			fail(c, err, "Current password is incorrect")
		default:
			fail(c, err, "User not found")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	user, err := h.Users.FindByID(userID)
	if err != nil {
		fail(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, err := h.Users.FindByID(userID)
	if err != nil {
		fail(c, err, "User not found")
		return
	}

	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Address != "" {
		fields["address"] = req.Address
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			badRequest(c, "Invalid date of birth")
			return
		}
		fields["date_of_birth"] = dob
	}
	if req.Phone != "" && (user.Phone == nil || *user.Phone != req.Phone) {
		if other, err := h.Users.FindByPhone(req.Phone); err == nil && other.ID != user.ID {
			badRequest(c, "Phone number is already taken")
			return
		}
		fields["phone"] = req.Phone
	}

	if len(fields) > 0 {
		if err := h.Users.Update(user.ID, fields); err != nil {
			fail(c, err, "Profile update failed")
			return
		}
	}

	user, err = h.Users.FindByID(userID)
	if err != nil {
		fail(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    userPayload(user),
	})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}
