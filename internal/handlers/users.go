package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SynilogicTeam/kundliGen/internal/store"
)

// UsersHandler is the admin-facing user management surface.
type UsersHandler struct {
	Users *store.Users
}

func NewUsersHandler(users *store.Users) *UsersHandler {
	return &UsersHandler{Users: users}
}

func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.Users.List()
	if err != nil {
		fail(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

func (h *UsersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid user id")
		return
	}

	user, err := h.Users.FindByID(id)
	if err != nil {
		fail(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

type adminUpdateUserRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Address     *string `json:"address"`
	IsActive    *bool   `json:"isActive"`
}

// Update lets an admin edit any user, including the is_active flag that
// gates login; users cannot deactivate themselves through the profile
// endpoint.
func (h *UsersHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid user id")
		return
	}

	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, err := h.Users.FindByID(id)
	if err != nil {
		fail(c, err, "User not found")
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		if other, err := h.Users.FindByEmail(*req.Email); err == nil && other.ID != user.ID {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already exists"})
			return
		}
		fields["email"] = *req.Email
	}
	if req.Phone != nil && (user.Phone == nil || *user.Phone != *req.Phone) {
		if other, err := h.Users.FindByPhone(*req.Phone); err == nil && other.ID != user.ID {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Phone number is already taken"})
			return
		}
		fields["phone"] = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			badRequest(c, "Invalid date of birth")
			return
		}
		fields["date_of_birth"] = dob
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := h.Users.Update(user.ID, fields); err != nil {
			fail(c, err, "User update failed")
			return
		}
	}

	user, err = h.Users.FindByID(id)
	if err != nil {
		fail(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    user,
	})
}

func (h *UsersHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid user id")
		return
	}

	if _, err := h.Users.FindByID(id); err != nil {
		fail(c, err, "User not found")
		return
	}

	if err := h.Users.Delete(id); err != nil {
		fail(c, err, "User deletion failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
