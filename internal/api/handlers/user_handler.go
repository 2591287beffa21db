package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/models"
	"roofline/server/internal/services"
)

// UserHandler handles user directory routes.
type UserHandler struct {
	userService services.IUserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.IUserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// RegisterUser handles POST /users. Create-if-absent: 201 with the inserted
// id on creation, 200 with an "already exists" message otherwise.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required and must be valid"})
		return
	}

	created, id, err := h.userService.RegisterIfAbsent(c.Request.Context(), req.Email, req.Name, req.PhotoURL)
	if err != nil {
		abortServiceError(c, err, "Failed to register user")
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "User already exists", "insertedId": nil})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": id.Hex()})
}

// GetUserByEmail handles GET /users/:email.
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.userService.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		abortServiceError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /users?role=.
func (h *UserHandler) ListUsers(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if role != "" && !models.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role filter"})
		return
	}

	users, err := h.userService.ListByRole(c.Request.Context(), role)
	if err != nil {
		abortServiceError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

type updateUserRequest struct {
	Name       *string `json:"name"`
	PhotoURL   *string `json:"photoURL"`
	FirstLogin *bool   `json:"firstLogin"`
}

// UpdateUser handles PATCH /users/:email. Profile fields only; role changes
// go through the dedicated role route.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.PhotoURL != nil {
		updates["photoURL"] = *req.PhotoURL
	}
	if req.FirstLogin != nil {
		updates["firstLogin"] = *req.FirstLogin
	}

	if err := h.userService.UpdateByEmail(c.Request.Context(), c.Param("email"), updates); err != nil {
		abortServiceError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

type setRoleRequest struct {
	Role models.Role `json:"role" binding:"required,userrole"`
}

// SetUserRole handles PATCH /users/role/:id.
func (h *UserHandler) SetUserRole(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "role must be one of user, agent, admin, fraud"})
		return
	}

	if err := h.userService.SetRole(c.Request.Context(), id, req.Role); err != nil {
		abortServiceError(c, err, "Failed to update role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

// MarkFraud handles PATCH /users/mark-fraud/:id. Sets role=fraud and
// cascade-deletes the agent's listings, best-effort.
func (h *UserHandler) MarkFraud(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	removed, err := h.userService.MarkFraud(c.Request.Context(), id)
	if err != nil {
		abortServiceError(c, err, "Failed to mark user as fraud")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User marked as fraud", "listingsRemoved": removed})
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		abortServiceError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
